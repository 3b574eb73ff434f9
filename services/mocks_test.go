package services

import (
	"context"

	"kings-admin/models"

	"github.com/stretchr/testify/mock"
)

type MockRegistryAPI struct {
	mock.Mock
}

func (m *MockRegistryAPI) ListUsers(ctx context.Context) ([]models.UserRecord, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]models.UserRecord)
	return records, args.Error(1)
}

func (m *MockRegistryAPI) UpdateStatus(ctx context.Context, userID string, status models.Status) error {
	args := m.Called(ctx, userID, status)
	return args.Error(0)
}

func (m *MockRegistryAPI) DeleteUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Record(ctx context.Context, decision *models.Decision) error {
	args := m.Called(ctx, decision)
	return args.Error(0)
}
