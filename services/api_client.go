package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"kings-admin/logger"
	"kings-admin/models"
)

const registryService = "registry-api"

// ErrorKind класс ошибки обращения к API
type ErrorKind string

const (
	KindTransport ErrorKind = "transport"
	KindStatus    ErrorKind = "status"
	KindMalformed ErrorKind = "malformed"
	KindInvalid   ErrorKind = "invalid"
)

// APIError ошибка обращения к API регистраций
type APIError struct {
	Kind       ErrorKind
	Op         string
	StatusCode int
	Err        error
}

func (e *APIError) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("%s: сервер ответил HTTP %d", e.Op, e.StatusCode)
	default:
		if e.Err == nil {
			return fmt.Sprintf("%s: %s", e.Op, e.Kind)
		}
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// KindOf возвращает класс ошибки; для посторонних ошибок transport
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindTransport
}

// RegistryAPI операции удалённого API, которые нужны хранилищу
type RegistryAPI interface {
	ListUsers(ctx context.Context) ([]models.UserRecord, error)
	UpdateStatus(ctx context.Context, userID string, status models.Status) error
	DeleteUser(ctx context.Context, userID string) error
}

type RegistryClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewRegistryClient создаёт клиента; timeout == 0 отключает ограничение
func NewRegistryClient(baseURL string, timeout time.Duration) *RegistryClient {
	return &RegistryClient{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ListUsers получает полный список регистраций
func (c *RegistryClient) ListUsers(ctx context.Context) ([]models.UserRecord, error) {
	const op = "list users"
	logger.ExternalServiceCall(registryService, op)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/users", nil)
	if err != nil {
		return nil, &APIError{Kind: KindInvalid, Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req, op)
	if err != nil {
		logger.ExternalServiceResult(registryService, op, err)
		return nil, err
	}

	var records []models.UserRecord
	if err := json.Unmarshal(body, &records); err != nil {
		err = &APIError{Kind: KindMalformed, Op: op, Err: err}
		logger.ExternalServiceResult(registryService, op, err)
		return nil, err
	}
	if records == nil {
		err = &APIError{Kind: KindMalformed, Op: op, Err: errors.New("ожидался массив записей")}
		logger.ExternalServiceResult(registryService, op, err)
		return nil, err
	}
	for i, rec := range records {
		if rec.ID == "" {
			err = &APIError{Kind: KindMalformed, Op: op, Err: fmt.Errorf("запись %d без идентификатора", i)}
			logger.ExternalServiceResult(registryService, op, err)
			return nil, err
		}
	}

	logger.ExternalServiceResult(registryService, op, nil, "count", len(records))
	return records, nil
}

// UpdateStatus меняет статус регистрации
func (c *RegistryClient) UpdateStatus(ctx context.Context, userID string, status models.Status) error {
	const op = "update status"
	if userID == "" || !status.Settable() {
		return &APIError{Kind: KindInvalid, Op: op, Err: fmt.Errorf("недопустимые параметры: id=%q status=%q", userID, status)}
	}
	logger.ExternalServiceCall(registryService, op, "user_id", userID, "status", status)

	payload, err := json.Marshal(map[string]string{
		"userId": userID,
		"status": string(status),
	})
	if err != nil {
		return &APIError{Kind: KindInvalid, Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/users/update-status", bytes.NewReader(payload))
	if err != nil {
		return &APIError{Kind: KindInvalid, Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	_, err = c.do(req, op)
	logger.ExternalServiceResult(registryService, op, err, "user_id", userID)
	return err
}

// DeleteUser удаляет регистрацию
func (c *RegistryClient) DeleteUser(ctx context.Context, userID string) error {
	const op = "delete user"
	if userID == "" {
		return &APIError{Kind: KindInvalid, Op: op, Err: errors.New("пустой идентификатор")}
	}
	logger.ExternalServiceCall(registryService, op, "user_id", userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.BaseURL+"/users/"+url.PathEscape(userID), nil)
	if err != nil {
		return &APIError{Kind: KindInvalid, Op: op, Err: err}
	}

	_, err = c.do(req, op)
	logger.ExternalServiceResult(registryService, op, err, "user_id", userID)
	return err
}

// do выполняет запрос и читает тело; любой не-2xx ответ считается ошибкой
func (c *RegistryClient) do(req *http.Request, op string) ([]byte, error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &APIError{Kind: KindTransport, Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Kind: KindTransport, Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Kind: KindStatus, Op: op, StatusCode: resp.StatusCode}
	}
	return body, nil
}
