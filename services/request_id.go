package services

import (
	"context"

	"github.com/google/uuid"
)

type requestIDKey struct{}

// MaxRequestIDLength совпадает с размером колонки request_id в журнале
const MaxRequestIDLength = 64

// WithRequestID кладёт идентификатор запроса в контекст; пустой или слишком
// длинный заменяется новым UUID
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" || len(id) > MaxRequestIDLength {
		id = uuid.NewString()
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext возвращает идентификатор запроса или пустую строку
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
