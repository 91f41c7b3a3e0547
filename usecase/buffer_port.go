package usecase

import (
	"context"
	"errors"

	"github.com/fastygo/deadliner/domain"
)

const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// OperationBuffer abstracts the buffer processor so use cases stay storage-agnostic.
type OperationBuffer interface {
	BufferProfile(ctx context.Context, operation string, user *domain.User) error
	BufferDeadline(ctx context.Context, operation string, deadline *domain.Deadline) error
	BufferSubtask(ctx context.Context, operation string, subtask *domain.Subtask) error
	BufferFocusSession(ctx context.Context, operation string, session *domain.FocusSession) error
}

// Bufferable reports whether a failed write may be retried later. Domain errors are final.
func Bufferable(err error) bool {
	if err == nil {
		return false
	}
	var dErr *domain.Error
	return !errors.As(err, &dErr)
}
