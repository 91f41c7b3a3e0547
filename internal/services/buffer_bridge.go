package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/fastygo/deadliner/domain"
	"github.com/fastygo/deadliner/internal/infrastructure/buffer"
	"github.com/fastygo/deadliner/usecase"
)

// BufferBridge turns use case writes into buffer items for the processor.
type BufferBridge struct {
	processor *BufferProcessor
}

func NewBufferBridge(processor *BufferProcessor) *BufferBridge {
	return &BufferBridge{processor: processor}
}

func (b *BufferBridge) BufferProfile(ctx context.Context, operation string, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}
	return b.enqueue(ctx, buffer.EntityProfile, operation, user.ID, user.ID, user)
}

func (b *BufferBridge) BufferDeadline(ctx context.Context, operation string, deadline *domain.Deadline) error {
	if deadline == nil {
		return domain.ErrInvalidPayload
	}
	assignID(&deadline.ID)
	return b.enqueue(ctx, buffer.EntityDeadline, operation, deadline.ID, deadline.UserID, deadline)
}

func (b *BufferBridge) BufferSubtask(ctx context.Context, operation string, subtask *domain.Subtask) error {
	if subtask == nil {
		return domain.ErrInvalidPayload
	}
	assignID(&subtask.ID)
	return b.enqueue(ctx, buffer.EntitySubtask, operation, subtask.ID, subtask.UserID, subtask)
}

func (b *BufferBridge) BufferFocusSession(ctx context.Context, operation string, session *domain.FocusSession) error {
	if session == nil {
		return domain.ErrInvalidPayload
	}
	assignID(&session.ID)
	return b.enqueue(ctx, buffer.EntityFocusSession, operation, session.ID, session.UserID, session)
}

func (b *BufferBridge) enqueue(ctx context.Context, entity, operation, id, userID string, record any) error {
	if b.processor == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return b.processor.BufferOperation(ctx, buffer.Item{
		ID:        id,
		UserID:    userID,
		Entity:    entity,
		Operation: operation,
		Data:      payload,
		Priority:  buffer.PriorityFor(entity),
	})
}

// assignID gives a record created offline its id up front, so the caller sees the same id
// the replay will write.
func assignID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

var _ usecase.OperationBuffer = (*BufferBridge)(nil)
