package postgres

import (
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/deadliner/repository"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// NewStore wires every Postgres repository onto one pool.
func NewStore(pool *pgxpool.Pool) repository.Store {
	return repository.Store{
		Deadlines:     NewDeadlineRepository(pool),
		Subtasks:      NewSubtaskRepository(pool),
		FocusSessions: NewFocusSessionRepository(pool),
		Categories:    NewCategoryRepository(pool),
		Users:         NewUserRepository(pool),
	}
}

func marshalMap(data map[string]string) []byte {
	if len(data) == 0 {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	return b
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

// limitArg maps a zero limit to NULL, which Postgres reads as LIMIT ALL.
func limitArg(limit int) any {
	if limit <= 0 {
		return nil
	}
	return limit
}
