package postgres

import (
	"testing"

	"github.com/fastygo/deadliner/internal/config"
)

func TestDSN(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host:     "db",
		Port:     "5433",
		Name:     "deadliner",
		User:     "app",
		Password: "pw",
		SSLMode:  "disable",
	}
	if got, want := DSN(cfg), "postgres://app:pw@db:5433/deadliner?sslmode=disable"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	cfg.URL = "postgres://override/x"
	if got := DSN(cfg); got != cfg.URL {
		t.Fatalf("expected explicit url to win, got %q", got)
	}
}
