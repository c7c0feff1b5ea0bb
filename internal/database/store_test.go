package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("NewDB() error = %v", err)
	}
	t.Cleanup(func() { CloseDB(db) })
	return NewStore(db, nil)
}

func TestNewDBRejectsEmptyPath(t *testing.T) {
	t.Parallel()

	if _, err := NewDB(""); err == nil {
		t.Fatal("NewDB(\"\") error = nil")
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "journal.db")
	for i := 0; i < 2; i++ {
		db, err := NewDB(path)
		if err != nil {
			t.Fatalf("NewDB() pass %d error = %v", i+1, err)
		}
		CloseDB(db)
	}
}

func TestSaveExchange(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.Ping(ctx); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}

	e := &Exchange{
		ChatID:      100,
		UserID:      7,
		Username:    "@anna",
		RequestText: "Hello",
		ReplyText:   "Hi, I'm here.",
		DurationMs:  420,
	}
	if err := store.SaveExchange(ctx, e); err != nil {
		t.Fatalf("SaveExchange() error = %v", err)
	}
	if e.ID == "" {
		t.Error("SaveExchange() did not assign an id")
	}
	if e.CreatedAt.IsZero() {
		t.Error("SaveExchange() did not assign created_at")
	}

	failed := &Exchange{ChatID: 100, RequestText: "Hello again", ReplyText: "fallback", Failed: true, ErrorKind: "rate_limit"}
	if err := store.SaveExchange(ctx, failed); err != nil {
		t.Fatalf("SaveExchange(failed) error = %v", err)
	}

	n, err := store.CountExchanges(ctx)
	if err != nil {
		t.Fatalf("CountExchanges() error = %v", err)
	}
	if n != 2 {
		t.Errorf("CountExchanges() = %d, want 2", n)
	}

	if err := store.SaveExchange(ctx, nil); err == nil {
		t.Error("SaveExchange(nil) error = nil")
	}
	if err := store.SaveExchange(ctx, &Exchange{RequestText: "x"}); err == nil {
		t.Error("SaveExchange(no chat) error = nil")
	}
}

func TestDeleteExchangesBefore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)

	now := time.Now().UTC()
	for _, age := range []time.Duration{90 * 24 * time.Hour, 45 * 24 * time.Hour, time.Hour} {
		e := &Exchange{ChatID: 1, RequestText: "q", ReplyText: "a", CreatedAt: now.Add(-age)}
		if err := store.SaveExchange(ctx, e); err != nil {
			t.Fatalf("SaveExchange() error = %v", err)
		}
	}

	deleted, err := store.DeleteExchangesBefore(ctx, now.Add(-30*24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteExchangesBefore() error = %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	n, err := store.CountExchanges(ctx)
	if err != nil {
		t.Fatalf("CountExchanges() error = %v", err)
	}
	if n != 1 {
		t.Errorf("remaining = %d, want 1", n)
	}

	if _, err := store.DeleteExchangesBefore(ctx, time.Time{}); err == nil {
		t.Error("DeleteExchangesBefore(zero) error = nil")
	}
}

func TestRunSQLMaintenance(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	if err := store.RunSQLMaintenance(context.Background()); err != nil {
		t.Fatalf("RunSQLMaintenance() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := store.RunSQLMaintenance(ctx); err == nil {
		t.Error("RunSQLMaintenance(canceled) error = nil")
	}
}
