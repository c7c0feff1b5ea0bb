// Package tasks implements the scheduled maintenance tasks for the exchange
// journal.
package tasks

import (
	"log/slog"
	"time"

	"github.com/edgard/empathybot/internal/database"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger        *slog.Logger
	Store         database.Store
	RetentionDays int

	// Now defaults to time.Now.
	Now func() time.Time
}
