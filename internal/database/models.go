package database

import "time"

// Exchange is one journaled request/reply pair. Exchanges are an audit log
// only and are never fed back into prompts.
type Exchange struct {
	ID          string    `db:"id"`
	ChatID      int64     `db:"chat_id"`
	UserID      int64     `db:"user_id"`
	Username    string    `db:"username"`
	RequestText string    `db:"request_text"`
	ReplyText   string    `db:"reply_text"`
	Failed      bool      `db:"failed"`
	ErrorKind   string    `db:"error_kind"`
	DurationMs  int64     `db:"duration_ms"`
	CreatedAt   time.Time `db:"created_at"`
}
