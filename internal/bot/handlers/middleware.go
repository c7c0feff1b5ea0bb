// Package handlers contains the Telegram update handler and its middleware.
package handlers

import (
	"context"
	"runtime/debug"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Recoverer creates a middleware that stops a panicking handler from taking
// down the update worker. The panic is logged with its stack.
func Recoverer(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			defer func() {
				if r := recover(); r != nil {
					deps.Logger.With("middleware", "Recoverer").ErrorContext(ctx, "Handler panicked",
						"panic", r, "update_id", update.ID, "stack", string(debug.Stack()))
				}
			}()
			next(ctx, bot, update)
		}
	}
}
