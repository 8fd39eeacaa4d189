package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/solenne/boutique/internal/data/pgxutil"
	"github.com/solenne/boutique/internal/domain/model"
	apperrors "github.com/solenne/boutique/internal/errors"
)

// MessageRepo provides database operations for concierge message threads.
type MessageRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewMessageRepo creates a new MessageRepo with real time provider.
func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewMessageRepoWithTimeProvider creates a new MessageRepo with a custom time provider (useful for tests).
func NewMessageRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *MessageRepo {
	return &MessageRepo{DB: db, timeProvider: tp}
}

// Insert stores a new message in its thread.
func (r *MessageRepo) Insert(ctx context.Context, msg *model.Message) (*model.Message, error) {
	if msg == nil {
		return nil, errors.New("message is required")
	}
	if strings.TrimSpace(msg.Body) == "" {
		return nil, errors.New("message body is required")
	}

	id := msg.ID
	if id == "" {
		id = uuid.NewString()
	}

	var out model.Message
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO messages (id, thread_id, sender_id, from_admin, body, read_at, created_at)
			VALUES ($1, $2, $3, $4, $5, NULL, $6)
			RETURNING id, thread_id, sender_id, from_admin, body, read_at, created_at
		`, id, msg.ThreadID, msg.SenderID, msg.FromAdmin, msg.Body, r.timeProvider.Now().UTC())
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Message])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// ListThread retrieves a thread's messages with pagination, oldest first.
func (r *MessageRepo) ListThread(ctx context.Context, threadID string, limit, offset int) ([]*model.Message, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	var rowsOut []model.Message
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, thread_id, sender_id, from_admin, body, read_at, created_at
			FROM messages
			WHERE thread_id = $1
			ORDER BY created_at ASC
			LIMIT $2 OFFSET $3`, threadID, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Message])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list thread messages: %w", err)
	}

	res := make([]*model.Message, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// MarkRead marks all messages in a thread not sent by the reader as read.
// Already-read messages keep their original read timestamp.
func (r *MessageRepo) MarkRead(ctx context.Context, threadID, readerID string) error {
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, `
			UPDATE messages
			SET read_at = $1
			WHERE thread_id = $2 AND sender_id <> $3 AND read_at IS NULL`,
			r.timeProvider.Now().UTC(), threadID, readerID)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to mark thread read: %w", err)
	}
	return nil
}
