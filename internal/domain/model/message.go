package model

import (
	"errors"
	"strings"
	"time"
)

// Message is a single customer/admin message in a thread.
type Message struct {
	ID        string    `json:"id"         db:"id"`
	ThreadID  string    `json:"thread_id"  db:"thread_id"`
	SenderID  string    `json:"sender_id"  db:"sender_id"`
	FromAdmin bool      `json:"from_admin" db:"from_admin"`
	Body      string    `json:"body"       db:"body"`
	ReadAt    *time.Time `json:"read_at"   db:"read_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SendMessageRequest carries a new message into a thread.
type SendMessageRequest struct {
	ThreadID string `json:"thread_id"`
	Body     string `json:"body"`
}

// Validate checks required fields on a send request.
func (r *SendMessageRequest) Validate() error {
	if strings.TrimSpace(r.ThreadID) == "" {
		return errors.New("thread ID is required")
	}
	if strings.TrimSpace(r.Body) == "" {
		return errors.New("message body is required")
	}
	return nil
}

// MessageNotice is the event published when a new message lands.
// Subscribers (the websocket notifier) receive this shape as JSON.
type MessageNotice struct {
	ThreadID  string    `json:"thread_id"`
	MessageID string    `json:"message_id"`
	UserID    string    `json:"user_id"`
	FromAdmin bool      `json:"from_admin"`
	SentAt    time.Time `json:"sent_at"`
}
