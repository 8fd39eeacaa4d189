package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/solenne/boutique/internal/core"
	"github.com/solenne/boutique/internal/domain/model"
	apperrors "github.com/solenne/boutique/internal/errors"
)

// MessageServiceOptions groups dependencies for MessageService.
type MessageServiceOptions struct {
	Messages core.MessageRepository
	Notices  core.NoticePublisher
	Logger   *slog.Logger
}

// MessageService handles concierge message threads between members and the
// maison. Threads are keyed by the member's user ID.
type MessageService struct {
	messages core.MessageRepository
	notices  core.NoticePublisher
	logger   *slog.Logger
}

// NewMessageService constructs a new MessageService.
func NewMessageService(opts MessageServiceOptions) *MessageService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &MessageService{
		messages: opts.Messages,
		notices:  opts.Notices,
		logger:   logger,
	}
}

// Send stores a message and publishes a notice for the thread's member.
// Notice delivery is best-effort; the message is durable either way.
func (s *MessageService) Send(ctx context.Context, senderID string, fromAdmin bool, req *model.SendMessageRequest) (*model.Message, error) {
	if senderID == "" {
		return nil, errors.New("sender ID is required")
	}
	if req == nil {
		return nil, errors.New("send message request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	// Members may only write to their own thread.
	if !fromAdmin && req.ThreadID != senderID {
		return nil, apperrors.Validation("members can only write to their own thread")
	}

	msg, err := s.messages.Insert(ctx, &model.Message{
		ThreadID:  req.ThreadID,
		SenderID:  senderID,
		FromAdmin: fromAdmin,
		Body:      req.Body,
	})
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}

	if s.notices != nil {
		notice := model.MessageNotice{
			ThreadID:  msg.ThreadID,
			MessageID: msg.ID,
			UserID:    msg.ThreadID,
			FromAdmin: msg.FromAdmin,
			SentAt:    msg.CreatedAt,
		}
		if pubErr := s.notices.Publish(ctx, notice); pubErr != nil {
			s.logger.WarnContext(ctx, "message notice publish failed",
				"message_id", msg.ID, "error", pubErr)
		}
	}

	return msg, nil
}

// Thread retrieves a thread's messages and marks the reader's unread ones read.
func (s *MessageService) Thread(ctx context.Context, readerID, threadID string, admin bool, limit, offset int) ([]*model.Message, error) {
	if threadID == "" {
		return nil, errors.New("thread ID is required")
	}
	if !admin && threadID != readerID {
		return nil, apperrors.Validation("members can only read their own thread")
	}

	msgs, err := s.messages.ListThread(ctx, threadID, limit, offset)
	if err != nil {
		return nil, err
	}
	if markErr := s.messages.MarkRead(ctx, threadID, readerID); markErr != nil {
		s.logger.WarnContext(ctx, "mark thread read failed", "thread_id", threadID, "error", markErr)
	}
	return msgs, nil
}
