package usecases

import (
	"context"

	domainerrors "docstack.backend/internal/domain/errors"
	"docstack.backend/internal/infrastructure/chat"
)

// ChatUsecase relays conversations to the upstream model service. The
// business content stays opaque here; this layer only validates shape.
type ChatUsecase struct {
	forwarder chat.Forwarder
}

// NewChatUsecase creates a new chat usecase
func NewChatUsecase(forwarder chat.Forwarder) *ChatUsecase {
	return &ChatUsecase{forwarder: forwarder}
}

// ChatInput is a conversation to forward upstream.
type ChatInput struct {
	Messages []chat.Message `json:"messages" binding:"required"`
}

// Send forwards a conversation and relays the upstream reply.
func (u *ChatUsecase) Send(ctx context.Context, input *ChatInput) (*chat.Reply, error) {
	if len(input.Messages) == 0 {
		return nil, domainerrors.Validation("messages must not be empty")
	}
	for _, m := range input.Messages {
		if m.Content == "" {
			return nil, domainerrors.Validation("message content must not be empty")
		}
	}

	reply, err := u.forwarder.Send(ctx, input.Messages)
	if err != nil {
		return nil, domainerrors.InternalError(err)
	}
	return reply, nil
}
