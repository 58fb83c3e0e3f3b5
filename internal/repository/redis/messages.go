package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/theaterparty/server/internal/domain"
)

func (r repo) AddMessage(ctx context.Context, message domain.ChatMessage) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	pipe := r.rc.TxPipeline()
	pipe.RPush(ctx, messagesKey, body)
	pipe.LTrim(ctx, messagesKey, -messagesCap, -1)
	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to add message: %w", err)
	}

	return nil
}

func (r repo) GetRecentMessages(ctx context.Context, limit int) ([]domain.ChatMessage, error) {
	if limit <= 0 {
		return nil, nil
	}

	raw, err := r.rc.LRange(ctx, messagesKey, int64(-limit), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get recent messages: %w", err)
	}

	messages := make([]domain.ChatMessage, 0, len(raw))
	for _, body := range raw {
		var m domain.ChatMessage
		if err := json.Unmarshal([]byte(body), &m); err != nil {
			return nil, fmt.Errorf("failed to unmarshal message: %w", err)
		}
		messages = append(messages, m)
	}

	return messages, nil
}
