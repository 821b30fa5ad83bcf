package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/tourgo/internal/server/models"
	"github.com/google/uuid"
)

// Payload is the JSON body stored in a notification.
type Payload struct {
	ArticleID string `json:"article_id,omitempty"`
	CommentID string `json:"comment_id,omitempty"`
	Message   string `json:"message"`
}

// emit inserts one notification inside the caller's unit of work. Actions on
// one's own content produce nothing.
func emit(ctx context.Context, u unit, sender, recipient string, kind models.MessageType, p Payload) error {
	if sender == recipient {
		return nil
	}
	content, err := json.Marshal(p)
	if err != nil {
		return err
	}
	m := &models.Message{
		ID:       uuid.NewString(),
		Sender:   sender,
		Receiver: recipient,
		Content:  string(content),
		Type:     kind,
	}
	if err := u.messages().Create(ctx, m); err != nil {
		return fmt.Errorf("emit %s notification: %w", kind, err)
	}
	return nil
}
