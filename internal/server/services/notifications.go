package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/tourgo/internal/common"
	"github.com/dmitrijs2005/tourgo/internal/logging"
	"github.com/dmitrijs2005/tourgo/internal/server/models"
	"github.com/dmitrijs2005/tourgo/internal/server/repositories/repomanager"
)

// Channel is one notification stream of the inbox.
type Channel struct {
	Messages []*models.Message
	Unread   int
}

// Inbox groups a recipient's notifications the way clients display them:
// likes and collects together, then comments, new fans and shares.
type Inbox struct {
	LikeCollects Channel
	Comments     Channel
	Fans         Channel
	Shares       Channel
	Unread       int
}

type NotificationService struct {
	c      coordinator
	logger logging.Logger
}

func NewNotificationService(db *sql.DB, rm repomanager.RepositoryManager, logger logging.Logger) *NotificationService {
	return &NotificationService{c: newCoordinator(db, rm), logger: logger.With("module", "notifications")}
}

func (ch *Channel) add(m *models.Message) {
	ch.Messages = append(ch.Messages, m)
	if !m.Read {
		ch.Unread++
	}
}

// sortInbox orders unread first, newest first within each group.
func sortInbox(msgs []*models.Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].Read != msgs[j].Read {
			return !msgs[i].Read
		}
		return msgs[i].CreatedAt.After(msgs[j].CreatedAt)
	})
}

// ListUnread returns every notification of recipient split into channels,
// with unread counts per channel and in total.
func (s *NotificationService) ListUnread(ctx context.Context, recipient string) (*Inbox, error) {
	msgs, err := s.c.read().messages().ListByReceiver(ctx, recipient)
	if err != nil {
		return nil, err
	}

	in := &Inbox{}
	for _, m := range msgs {
		switch m.Type {
		case models.MessageLike, models.MessageCollect:
			in.LikeCollects.add(m)
		case models.MessageComment:
			in.Comments.add(m)
		case models.MessageFollow:
			in.Fans.add(m)
		case models.MessageShare:
			in.Shares.add(m)
		default:
			s.logger.Warn(ctx, "skipping message of unknown type", "message_id", m.ID, "type", m.Type)
		}
	}

	for _, ch := range []*Channel{&in.LikeCollects, &in.Comments, &in.Fans, &in.Shares} {
		sortInbox(ch.Messages)
		in.Unread += ch.Unread
	}
	return in, nil
}

func requireMessageID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: message id is required", common.ErrValidation)
	}
	return nil
}

func (s *NotificationService) MarkRead(ctx context.Context, recipient, messageID string) error {
	if err := requireMessageID(messageID); err != nil {
		return err
	}
	ok, err := s.c.read().messages().MarkRead(ctx, messageID, recipient)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("message %s: %w", messageID, common.ErrNotFound)
	}
	return nil
}

// MarkAllRead returns how many messages changed state.
func (s *NotificationService) MarkAllRead(ctx context.Context, recipient string) (int64, error) {
	return s.c.read().messages().MarkAllRead(ctx, recipient)
}

func (s *NotificationService) Delete(ctx context.Context, recipient, messageID string) error {
	if err := requireMessageID(messageID); err != nil {
		return err
	}
	ok, err := s.c.read().messages().Delete(ctx, messageID, recipient)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("message %s: %w", messageID, common.ErrNotFound)
	}
	return nil
}
