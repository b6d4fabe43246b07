package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"vena/internal/models"
	"vena/internal/repositories"
)

//go:generate mockgen -destination=mocks/mock_notifier.go -package=mocks vena/internal/services Notifier

// Notifier is the sink for human-readable events.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification) (*models.Notification, error)
}

// Broadcaster pushes a notification to connected dashboards.
type Broadcaster interface {
	Broadcast(n *models.Notification)
}

// ChatSender forwards a plain text alert to the vendor's chat.
type ChatSender interface {
	SendText(text string) error
}

type NotificationService struct {
	Store       repositories.Store
	Broadcaster Broadcaster // optional
	Chat        ChatSender  // optional
	Now         func() time.Time
}

var _ Notifier = (*NotificationService)(nil)

func NewNotificationService(store repositories.Store, hub Broadcaster, chat ChatSender) *NotificationService {
	return &NotificationService{Store: store, Broadcaster: hub, Chat: chat, Now: time.Now}
}

// Notify stores n and fans it out. Delivery to the chat is best effort.
func (s *NotificationService) Notify(ctx context.Context, n models.Notification) (*models.Notification, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = s.Now().UTC()
	}
	if n.Icon == "" {
		n.Icon = models.IconComment
	}
	if err := s.Store.Repos().Notifications.Create(ctx, &n); err != nil {
		return nil, fmt.Errorf("store notification: %w", err)
	}
	if s.Broadcaster != nil {
		s.Broadcaster.Broadcast(&n)
	}
	if s.Chat != nil {
		if err := s.Chat.SendText(n.Title + "\n" + n.Message); err != nil {
			log.Printf("[notify][chat] send failed id=%s err=%v", n.ID, err)
		}
	}
	return &n, nil
}

func (s *NotificationService) List(ctx context.Context, limit int) ([]*models.Notification, error) {
	return s.Store.Repos().Notifications.List(ctx, limit)
}

func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	err := s.Store.Repos().Notifications.MarkRead(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrNotificationNotFound
	}
	return err
}

// emit sends n and logs failures; callers have already committed their writes.
func emit(ctx context.Context, notifier Notifier, n models.Notification) *models.Notification {
	if notifier == nil {
		return nil
	}
	sent, err := notifier.Notify(ctx, n)
	if err != nil {
		log.Printf("[notify] emit failed title=%q err=%v", n.Title, err)
		return nil
	}
	return sent
}
