package repositories

import (
	"context"
	"fmt"

	"vena/internal/models"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	// List returns the newest notifications first; limit <= 0 means all.
	List(ctx context.Context, limit int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id string) error
}

type notificationRepository struct {
	db DBTX
}

func NewNotificationRepository(db DBTX) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	var view, action string
	if n.Link != nil {
		view, action = n.Link.View, n.Link.Action
	}
	const q = `
		INSERT INTO notifications (id, title, message, icon, link_view, link_action, timestamp, is_read)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`
	if _, err := r.db.ExecContext(ctx, q, n.ID, n.Title, n.Message, n.Icon, view, action, n.Timestamp, n.IsRead); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) List(ctx context.Context, limit int) ([]*models.Notification, error) {
	q := `
		SELECT id, title, message, icon, link_view, link_action, timestamp, is_read
		FROM notifications
		ORDER BY timestamp DESC, id
	`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT $1`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var res []*models.Notification
	for rows.Next() {
		var (
			n            models.Notification
			view, action string
		)
		if err := rows.Scan(&n.ID, &n.Title, &n.Message, &n.Icon, &view, &action, &n.Timestamp, &n.IsRead); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		if view != "" {
			n.Link = &models.NotificationLink{View: view, Action: action}
		}
		res = append(res, &n)
	}
	return res, rows.Err()
}

func (r *notificationRepository) MarkRead(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read=TRUE WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return expectOneRow(res, "mark notification read")
}
