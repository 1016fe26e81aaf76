package notification

import (
	"context"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
)

const feedLimit = 50

type UseCase struct {
	notifications repository.NotificationRepository
}

func New(notifications repository.NotificationRepository) *UseCase {
	return &UseCase{notifications: notifications}
}

// Feed returns the newest notifications for the user plus their unread
// count, so clients render a badge without a second round trip.
func (uc *UseCase) Feed(ctx context.Context, userID string) (*domain.NotificationFeed, error) {
	notifications, err := uc.notifications.ListByUser(ctx, userID, feedLimit)
	if err != nil {
		return nil, err
	}
	unread, err := uc.notifications.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	if notifications == nil {
		notifications = []domain.Notification{}
	}
	return &domain.NotificationFeed{Notifications: notifications, UnreadCount: unread}, nil
}

// MarkRead flips one notification; the repository scopes the write to
// the owning user so nobody can mark someone else's rows.
func (uc *UseCase) MarkRead(ctx context.Context, id, userID string) error {
	return uc.notifications.MarkRead(ctx, id, userID)
}

func (uc *UseCase) MarkAllRead(ctx context.Context, userID string) error {
	return uc.notifications.MarkAllRead(ctx, userID)
}
