package comment

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
	"github.com/taskhive/backend/usecase"
	"github.com/taskhive/backend/usecase/authz"
)

type UseCase struct {
	comments      repository.CommentRepository
	tasks         repository.TaskRepository
	notifications repository.NotificationRepository
	activities    repository.ActivityRepository
	policy        authz.Policy
	buffer        usecase.OperationBuffer
	logger        *zap.Logger
}

func New(
	comments repository.CommentRepository,
	tasks repository.TaskRepository,
	notifications repository.NotificationRepository,
	activities repository.ActivityRepository,
	policy authz.Policy,
	buffer usecase.OperationBuffer,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		comments:      comments,
		tasks:         tasks,
		notifications: notifications,
		activities:    activities,
		policy:        policy,
		buffer:        buffer,
		logger:        logger,
	}
}

func (uc *UseCase) List(ctx context.Context, actor *domain.User, taskID string) ([]domain.Comment, error) {
	task, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !uc.policy.CanViewTask(actor, task) {
		return nil, domain.ErrForbidden
	}
	return uc.comments.ListByTask(ctx, taskID)
}

func (uc *UseCase) Create(ctx context.Context, actor *domain.User, taskID, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "content is required")
	}
	task, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !uc.policy.CanViewTask(actor, task) {
		return nil, domain.ErrForbidden
	}

	created, err := uc.comments.Create(ctx, &domain.Comment{
		ID:       uuid.New().String(),
		Content:  content,
		TaskID:   taskID,
		AuthorID: actor.ID,
	})
	if err != nil {
		return nil, err
	}

	if err := uc.activities.Append(ctx, domain.NewActivity(domain.ActivityCommentAdded, taskID, actor.ID, nil)); err != nil {
		uc.logger.Error("failed to record comment activity", zap.String("task_id", taskID), zap.Error(err))
	}
	uc.notify(ctx, actor, task)
	return created, nil
}

func (uc *UseCase) Delete(ctx context.Context, actor *domain.User, id string) error {
	comment, err := uc.comments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !uc.policy.CanModify(actor, comment) {
		return domain.ErrForbidden
	}
	return uc.comments.Delete(ctx, id)
}

// notify tells everyone who can see the task about the new comment,
// except its author.
func (uc *UseCase) notify(ctx context.Context, actor *domain.User, task *domain.Task) {
	for _, userID := range task.VisibleUserIDs() {
		if userID == actor.ID {
			continue
		}
		n := &domain.Notification{
			ID:      uuid.New().String(),
			Type:    domain.NotificationComment,
			Message: fmt.Sprintf("%s commented on %q", actor.Name, task.Title),
			TaskID:  task.ID,
			UserID:  userID,
		}
		if err := uc.notifications.Create(ctx, n); err != nil {
			if uc.buffer != nil && uc.buffer.BufferNotification(ctx, n) == nil {
				uc.logger.Warn("comment notification buffered", zap.String("task_id", task.ID))
				continue
			}
			uc.logger.Error("failed to deliver comment notification", zap.String("task_id", task.ID), zap.Error(err))
		}
	}
}
