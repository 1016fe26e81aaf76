package task

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
	"github.com/taskhive/backend/usecase"
	"github.com/taskhive/backend/usecase/authz"
)

type UseCase struct {
	tasks         repository.TaskRepository
	notifications repository.NotificationRepository
	activities    repository.ActivityRepository
	policy        authz.Policy
	buffer        usecase.OperationBuffer
	logger        *zap.Logger
}

func New(
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
		tasks:         tasks,
		notifications: notifications,
		activities:    activities,
		policy:        policy,
		buffer:        buffer,
		logger:        logger,
	}
}

// ListFilter is the caller-facing filter; visibility scoping is derived
// from the actor, never passed in.
type ListFilter struct {
	Search     string
	Status     string
	CategoryID string
	DueFrom    *time.Time
	DueTo      *time.Time
}

func (uc *UseCase) List(ctx context.Context, actor *domain.User, filter ListFilter) ([]domain.Task, error) {
	if filter.Status != "" && !domain.ValidTaskStatus(filter.Status) {
		return nil, domain.NewError(domain.ErrCodeInvalid, "invalid status filter")
	}
	return uc.tasks.List(ctx, repository.TaskFilter{
		ViewerID:   uc.policy.ListScope(actor),
		Search:     filter.Search,
		Status:     filter.Status,
		CategoryID: filter.CategoryID,
		DueFrom:    filter.DueFrom,
		DueTo:      filter.DueTo,
	})
}

func (uc *UseCase) Get(ctx context.Context, actor *domain.User, id string) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !uc.policy.CanViewTask(actor, task) {
		return nil, domain.ErrForbidden
	}
	return task, nil
}

func (uc *UseCase) Create(ctx context.Context, actor *domain.User, task *domain.Task) (*domain.Task, error) {
	if task.Title == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "title is required")
	}
	if task.Status == "" {
		task.Status = domain.StatusPending
	}
	if task.Priority == "" {
		task.Priority = domain.PriorityNormal
	}
	if !domain.ValidTaskStatus(task.Status) {
		return nil, domain.NewError(domain.ErrCodeInvalid, "invalid status")
	}
	if !domain.ValidTaskPriority(task.Priority) {
		return nil, domain.NewError(domain.ErrCodeInvalid, "invalid priority")
	}
	task.ID = uuid.New().String()
	task.OwnerID = actor.ID

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		if uc.shouldBuffer(ctx, usecase.OperationCreate, task) {
			return task, nil
		}
		return nil, err
	}

	uc.recordActivity(ctx, domain.NewActivity(domain.ActivityTaskCreated, created.ID, actor.ID, map[string]string{
		"title": created.Title,
	}))
	uc.notifyTagged(ctx, actor, created, created.TaggedUserIDs)
	return created, nil
}

// UpdateInput carries a partial update. Nil pointers leave the field
// untouched; the Clear flags null out the corresponding nullable field.
// A nil TaggedUserIDs keeps the tag set, an empty slice clears it.
type UpdateInput struct {
	Title         *string
	Description   *string
	Status        *string
	Priority      *string
	DueDate       *time.Time
	ClearDueDate  bool
	CategoryID    *string
	ClearCategory bool
	ProjectID     *string
	ClearProject  bool
	TaggedUserIDs []string
}

func (uc *UseCase) Update(ctx context.Context, actor *domain.User, id string, input UpdateInput) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !uc.policy.CanModify(actor, task) {
		return nil, domain.ErrForbidden
	}

	previousStatus := task.Status
	if input.Title != nil {
		if *input.Title == "" {
			return nil, domain.NewError(domain.ErrCodeInvalid, "title is required")
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		if !domain.ValidTaskStatus(*input.Status) {
			return nil, domain.NewError(domain.ErrCodeInvalid, "invalid status")
		}
		task.Status = *input.Status
	}
	if input.Priority != nil {
		if !domain.ValidTaskPriority(*input.Priority) {
			return nil, domain.NewError(domain.ErrCodeInvalid, "invalid priority")
		}
		task.Priority = *input.Priority
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.ClearCategory {
		task.CategoryID = nil
	} else if input.CategoryID != nil {
		task.CategoryID = input.CategoryID
	}
	if input.ClearProject {
		task.ProjectID = nil
	} else if input.ProjectID != nil {
		task.ProjectID = input.ProjectID
	}

	var addedTags []string
	if input.TaggedUserIDs != nil {
		addedTags = newTags(task.TaggedUserIDs, input.TaggedUserIDs)
		task.TaggedUserIDs = input.TaggedUserIDs
		if err := uc.tasks.ReplaceTags(ctx, task.ID, input.TaggedUserIDs); err != nil {
			return nil, err
		}
	}

	if err := uc.tasks.Update(ctx, task); err != nil {
		if !uc.shouldBuffer(ctx, usecase.OperationUpdate, task) {
			return nil, err
		}
	}

	uc.notifyTagged(ctx, actor, task, addedTags)
	if input.Status != nil && *input.Status != previousStatus {
		uc.recordActivity(ctx, domain.NewActivity(domain.ActivityStatusChanged, task.ID, actor.ID, map[string]string{
			"from": previousStatus,
			"to":   task.Status,
		}))
		uc.notifyStatusChange(ctx, actor, task)
	}
	return task, nil
}

func (uc *UseCase) Delete(ctx context.Context, actor *domain.User, id string) error {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !uc.policy.CanModify(actor, task) {
		return domain.ErrForbidden
	}
	if err := uc.tasks.Delete(ctx, id); err != nil {
		if uc.shouldBuffer(ctx, usecase.OperationDelete, &domain.Task{ID: id}) {
			return nil
		}
		return err
	}
	return nil
}

// Activity returns the audit trail for a task the actor may view.
func (uc *UseCase) Activity(ctx context.Context, actor *domain.User, taskID string) ([]domain.Activity, error) {
	task, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !uc.policy.CanViewTask(actor, task) {
		return nil, domain.ErrForbidden
	}
	return uc.activities.ListByTask(ctx, taskID)
}

// notifyTagged tells newly tagged users about the task. The actor never
// notifies themselves.
func (uc *UseCase) notifyTagged(ctx context.Context, actor *domain.User, task *domain.Task, userIDs []string) {
	for _, userID := range userIDs {
		if userID == actor.ID {
			continue
		}
		uc.deliver(ctx, &domain.Notification{
			ID:      uuid.New().String(),
			Type:    domain.NotificationTagged,
			Message: fmt.Sprintf("%s tagged you in %q", actor.Name, task.Title),
			TaskID:  task.ID,
			UserID:  userID,
		})
	}
}

func (uc *UseCase) notifyStatusChange(ctx context.Context, actor *domain.User, task *domain.Task) {
	for _, userID := range task.VisibleUserIDs() {
		if userID == actor.ID {
			continue
		}
		uc.deliver(ctx, &domain.Notification{
			ID:      uuid.New().String(),
			Type:    domain.NotificationStatusChange,
			Message: fmt.Sprintf("%s changed the status of %q to %s", actor.Name, task.Title, task.Status),
			TaskID:  task.ID,
			UserID:  userID,
		})
	}
}

// deliver writes a notification, falling back to the offline buffer.
// Side-channel failures never fail the request that triggered them.
func (uc *UseCase) deliver(ctx context.Context, n *domain.Notification) {
	if err := uc.notifications.Create(ctx, n); err != nil {
		if uc.buffer != nil {
			if bufErr := uc.buffer.BufferNotification(ctx, n); bufErr == nil {
				uc.logger.Warn("notification buffered", zap.String("type", n.Type))
				return
			}
		}
		uc.logger.Error("failed to deliver notification", zap.String("type", n.Type), zap.Error(err))
	}
}

func (uc *UseCase) recordActivity(ctx context.Context, activity *domain.Activity) {
	if err := uc.activities.Append(ctx, activity); err != nil {
		uc.logger.Error("failed to record activity",
			zap.String("action", activity.Action),
			zap.String("task_id", activity.TaskID),
			zap.Error(err))
	}
}

func (uc *UseCase) shouldBuffer(ctx context.Context, operation string, task *domain.Task) bool {
	if uc.buffer == nil {
		return false
	}
	if err := uc.buffer.BufferTask(ctx, operation, task); err != nil {
		uc.logger.Error("failed to buffer task operation", zap.String("operation", operation), zap.Error(err))
		return false
	}
	uc.logger.Warn("task operation buffered", zap.String("operation", operation))
	return true
}

// newTags returns ids present in next but not in previous.
func newTags(previous, next []string) []string {
	seen := make(map[string]struct{}, len(previous))
	for _, id := range previous {
		seen[id] = struct{}{}
	}
	var added []string
	for _, id := range next {
		if _, ok := seen[id]; !ok {
			added = append(added, id)
		}
	}
	return added
}
