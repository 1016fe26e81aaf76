package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
	"github.com/taskhive/backend/usecase/authz"
)

type fakeTaskRepo struct {
	byID      map[string]*domain.Task
	createErr error
	updateErr error
}

func newFakeTaskRepo(tasks ...*domain.Task) *fakeTaskRepo {
	repo := &fakeTaskRepo{byID: map[string]*domain.Task{}}
	for _, task := range tasks {
		repo.byID[task.ID] = task
	}
	return repo
}

func (f *fakeTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	task, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	clone := *task
	return &clone, nil
}

func (f *fakeTaskRepo) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	var tasks []domain.Task
	for _, task := range f.byID {
		tasks = append(tasks, *task)
	}
	return tasks, nil
}

func (f *fakeTaskRepo) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.byID[task.ID] = task
	return task, nil
}

func (f *fakeTaskRepo) Update(ctx context.Context, task *domain.Task) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.byID[task.ID] = task
	return nil
}

func (f *fakeTaskRepo) ReplaceTags(ctx context.Context, taskID string, userIDs []string) error {
	if task, ok := f.byID[taskID]; ok {
		task.TaggedUserIDs = userIDs
	}
	return nil
}

func (f *fakeTaskRepo) Delete(ctx context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeTaskRepo) ListDueBetween(ctx context.Context, from, to time.Time) ([]domain.Task, error) {
	return nil, nil
}

func (f *fakeTaskRepo) ListOverdue(ctx context.Context, now time.Time) ([]domain.Task, error) {
	return nil, nil
}

type fakeNotificationRepo struct {
	created []domain.Notification
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	f.created = append(f.created, *n)
	return nil
}

func (f *fakeNotificationRepo) CreateBatch(ctx context.Context, ns []domain.Notification) error {
	f.created = append(f.created, ns...)
	return nil
}

func (f *fakeNotificationRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	return nil, nil
}

func (f *fakeNotificationRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	return 0, nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, id, userID string) error { return nil }

func (f *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID string) error { return nil }

func (f *fakeNotificationRepo) HasRecentReminder(ctx context.Context, taskID, userID, kind string, since time.Time) (bool, error) {
	return false, nil
}

type fakeActivityRepo struct {
	entries []domain.Activity
}

func (f *fakeActivityRepo) Append(ctx context.Context, activity *domain.Activity) error {
	f.entries = append(f.entries, *activity)
	return nil
}

func (f *fakeActivityRepo) ListByTask(ctx context.Context, taskID string) ([]domain.Activity, error) {
	return f.entries, nil
}

func newTestUseCase(tasks *fakeTaskRepo) (*UseCase, *fakeNotificationRepo, *fakeActivityRepo) {
	notifications := &fakeNotificationRepo{}
	activities := &fakeActivityRepo{}
	uc := New(tasks, notifications, activities, authz.NewPolicy(), nil, zap.NewNop())
	return uc, notifications, activities
}

var actor = &domain.User{ID: "u1", Name: "Ada", Role: domain.RoleUser}

func TestCreateTagsNotifyEveryoneButActor(t *testing.T) {
	uc, notifications, activities := newTestUseCase(newFakeTaskRepo())

	created, err := uc.Create(context.Background(), actor, &domain.Task{
		Title:         "Design review",
		TaggedUserIDs: []string{"u2", "u1", "u3"},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.OwnerID != "u1" {
		t.Errorf("OwnerID = %q, want u1", created.OwnerID)
	}
	if created.Status != domain.StatusPending || created.Priority != domain.PriorityNormal {
		t.Errorf("defaults = %q/%q, want PENDING/NORMAL", created.Status, created.Priority)
	}

	if len(notifications.created) != 2 {
		t.Fatalf("created %d notifications, want 2", len(notifications.created))
	}
	for _, n := range notifications.created {
		if n.Type != domain.NotificationTagged {
			t.Errorf("type = %q, want tagged", n.Type)
		}
		if n.UserID == actor.ID {
			t.Error("actor notified about their own action")
		}
		if want := `Ada tagged you in "Design review"`; n.Message != want {
			t.Errorf("message = %q, want %q", n.Message, want)
		}
	}

	if len(activities.entries) != 1 || activities.entries[0].Action != domain.ActivityTaskCreated {
		t.Errorf("activities = %+v, want one task_created entry", activities.entries)
	}
}

func TestCreateRejectsBadInput(t *testing.T) {
	uc, _, _ := newTestUseCase(newFakeTaskRepo())

	if _, err := uc.Create(context.Background(), actor, &domain.Task{}); err == nil {
		t.Error("empty title accepted")
	}
	if _, err := uc.Create(context.Background(), actor, &domain.Task{Title: "x", Status: "DONE"}); err == nil {
		t.Error("invalid status accepted")
	}
	if _, err := uc.Create(context.Background(), actor, &domain.Task{Title: "x", Priority: "SOMEDAY"}); err == nil {
		t.Error("invalid priority accepted")
	}
}

func TestUpdateStatusChangeNotifiesVisibleUsers(t *testing.T) {
	tasks := newFakeTaskRepo(&domain.Task{
		ID:            "t1",
		OwnerID:       "u1",
		Title:         "Ship v2",
		Status:        domain.StatusPending,
		Priority:      domain.PriorityNormal,
		TaggedUserIDs: []string{"u2"},
	})
	uc, notifications, activities := newTestUseCase(tasks)

	status := domain.StatusCompleted
	if _, err := uc.Update(context.Background(), actor, "t1", UpdateInput{Status: &status}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if len(notifications.created) != 1 {
		t.Fatalf("created %d notifications, want 1 for the tagged user", len(notifications.created))
	}
	n := notifications.created[0]
	if n.UserID != "u2" || n.Type != domain.NotificationStatusChange {
		t.Errorf("notification = %+v", n)
	}
	if want := `Ada changed the status of "Ship v2" to COMPLETED`; n.Message != want {
		t.Errorf("message = %q, want %q", n.Message, want)
	}

	if len(activities.entries) != 1 || activities.entries[0].Action != domain.ActivityStatusChanged {
		t.Errorf("activities = %+v, want one status_changed entry", activities.entries)
	}
}

func TestUpdateUnchangedStatusStaysQuiet(t *testing.T) {
	tasks := newFakeTaskRepo(&domain.Task{
		ID:      "t1",
		OwnerID: "u1",
		Title:   "Ship v2",
		Status:  domain.StatusPending,
	})
	uc, notifications, activities := newTestUseCase(tasks)

	status := domain.StatusPending
	if _, err := uc.Update(context.Background(), actor, "t1", UpdateInput{Status: &status}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(notifications.created) != 0 || len(activities.entries) != 0 {
		t.Errorf("re-asserting the same status produced %d notifications and %d activities",
			len(notifications.created), len(activities.entries))
	}
}

func TestUpdateOnlyNewlyTaggedUsersNotified(t *testing.T) {
	tasks := newFakeTaskRepo(&domain.Task{
		ID:            "t1",
		OwnerID:       "u1",
		Title:         "Ship v2",
		Status:        domain.StatusPending,
		TaggedUserIDs: []string{"u2"},
	})
	uc, notifications, _ := newTestUseCase(tasks)

	if _, err := uc.Update(context.Background(), actor, "t1", UpdateInput{
		TaggedUserIDs: []string{"u2", "u3"},
	}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if len(notifications.created) != 1 {
		t.Fatalf("created %d notifications, want 1 for the new tag only", len(notifications.created))
	}
	if notifications.created[0].UserID != "u3" {
		t.Errorf("notified %q, want u3", notifications.created[0].UserID)
	}
}

func TestUpdateForbiddenForNonOwner(t *testing.T) {
	tasks := newFakeTaskRepo(&domain.Task{ID: "t1", OwnerID: "someone-else", Title: "x", Status: domain.StatusPending})
	uc, _, _ := newTestUseCase(tasks)

	title := "hijacked"
	_, err := uc.Update(context.Background(), actor, "t1", UpdateInput{Title: &title})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("Update() error = %v, want ErrForbidden", err)
	}
	if err := uc.Delete(context.Background(), actor, "t1"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("Delete() error = %v, want ErrForbidden", err)
	}
}
