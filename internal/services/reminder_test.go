package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/taskhive/backend/domain"
)

type stubTaskSource struct {
	upcoming []domain.Task
	overdue  []domain.Task
	listErr  error
}

func (s *stubTaskSource) ListDueBetween(ctx context.Context, from, to time.Time) ([]domain.Task, error) {
	return s.upcoming, s.listErr
}

func (s *stubTaskSource) ListOverdue(ctx context.Context, now time.Time) ([]domain.Task, error) {
	return s.overdue, s.listErr
}

type memoryNotificationStore struct {
	created   []domain.Notification
	failAfter int // fail Create once this many writes happened; -1 never
}

func (s *memoryNotificationStore) Create(ctx context.Context, n *domain.Notification) error {
	if s.failAfter >= 0 && len(s.created) >= s.failAfter {
		return errors.New("connection refused")
	}
	s.created = append(s.created, *n)
	return nil
}

func (s *memoryNotificationStore) HasRecentReminder(ctx context.Context, taskID, userID, kind string, since time.Time) (bool, error) {
	for _, n := range s.created {
		if n.TaskID == taskID && n.UserID == userID && n.ReminderKind == kind {
			return true, nil
		}
	}
	return false, nil
}

func newTestEngine(tasks *stubTaskSource, store *memoryNotificationStore, now time.Time) *ReminderEngine {
	e := NewReminderEngine(tasks, store, zap.NewNop(), ReminderConfig{
		Interval:    30 * time.Minute,
		Horizon:     24 * time.Hour,
		DedupWindow: 24 * time.Hour,
	})
	e.now = func() time.Time { return now }
	return e
}

func due(t time.Time) *time.Time { return &t }

func TestSweepNotifiesOwnerAndTagged(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	tasks := &stubTaskSource{
		upcoming: []domain.Task{{
			ID:            "t1",
			Title:         "Prepare launch checklist",
			OwnerID:       "u1",
			TaggedUserIDs: []string{"u2"},
			DueDate:       due(now.Add(3 * time.Hour)),
		}},
	}
	store := &memoryNotificationStore{failAfter: -1}
	e := newTestEngine(tasks, store, now)

	if err := e.Sweep(context.Background()); err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	if len(store.created) != 2 {
		t.Fatalf("created %d notifications, want 2", len(store.created))
	}
	wantMsg := `"Prepare launch checklist" is due in 3 hours`
	recipients := map[string]bool{}
	for _, n := range store.created {
		if n.Type != domain.NotificationReminder {
			t.Errorf("type = %q, want %q", n.Type, domain.NotificationReminder)
		}
		if n.ReminderKind != domain.ReminderUpcoming {
			t.Errorf("kind = %q, want %q", n.ReminderKind, domain.ReminderUpcoming)
		}
		if n.Message != wantMsg {
			t.Errorf("message = %q, want %q", n.Message, wantMsg)
		}
		recipients[n.UserID] = true
	}
	if !recipients["u1"] || !recipients["u2"] {
		t.Errorf("recipients = %v, want owner and tagged user", recipients)
	}
}

func TestSweepIsIdempotentWithinWindow(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	tasks := &stubTaskSource{
		upcoming: []domain.Task{{
			ID:      "t1",
			Title:   "Write release notes",
			OwnerID: "u1",
			DueDate: due(now.Add(2 * time.Hour)),
		}},
		overdue: []domain.Task{{
			ID:      "t2",
			Title:   "Quarterly report",
			OwnerID: "u1",
			DueDate: due(now.Add(-time.Hour)),
		}},
	}
	store := &memoryNotificationStore{failAfter: -1}
	e := newTestEngine(tasks, store, now)

	for i := 0; i < 3; i++ {
		if err := e.Sweep(context.Background()); err != nil {
			t.Fatalf("Sweep() #%d error = %v", i+1, err)
		}
	}

	if len(store.created) != 2 {
		t.Fatalf("created %d notifications after repeated sweeps, want 2", len(store.created))
	}
}

func TestSweepOverdueMessage(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	tasks := &stubTaskSource{
		overdue: []domain.Task{{
			ID:      "t2",
			Title:   "Quarterly report",
			OwnerID: "u1",
			DueDate: due(now.Add(-26 * time.Hour)),
		}},
	}
	store := &memoryNotificationStore{failAfter: -1}
	e := newTestEngine(tasks, store, now)

	if err := e.Sweep(context.Background()); err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if len(store.created) != 1 {
		t.Fatalf("created %d notifications, want 1", len(store.created))
	}
	if got, want := store.created[0].Message, `"Quarterly report" is overdue!`; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
	if store.created[0].ReminderKind != domain.ReminderOverdue {
		t.Errorf("kind = %q, want %q", store.created[0].ReminderKind, domain.ReminderOverdue)
	}
}

func TestSweepKindsDeduplicateIndependently(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	tasks := &stubTaskSource{
		overdue: []domain.Task{{
			ID:      "t1",
			Title:   "Ship v2",
			OwnerID: "u1",
			DueDate: due(now.Add(-time.Minute)),
		}},
	}
	store := &memoryNotificationStore{failAfter: -1}
	// An earlier upcoming reminder exists for the same task and user.
	store.created = append(store.created, domain.Notification{
		Type:         domain.NotificationReminder,
		ReminderKind: domain.ReminderUpcoming,
		TaskID:       "t1",
		UserID:       "u1",
	})
	e := newTestEngine(tasks, store, now)

	if err := e.Sweep(context.Background()); err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if len(store.created) != 2 {
		t.Fatalf("created %d notifications, want the overdue reminder on top of the upcoming one", len(store.created))
	}
	if store.created[1].ReminderKind != domain.ReminderOverdue {
		t.Errorf("kind = %q, want %q", store.created[1].ReminderKind, domain.ReminderOverdue)
	}
}

func TestSweepAbortsOnWriteErrorAndKeepsPartialWrites(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	tasks := &stubTaskSource{
		upcoming: []domain.Task{{
			ID:            "t1",
			Title:         "Plan offsite",
			OwnerID:       "u1",
			TaggedUserIDs: []string{"u2", "u3"},
			DueDate:       due(now.Add(time.Hour)),
		}},
	}
	store := &memoryNotificationStore{failAfter: 1}
	e := newTestEngine(tasks, store, now)

	if err := e.Sweep(context.Background()); err == nil {
		t.Fatal("Sweep() error = nil, want failure")
	}
	if len(store.created) != 1 {
		t.Fatalf("created %d notifications, want the successful write to stand", len(store.created))
	}
}

func TestRunScheduledSkipsOverlappingTick(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	tasks := &stubTaskSource{
		upcoming: []domain.Task{{
			ID:      "t1",
			Title:   "Anything",
			OwnerID: "u1",
			DueDate: due(now.Add(time.Hour)),
		}},
	}
	store := &memoryNotificationStore{failAfter: -1}
	e := newTestEngine(tasks, store, now)

	e.running.Store(true)
	e.runScheduled()
	if len(store.created) != 0 {
		t.Fatalf("created %d notifications during an in-flight sweep, want 0", len(store.created))
	}

	e.running.Store(false)
	e.runScheduled()
	if len(store.created) == 0 {
		t.Fatal("created no notifications once the guard cleared")
	}
}

func TestUpcomingMessage(t *testing.T) {
	tests := []struct {
		hours int
		want  string
	}{
		{0, `"Demo" is due in 0 hours`},
		{1, `"Demo" is due in 1 hour`},
		{3, `"Demo" is due in 3 hours`},
		{24, `"Demo" is due in 24 hours`},
	}
	for _, tt := range tests {
		if got := upcomingMessage("Demo", tt.hours); got != tt.want {
			t.Errorf("upcomingMessage(%d) = %q, want %q", tt.hours, got, tt.want)
		}
	}
}

func TestHoursUntilRoundsToNearest(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		delta time.Duration
		want  int
	}{
		{29 * time.Minute, 0},
		{31 * time.Minute, 1},
		{2*time.Hour + 29*time.Minute, 2},
		{2*time.Hour + 30*time.Minute, 3},
		{23*time.Hour + 45*time.Minute, 24},
	}
	for _, tt := range tests {
		if got := hoursUntil(now.Add(tt.delta), now); got != tt.want {
			t.Errorf("hoursUntil(+%v) = %d, want %d", tt.delta, got, tt.want)
		}
	}
}
