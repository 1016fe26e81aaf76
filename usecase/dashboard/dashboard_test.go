package dashboard

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
)

type stubDashboardRepo struct {
	counts   domain.DashboardCounts
	tallies  []repository.CategoryTally
	upcoming []domain.Task
}

func (s *stubDashboardRepo) CountBuckets(ctx context.Context, viewerID string, now time.Time) (domain.DashboardCounts, error) {
	return s.counts, nil
}

func (s *stubDashboardRepo) CountByCategory(ctx context.Context, viewerID string) ([]repository.CategoryTally, error) {
	return s.tallies, nil
}

func (s *stubDashboardRepo) ListUpcoming(ctx context.Context, viewerID string, from, to time.Time, limit int) ([]domain.Task, error) {
	return s.upcoming, nil
}

type stubCategoryRepo struct {
	categories []domain.Category
}

func (s *stubCategoryRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	return nil, domain.ErrCategoryNotFound
}

func (s *stubCategoryRepo) GetByIDs(ctx context.Context, ids []string) ([]domain.Category, error) {
	return s.categories, nil
}

func (s *stubCategoryRepo) List(ctx context.Context, ownerID string) ([]domain.Category, error) {
	return s.categories, nil
}

func (s *stubCategoryRepo) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	return category, nil
}

func (s *stubCategoryRepo) Delete(ctx context.Context, id string) error { return nil }

func strptr(s string) *string { return &s }

func TestSummaryBucketsAndProgress(t *testing.T) {
	uc := New(&stubDashboardRepo{
		counts: domain.DashboardCounts{Completed: 1, Overdue: 1, InProgress: 1, Pending: 2},
	}, &stubCategoryRepo{}, zap.NewNop())

	summary, err := uc.Summary(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}

	if summary.Total != 5 {
		t.Errorf("Total = %d, want 5", summary.Total)
	}
	if summary.Pending != 2 || summary.InProgress != 1 || summary.Completed != 1 || summary.Overdue != 1 {
		t.Errorf("buckets = %+v, want 2/1/1/1", summary)
	}
	// 1 completed of 3 started-or-due tasks.
	if summary.ExecutionProgress != 33 {
		t.Errorf("ExecutionProgress = %d, want 33", summary.ExecutionProgress)
	}
}

func TestSummaryProgressZeroWhenNothingActive(t *testing.T) {
	uc := New(&stubDashboardRepo{
		counts: domain.DashboardCounts{Pending: 4},
	}, &stubCategoryRepo{}, zap.NewNop())

	summary, err := uc.Summary(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if summary.ExecutionProgress != 0 {
		t.Errorf("ExecutionProgress = %d, want 0", summary.ExecutionProgress)
	}
}

func TestSummaryCategoryRollup(t *testing.T) {
	uc := New(&stubDashboardRepo{
		tallies: []repository.CategoryTally{
			{CategoryID: strptr("c1"), Count: 3},
			{CategoryID: nil, Count: 2},
			{CategoryID: strptr("ghost"), Count: 1},
		},
	}, &stubCategoryRepo{
		categories: []domain.Category{{ID: "c1", Name: "Deep Work", Color: "#ff0000"}},
	}, zap.NewNop())

	summary, err := uc.Summary(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if len(summary.ByCategory) != 3 {
		t.Fatalf("ByCategory has %d rows, want 3", len(summary.ByCategory))
	}

	if row := summary.ByCategory[0]; row.Name != "Deep Work" || row.Color != "#ff0000" || row.Count != 3 {
		t.Errorf("resolved row = %+v", row)
	}
	if row := summary.ByCategory[1]; row.Name != "Uncategorized" || row.Color != domain.UncategorizedCategoryColor || row.Count != 2 {
		t.Errorf("uncategorized row = %+v", row)
	}
	if row := summary.ByCategory[2]; row.Name != "Unknown" || row.Color != domain.UncategorizedCategoryColor {
		t.Errorf("dangling row = %+v", row)
	}
}

func TestSummaryUpcomingCappedAtTen(t *testing.T) {
	var tasks []domain.Task
	for i := 0; i < 12; i++ {
		tasks = append(tasks, domain.Task{ID: string(rune('a' + i))})
	}
	uc := New(&stubDashboardRepo{upcoming: tasks}, &stubCategoryRepo{}, zap.NewNop())

	summary, err := uc.Summary(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if len(summary.Upcoming) != 10 {
		t.Errorf("Upcoming has %d entries, want 10", len(summary.Upcoming))
	}
}

func TestSummaryUpcomingNeverNil(t *testing.T) {
	uc := New(&stubDashboardRepo{}, &stubCategoryRepo{}, zap.NewNop())

	summary, err := uc.Summary(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if summary.Upcoming == nil {
		t.Error("Upcoming is nil, want empty slice")
	}
	if summary.ByCategory == nil {
		t.Error("ByCategory is nil, want empty slice")
	}
}
