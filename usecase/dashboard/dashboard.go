package dashboard

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
)

const (
	upcomingWindow = 7 * 24 * time.Hour
	upcomingLimit  = 10
)

// UseCase composes the dashboard summary: status buckets, a
// per-category rollup and the nearest upcoming deadlines, all computed
// over the tasks the requesting user owns or is tagged on.
type UseCase struct {
	dashboards repository.DashboardRepository
	categories repository.CategoryRepository
	logger     *zap.Logger

	now func() time.Time
}

func New(dashboards repository.DashboardRepository, categories repository.CategoryRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		dashboards: dashboards,
		categories: categories,
		logger:     logger,
		now:        time.Now,
	}
}

func (uc *UseCase) Summary(ctx context.Context, userID string) (*domain.DashboardSummary, error) {
	now := uc.now()

	counts, err := uc.dashboards.CountBuckets(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	byCategory, err := uc.categoryRollup(ctx, userID)
	if err != nil {
		return nil, err
	}
	upcoming, err := uc.dashboards.ListUpcoming(ctx, userID, now, now.Add(upcomingWindow), upcomingLimit)
	if err != nil {
		return nil, err
	}
	if len(upcoming) > upcomingLimit {
		upcoming = upcoming[:upcomingLimit]
	}
	if upcoming == nil {
		upcoming = []domain.Task{}
	}

	return &domain.DashboardSummary{
		Total:             counts.Total(),
		Pending:           counts.Pending,
		InProgress:        counts.InProgress,
		Completed:         counts.Completed,
		Overdue:           counts.Overdue,
		ExecutionProgress: counts.ExecutionProgress(),
		ByCategory:        byCategory,
		Upcoming:          upcoming,
	}, nil
}

// categoryRollup resolves raw per-category tallies into named, colored
// rows. Tasks without a category get a synthetic "Uncategorized" row;
// a dangling category id degrades to the neutral swatch rather than
// failing the whole summary.
func (uc *UseCase) categoryRollup(ctx context.Context, userID string) ([]domain.CategoryCount, error) {
	tallies, err := uc.dashboards.CountByCategory(ctx, userID)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, tally := range tallies {
		if tally.CategoryID != nil {
			ids = append(ids, *tally.CategoryID)
		}
	}
	resolved := map[string]domain.Category{}
	if len(ids) > 0 {
		categories, err := uc.categories.GetByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, category := range categories {
			resolved[category.ID] = category
		}
	}

	rollup := make([]domain.CategoryCount, 0, len(tallies))
	for _, tally := range tallies {
		row := domain.CategoryCount{
			CategoryID: tally.CategoryID,
			Name:       "Uncategorized",
			Color:      domain.UncategorizedCategoryColor,
			Count:      tally.Count,
		}
		if tally.CategoryID != nil {
			if category, ok := resolved[*tally.CategoryID]; ok {
				row.Name = category.Name
				row.Color = category.Color
			} else {
				uc.logger.Warn("dashboard rollup references unknown category", zap.String("category_id", *tally.CategoryID))
				row.Name = "Unknown"
			}
		}
		rollup = append(rollup, row)
	}
	return rollup, nil
}
