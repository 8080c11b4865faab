package dashboard

import (
	"context"
	"time"
)

type Repository interface {
	Summary(ctx context.Context) (Summary, error)
	// NextDeadline returns nil when no request has a deadline at or after now.
	NextDeadline(ctx context.Context, now time.Time) (*UpcomingProject, error)
	ByBusinessType(ctx context.Context) ([]BusinessTypeCount, error)
	DailyCounts(ctx context.Context, filter DailyFilter) ([]DailyCount, error)
}
