package dashboard

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"lead-intake-go/internal/domain/leads"
)

type Service struct {
	repo     Repository
	location *time.Location
	now      func() time.Time
}

func NewService(repo Repository) *Service {
	return NewServiceWithLocation(repo, time.UTC)
}

// NewServiceWithLocation builds a service whose daily series is cut at
// midnight in loc.
func NewServiceWithLocation(repo Repository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:     repo,
		location: loc,
		now:      time.Now,
	}
}

func (s *Service) Metrics(ctx context.Context) (Metrics, error) {
	summary, err := s.repo.Summary(ctx)
	if err != nil {
		return Metrics{}, &leads.StorageError{Op: "dashboard summary", Err: err}
	}

	next, err := s.repo.NextDeadline(ctx, s.now())
	if err != nil {
		return Metrics{}, &leads.StorageError{Op: "dashboard next deadline", Err: err}
	}

	average := decimal.Zero
	if summary.AverageBudget.Valid {
		average = summary.AverageBudget.Decimal
	}

	return Metrics{
		TotalRequests: summary.TotalRequests,
		AverageBudget: average,
		BusinessTypes: summary.BusinessTypes,
		NextProject:   next,
	}, nil
}

func (s *Service) ChartData(ctx context.Context) (ChartData, error) {
	distribution, err := s.repo.ByBusinessType(ctx)
	if err != nil {
		return ChartData{}, &leads.StorageError{Op: "dashboard distribution", Err: err}
	}
	if distribution == nil {
		distribution = []BusinessTypeCount{}
	}

	from, to := s.seriesWindow()
	rows, err := s.repo.DailyCounts(ctx, DailyFilter{
		From:     from,
		To:       to,
		TimeZone: s.location.String(),
	})
	if err != nil {
		return ChartData{}, &leads.StorageError{Op: "dashboard daily counts", Err: err}
	}

	return ChartData{
		ByBusinessType: distribution,
		Daily:          fillSeries(from, rows),
	}, nil
}

// seriesWindow returns the first and last calendar day of the series as UTC
// midnights carrying the local dates.
func (s *Service) seriesWindow() (time.Time, time.Time) {
	year, month, day := s.now().In(s.location).Date()
	to := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return to.AddDate(0, 0, -(SeriesDays - 1)), to
}

func fillSeries(from time.Time, rows []DailyCount) []DailyCount {
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Date] += row.Count
	}

	series := make([]DailyCount, 0, SeriesDays)
	for i := 0; i < SeriesDays; i++ {
		date := from.AddDate(0, 0, i).Format(dateLayout)
		series = append(series, DailyCount{Date: date, Count: counts[date]})
	}
	return series
}
