package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	dashboarddomain "lead-intake-go/internal/domain/dashboard"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Summary(ctx context.Context) (dashboarddomain.Summary, error) {
	query := `SELECT COUNT(*) AS total_requests,
		AVG(r.budget) AS average_budget,
		COUNT(DISTINCT r.business_type) AS business_types
		FROM project_requests r`

	var row struct {
		TotalRequests int64               `gorm:"column:total_requests"`
		AverageBudget decimal.NullDecimal `gorm:"column:average_budget"`
		BusinessTypes int64               `gorm:"column:business_types"`
	}

	if err := r.db.WithContext(ctx).Raw(query).Scan(&row).Error; err != nil {
		return dashboarddomain.Summary{}, err
	}

	return dashboarddomain.Summary{
		TotalRequests: row.TotalRequests,
		AverageBudget: row.AverageBudget,
		BusinessTypes: row.BusinessTypes,
	}, nil
}

func (r *PostgresRepository) NextDeadline(ctx context.Context, now time.Time) (*dashboarddomain.UpcomingProject, error) {
	var row struct {
		ID          uint64    `gorm:"column:id"`
		MainProduct string    `gorm:"column:main_product"`
		Deadline    time.Time `gorm:"column:deadline"`
	}

	err := r.db.WithContext(ctx).
		Table("project_requests").
		Select("id, main_product, deadline").
		Where("deadline >= ?", now).
		Order("deadline ASC, id ASC").
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &dashboarddomain.UpcomingProject{
		RequestID:   row.ID,
		MainProduct: row.MainProduct,
		Deadline:    row.Deadline,
	}, nil
}

func (r *PostgresRepository) ByBusinessType(ctx context.Context) ([]dashboarddomain.BusinessTypeCount, error) {
	query := `SELECT r.business_type, COUNT(*) AS count
		FROM project_requests r
		GROUP BY r.business_type
		ORDER BY count DESC, r.business_type ASC NULLS LAST`

	var rows []struct {
		BusinessType *string `gorm:"column:business_type"`
		Count        int64   `gorm:"column:count"`
	}
	if err := r.db.WithContext(ctx).Raw(query).Scan(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]dashboarddomain.BusinessTypeCount, 0, len(rows))
	for _, row := range rows {
		items = append(items, dashboarddomain.BusinessTypeCount{BusinessType: row.BusinessType, Count: row.Count})
	}
	return items, nil
}

// DailyCounts buckets requests by their creation date in filter.TimeZone. The
// generated series yields a row for every day of the window, zero included.
func (r *PostgresRepository) DailyCounts(ctx context.Context, filter dashboarddomain.DailyFilter) ([]dashboarddomain.DailyCount, error) {
	timeZone := filter.TimeZone
	if timeZone == "" {
		timeZone = "UTC"
	}

	query := `SELECT to_char(d.day, 'YYYY-MM-DD') AS date, COUNT(r.id) AS count
		FROM generate_series(?::date, ?::date, interval '1 day') AS d(day)
		LEFT JOIN project_requests r
			ON (r.created_at AT TIME ZONE ?)::date = d.day::date
		GROUP BY d.day
		ORDER BY d.day ASC`

	var rows []dashboarddomain.DailyCount
	if err := r.db.WithContext(ctx).Raw(query,
		filter.From.Format("2006-01-02"),
		filter.To.Format("2006-01-02"),
		timeZone,
	).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
