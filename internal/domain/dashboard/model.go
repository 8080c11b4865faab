package dashboard

import (
	"time"

	"github.com/shopspring/decimal"
)

// SeriesDays is the length of the daily request series, today included.
const SeriesDays = 7

const dateLayout = "2006-01-02"

type Summary struct {
	TotalRequests int64
	AverageBudget decimal.NullDecimal
	BusinessTypes int64
}

// UpcomingProject is the request with the nearest deadline that has not passed.
type UpcomingProject struct {
	RequestID   uint64
	MainProduct string
	Deadline    time.Time
}

type Metrics struct {
	TotalRequests int64
	// AverageBudget is zero when no request has a budget.
	AverageBudget decimal.Decimal
	BusinessTypes int64
	NextProject   *UpcomingProject
}

// BusinessTypeCount is one bucket of the distribution. A nil BusinessType is
// the bucket of requests that did not state one.
type BusinessTypeCount struct {
	BusinessType *string
	Count        int64
}

type DailyCount struct {
	Date  string
	Count int64
}

type DailyFilter struct {
	From     time.Time
	To       time.Time
	TimeZone string
}

type ChartData struct {
	ByBusinessType []BusinessTypeCount
	Daily          []DailyCount
}
