package services

import (
	"sort"
	"time"

	"gorm.io/gorm"

	apperrors "tally/internal/errors"
	"tally/internal/models"
)

// monthNames is the fixed January-to-December series order.
var monthNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// reportService computes derived views of the ledger. It only reads;
// balances are displayed from the stored account rows, which the
// mutation engine keeps consistent.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// MonthlyBreakdown sums the year's outflow transactions by month and
// category. A year with no outflows yields an empty series; otherwise
// the series always spans all twelve months.
func (s *reportService) MonthlyBreakdown(userID string, year int) (*MonthlyReport, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	var transactions []models.Transaction
	err := s.db.
		Where("user_id = ? AND type = ? AND date >= ? AND date < ?",
			userID, models.TransactionTypeOutflow, from, to).
		Find(&transactions).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	report := &MonthlyReport{
		Year:       year,
		Categories: []string{},
		Months:     []MonthTotals{},
	}
	if len(transactions) == 0 {
		return report, nil
	}

	report.Months = make([]MonthTotals, len(monthNames))
	for i, name := range monthNames {
		report.Months[i] = MonthTotals{Month: name, Totals: make(map[string]int64)}
	}

	seen := make(map[string]struct{})
	for _, t := range transactions {
		month := int(t.Date.Month()) - 1
		report.Months[month].Totals[t.Category] += t.Amount
		if _, ok := seen[t.Category]; !ok {
			seen[t.Category] = struct{}{}
			report.Categories = append(report.Categories, t.Category)
		}
	}
	sort.Strings(report.Categories)

	return report, nil
}

// AvailableYears returns the distinct calendar years present across all
// of the user's transactions, newest first.
func (s *reportService) AvailableYears(userID string) ([]int, error) {
	var dates []time.Time
	err := s.db.Model(&models.Transaction{}).
		Where("user_id = ?", userID).
		Pluck("date", &dates).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	seen := make(map[int]struct{})
	var years []int
	for _, d := range dates {
		y := d.Year()
		if _, ok := seen[y]; !ok {
			seen[y] = struct{}{}
			years = append(years, y)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}
