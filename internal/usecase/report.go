package usecase

import (
	"context"
	"log/slog"
	"math"
	"time"

	"FeedbackPulse/internal/domain"
	"FeedbackPulse/internal/ports"
)

// Reporter implements the weekly aggregation pipeline: compute the previous
// ISO week, query the store, aggregate, and persist the report document.
type Reporter struct {
	store    ports.FeedbackStore
	reports  ports.ReportStore
	location *time.Location
	clock    func() time.Time
	logger   *slog.Logger
}

// NewReporter constructs the aggregation pipeline. All window and grouping
// math happens in the provided reference location (UTC when nil).
func NewReporter(store ports.FeedbackStore, reports ports.ReportStore, location *time.Location, logger *slog.Logger) *Reporter {
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{
		store:    store,
		reports:  reports,
		location: location,
		clock:    time.Now,
		logger:   logger,
	}
}

// WithClock overrides the time source; used by tests.
func (r *Reporter) WithClock(clock func() time.Time) *Reporter {
	r.clock = clock
	return r
}

// GenerateWeeklyReport aggregates last week's feedback. An empty period is a
// valid zero-valued report and writes nothing; store or report-write failures
// surface to the caller, which owns any retry.
func (r *Reporter) GenerateWeeklyReport(ctx context.Context) (domain.WeeklyReport, error) {
	now := r.clock().In(r.location)
	start, end := previousWeekWindow(now)

	feedbacks, err := r.store.FindByPeriod(ctx, start, end)
	if err != nil {
		return domain.WeeklyReport{}, &domain.PersistenceError{Op: "query feedback period", Err: err}
	}

	report := aggregate(feedbacks, start, end, r.location)
	if report.TotalCount == 0 {
		r.logger.Info("no feedback in reporting window, skipping report write",
			"period_start", start, "period_end", end)
		return report, nil
	}

	doc := domain.ReportDocument{
		PeriodStart:     start.Format(time.RFC3339),
		PeriodEnd:       end.Format(time.RFC3339),
		TotalCount:      report.TotalCount,
		AverageScore:    report.AverageScore,
		CountsByDay:     report.CountsByDay,
		CountsByUrgency: urgencyKeysToString(report.CountsByUrgency),
		GeneratedAt:     now.Format(time.RFC3339),
	}

	key, err := r.reports.SaveWeeklyReport(ctx, doc)
	if err != nil {
		return domain.WeeklyReport{}, &domain.PersistenceError{Op: "save weekly report", Err: err}
	}

	report.StorageLocation = r.reports.GetLocationURL(key)
	r.logger.Info("weekly report generated",
		"total", report.TotalCount, "average", report.AverageScore, "location", report.StorageLocation)
	return report, nil
}

// previousWeekWindow returns the Monday 00:00:00 and Sunday 23:59:59 bounds
// of the ISO week before the one containing now.
func previousWeekWindow(now time.Time) (time.Time, time.Time) {
	anchor := now.AddDate(0, 0, -7)

	// Roll back to the most recent-or-same Monday. time.Weekday counts
	// Sunday as 0, so shift it to the end of the week first.
	offset := (int(anchor.Weekday()) + 6) % 7
	monday := anchor.AddDate(0, 0, -offset)

	start := time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 6).Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	return start, end
}

func aggregate(feedbacks []domain.Feedback, start, end time.Time, loc *time.Location) domain.WeeklyReport {
	report := domain.WeeklyReport{
		PeriodStart:     start,
		PeriodEnd:       end,
		CountsByDay:     map[string]int{},
		CountsByUrgency: map[domain.Urgency]int{},
	}

	if len(feedbacks) == 0 {
		return report
	}

	sum := 0
	for _, f := range feedbacks {
		sum += f.Score.Value()
		report.CountsByDay[f.CreatedAt.In(loc).Format(time.DateOnly)]++
		report.CountsByUrgency[f.Urgency]++
	}

	report.TotalCount = len(feedbacks)
	report.AverageScore = roundToCents(float64(sum) / float64(len(feedbacks)))
	return report
}

// roundToCents rounds half-up to two decimal places.
func roundToCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func urgencyKeysToString(counts map[domain.Urgency]int) map[string]int {
	out := make(map[string]int, len(counts))
	for urgency, count := range counts {
		out[string(urgency)] = count
	}
	return out
}
