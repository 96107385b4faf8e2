package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"FeedbackPulse/internal/domain"
)

type stubReportStore struct {
	saved   []domain.ReportDocument
	saveErr error
}

func (s *stubReportStore) SaveWeeklyReport(_ context.Context, doc domain.ReportDocument) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	s.saved = append(s.saved, doc)
	return "relatorio-2026-01-14.json", nil
}

func (s *stubReportStore) GetLocationURL(key string) string {
	return "https://reports.local/" + key
}

func mustRehydrate(t *testing.T, id string, score int, urgency string, createdAt time.Time) domain.Feedback {
	t.Helper()
	f, err := domain.RehydrateFeedback(id, "feedback "+id, score, urgency, createdAt)
	if err != nil {
		t.Fatalf("rehydrate %s: %v", id, err)
	}
	return f
}

// Wednesday 2026-01-14; the previous ISO week runs Mon 2026-01-05 through
// Sun 2026-01-11.
var reportNow = time.Date(2026, 1, 14, 11, 0, 0, 0, time.UTC)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestPreviousWeekWindow(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		now       time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "midweek",
			now:       time.Date(2026, 1, 14, 11, 0, 0, 0, time.UTC),
			wantStart: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 1, 11, 23, 59, 59, 0, time.UTC),
		},
		{
			name:      "monday",
			now:       time.Date(2026, 1, 12, 0, 30, 0, 0, time.UTC),
			wantStart: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 1, 11, 23, 59, 59, 0, time.UTC),
		},
		{
			name:      "sunday",
			now:       time.Date(2026, 1, 11, 22, 0, 0, 0, time.UTC),
			wantStart: time.Date(2025, 12, 29, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 1, 4, 23, 59, 59, 0, time.UTC),
		},
		{
			name:      "year boundary",
			now:       time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC),
			wantStart: time.Date(2025, 12, 22, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 12, 28, 23, 59, 59, 0, time.UTC),
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			start, end := previousWeekWindow(tc.now)
			if !start.Equal(tc.wantStart) {
				t.Fatalf("start = %v, want %v", start, tc.wantStart)
			}
			if !end.Equal(tc.wantEnd) {
				t.Fatalf("end = %v, want %v", end, tc.wantEnd)
			}
		})
	}
}

func TestGenerateWeeklyReportEmptyPeriod(t *testing.T) {
	t.Parallel()

	store := &stubStore{}
	reports := &stubReportStore{}
	reporter := NewReporter(store, reports, time.UTC, discardLogger()).WithClock(fixedClock(reportNow))

	report, err := reporter.GenerateWeeklyReport(context.Background())
	if err != nil {
		t.Fatalf("GenerateWeeklyReport returned error: %v", err)
	}

	if report.TotalCount != 0 {
		t.Fatalf("totalCount = %d, want 0", report.TotalCount)
	}
	if report.AverageScore != 0.0 {
		t.Fatalf("averageScore = %v, want 0.0", report.AverageScore)
	}
	if len(report.CountsByDay) != 0 || len(report.CountsByUrgency) != 0 {
		t.Fatal("expected empty grouping maps")
	}
	if report.StorageLocation != "" {
		t.Fatalf("empty period must not have a storage location, got %q", report.StorageLocation)
	}
	if len(reports.saved) != 0 {
		t.Fatal("report store must not be invoked for an empty period")
	}
}

func TestGenerateWeeklyReportAggregates(t *testing.T) {
	t.Parallel()

	day1 := time.Date(2026, 1, 6, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 1, 7, 16, 30, 0, 0, time.UTC)

	store := &stubStore{found: []domain.Feedback{
		mustRehydrate(t, "a", 5, "LOW", day1),
		mustRehydrate(t, "b", 7, "MEDIUM", day1.Add(2*time.Hour)),
		mustRehydrate(t, "c", 9, "HIGH", day2),
	}}
	reports := &stubReportStore{}
	reporter := NewReporter(store, reports, time.UTC, discardLogger()).WithClock(fixedClock(reportNow))

	report, err := reporter.GenerateWeeklyReport(context.Background())
	if err != nil {
		t.Fatalf("GenerateWeeklyReport returned error: %v", err)
	}

	if report.TotalCount != 3 {
		t.Fatalf("totalCount = %d, want 3", report.TotalCount)
	}
	if report.AverageScore != 7.0 {
		t.Fatalf("averageScore = %v, want 7.0", report.AverageScore)
	}
	if len(report.CountsByDay) != 2 {
		t.Fatalf("expected 2 day buckets, got %d", len(report.CountsByDay))
	}
	if report.CountsByDay["2026-01-06"] != 2 || report.CountsByDay["2026-01-07"] != 1 {
		t.Fatalf("unexpected day buckets: %v", report.CountsByDay)
	}
	for _, urgency := range []domain.Urgency{domain.UrgencyLow, domain.UrgencyMedium, domain.UrgencyHigh} {
		if report.CountsByUrgency[urgency] != 1 {
			t.Fatalf("countsByUrgency[%s] = %d, want 1", urgency, report.CountsByUrgency[urgency])
		}
	}
	if report.StorageLocation != "https://reports.local/relatorio-2026-01-14.json" {
		t.Fatalf("unexpected storage location %q", report.StorageLocation)
	}

	if len(reports.saved) != 1 {
		t.Fatalf("expected one report document, got %d", len(reports.saved))
	}
	doc := reports.saved[0]
	if doc.TotalCount != 3 || doc.AverageScore != 7.0 {
		t.Fatalf("document totals mismatch: %+v", doc)
	}
	if doc.CountsByUrgency["LOW"] != 1 {
		t.Fatalf("document urgency counts mismatch: %v", doc.CountsByUrgency)
	}
}

func TestGenerateWeeklyReportRoundsHalfUp(t *testing.T) {
	t.Parallel()

	createdAt := time.Date(2026, 1, 8, 9, 0, 0, 0, time.UTC)
	store := &stubStore{found: []domain.Feedback{
		mustRehydrate(t, "a", 5, "LOW", createdAt),
		mustRehydrate(t, "b", 6, "LOW", createdAt),
	}}
	reporter := NewReporter(store, &stubReportStore{}, time.UTC, discardLogger()).WithClock(fixedClock(reportNow))

	report, err := reporter.GenerateWeeklyReport(context.Background())
	if err != nil {
		t.Fatalf("GenerateWeeklyReport returned error: %v", err)
	}
	if report.AverageScore != 5.5 {
		t.Fatalf("averageScore = %v, want 5.5", report.AverageScore)
	}

	// Only observed urgencies appear; no zero-filling.
	if _, ok := report.CountsByUrgency[domain.UrgencyHigh]; ok {
		t.Fatal("unobserved urgency must not appear in counts")
	}
}

func TestGenerateWeeklyReportQueryFailure(t *testing.T) {
	t.Parallel()

	store := &stubStore{findErr: errors.New("db gone")}
	reporter := NewReporter(store, &stubReportStore{}, time.UTC, discardLogger()).WithClock(fixedClock(reportNow))

	_, err := reporter.GenerateWeeklyReport(context.Background())
	var persistence *domain.PersistenceError
	if !errors.As(err, &persistence) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
}

func TestGenerateWeeklyReportWriteFailure(t *testing.T) {
	t.Parallel()

	store := &stubStore{found: []domain.Feedback{
		mustRehydrate(t, "a", 4, "LOW", time.Date(2026, 1, 6, 10, 0, 0, 0, time.UTC)),
	}}
	reports := &stubReportStore{saveErr: errors.New("bucket unavailable")}
	reporter := NewReporter(store, reports, time.UTC, discardLogger()).WithClock(fixedClock(reportNow))

	_, err := reporter.GenerateWeeklyReport(context.Background())
	var persistence *domain.PersistenceError
	if !errors.As(err, &persistence) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
}
