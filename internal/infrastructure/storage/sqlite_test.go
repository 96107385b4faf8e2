package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"FeedbackPulse/internal/domain"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	db, err := OpenSQLite(filepath.Join(t.TempDir(), "feedback.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := NewSQLiteStore(db)
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return store
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestSQLiteStore(t)
	createdAt := time.Date(2026, 8, 20, 12, 0, 0, 250_000_000, time.UTC)

	original, err := domain.RehydrateFeedback("fb-1", "slow page", 3, "MEDIUM", createdAt)
	if err != nil {
		t.Fatalf("rehydrate: %v", err)
	}

	if err := store.Save(context.Background(), &original); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	found, err := store.FindByPeriod(context.Background(), createdAt.Add(-time.Hour), createdAt.Add(time.Hour))
	if err != nil {
		t.Fatalf("FindByPeriod returned error: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected 1 feedback, got %d", len(found))
	}

	got := found[0]
	if got.ID != original.ID || got.Description != original.Description ||
		got.Score != original.Score || got.Urgency != original.Urgency ||
		!got.CreatedAt.Equal(original.CreatedAt) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, original)
	}
}

func TestSQLiteStoreUpsertsByID(t *testing.T) {
	t.Parallel()

	store := newTestSQLiteStore(t)
	createdAt := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	first, err := domain.RehydrateFeedback("fb-1", "initial", 5, "LOW", createdAt)
	if err != nil {
		t.Fatalf("rehydrate: %v", err)
	}
	if err := store.Save(context.Background(), &first); err != nil {
		t.Fatalf("first save: %v", err)
	}

	second, err := domain.RehydrateFeedback("fb-1", "updated", 2, "HIGH", createdAt)
	if err != nil {
		t.Fatalf("rehydrate: %v", err)
	}
	if err := store.Save(context.Background(), &second); err != nil {
		t.Fatalf("second save: %v", err)
	}

	found, err := store.FindByPeriod(context.Background(), createdAt.Add(-time.Hour), createdAt.Add(time.Hour))
	if err != nil {
		t.Fatalf("FindByPeriod returned error: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected 1 feedback after upsert, got %d", len(found))
	}
	if found[0].Description != "updated" {
		t.Fatalf("description = %q, want updated", found[0].Description)
	}
}

func TestSQLiteStoreInclusiveBounds(t *testing.T) {
	t.Parallel()

	store := newTestSQLiteStore(t)
	from := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 11, 23, 59, 59, 0, time.UTC)

	// Sub-second boundary times matter: the stored TEXT representation must
	// keep lexicographic order aligned with time order.
	seed := map[string]time.Time{
		"at-start":          from,
		"start-plus-half":   from.Add(500 * time.Millisecond),
		"at-end":            to,
		"inside":            from.Add(48 * time.Hour),
		"before-start":      from.Add(-time.Second),
		"just-before-start": from.Add(-time.Millisecond),
		"end-plus-half":     to.Add(500 * time.Millisecond),
		"after-end":         to.Add(time.Second),
	}
	for id, createdAt := range seed {
		f, err := domain.RehydrateFeedback(id, "x", 5, "LOW", createdAt)
		if err != nil {
			t.Fatalf("rehydrate %s: %v", id, err)
		}
		if err := store.Save(context.Background(), &f); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	found, err := store.FindByPeriod(context.Background(), from, to)
	if err != nil {
		t.Fatalf("FindByPeriod returned error: %v", err)
	}

	got := map[string]bool{}
	for _, f := range found {
		got[f.ID] = true
	}
	for _, want := range []string{"at-start", "start-plus-half", "at-end", "inside"} {
		if !got[want] {
			t.Fatalf("expected %s in period result, got %v", want, got)
		}
	}
	if len(found) != 4 {
		t.Fatalf("expected 4 feedbacks, got %d (%v)", len(found), got)
	}
}
