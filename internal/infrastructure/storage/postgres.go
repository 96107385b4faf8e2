package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"FeedbackPulse/internal/domain"
	"FeedbackPulse/internal/ports"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresStore persists feedback into Postgres.
type PostgresStore struct {
	db *sql.DB
}

var _ ports.FeedbackStore = (*PostgresStore)(nil)

// OpenPostgres dials the database and verifies connectivity.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// NewPostgresStore wires a sql.DB implementation.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the feedback table when it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	const schema = `CREATE TABLE IF NOT EXISTS feedbacks (
        id          TEXT PRIMARY KEY,
        description TEXT NOT NULL,
        score       INTEGER NOT NULL,
        urgency     TEXT NOT NULL,
        created_at  TIMESTAMPTZ NOT NULL
    )`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create feedbacks table: %w", err)
	}
	return nil
}

// Save upserts the feedback snapshot by id, back-filling id and creation
// time when the caller left them unset.
func (s *PostgresStore) Save(ctx context.Context, feedback *domain.Feedback) error {
	backfill(feedback)

	query, args, err := psql.Insert("feedbacks").
		Columns("id", "description", "score", "urgency", "created_at").
		Values(feedback.ID, feedback.Description, feedback.Score.Value(), string(feedback.Urgency), feedback.CreatedAt).
		Suffix(`ON CONFLICT (id) DO UPDATE
            SET description = EXCLUDED.description,
                score = EXCLUDED.score,
                urgency = EXCLUDED.urgency`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert feedback: %w", err)
	}

	return nil
}

// FindByPeriod returns feedback created inside [from, to], both bounds
// inclusive, in no particular order.
func (s *PostgresStore) FindByPeriod(ctx context.Context, from, to time.Time) ([]domain.Feedback, error) {
	query, args, err := psql.Select("id", "description", "score", "urgency", "created_at").
		From("feedbacks").
		Where(sq.GtOrEq{"created_at": from}).
		Where(sq.LtOrEq{"created_at": to}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build period query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query period: %w", err)
	}
	defer rows.Close()

	var feedbacks []domain.Feedback
	for rows.Next() {
		var (
			id, description, urgency string
			score                    int
			createdAt                time.Time
		)
		if err := rows.Scan(&id, &description, &score, &urgency, &createdAt); err != nil {
			return nil, fmt.Errorf("scan feedback row: %w", err)
		}

		feedback, err := domain.RehydrateFeedback(id, description, score, urgency, createdAt)
		if err != nil {
			return nil, fmt.Errorf("rehydrate feedback %s: %w", id, err)
		}
		feedbacks = append(feedbacks, feedback)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return feedbacks, nil
}
