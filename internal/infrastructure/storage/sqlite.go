package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"FeedbackPulse/internal/domain"
	"FeedbackPulse/internal/ports"
)

// SQLiteStore persists feedback into a SQLite database. Used for local and
// single-node deployments where running Postgres is not worth it.
type SQLiteStore struct {
	db *sql.DB
}

var _ ports.FeedbackStore = (*SQLiteStore)(nil)

// sqliteTimeLayout is fixed-width so that lexicographic comparison of the
// stored TEXT column agrees with time order; variable-width fractions
// (RFC3339Nano drops trailing zeros) would sort ".5Z" before "Z" and break
// the inclusive range query on sub-second boundaries.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

// OpenSQLite opens (and creates if needed) the database file.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// modernc's driver serializes access through one connection.
	db.SetMaxOpenConns(1)
	return db, nil
}

// NewSQLiteStore wires a sql.DB implementation.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// EnsureSchema creates the feedback table when it does not exist yet.
func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	const schema = `CREATE TABLE IF NOT EXISTS feedbacks (
        id          TEXT PRIMARY KEY,
        description TEXT NOT NULL,
        score       INTEGER NOT NULL,
        urgency     TEXT NOT NULL,
        created_at  TEXT NOT NULL
    )`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create feedbacks table: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Save(ctx context.Context, feedback *domain.Feedback) error {
	backfill(feedback)

	query := `INSERT INTO feedbacks (id, description, score, urgency, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET description = excluded.description,
		    score = excluded.score,
		    urgency = excluded.urgency`

	_, err := s.db.ExecContext(ctx, query,
		feedback.ID,
		feedback.Description,
		feedback.Score.Value(),
		string(feedback.Urgency),
		feedback.CreatedAt.UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("upserting feedback: %w", err)
	}
	return nil
}

func (s *SQLiteStore) FindByPeriod(ctx context.Context, from, to time.Time) ([]domain.Feedback, error) {
	query := `SELECT id, description, score, urgency, created_at
		FROM feedbacks WHERE created_at >= ? AND created_at <= ?`

	rows, err := s.db.QueryContext(ctx, query,
		from.UTC().Format(sqliteTimeLayout),
		to.UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("querying feedback period: %w", err)
	}
	defer rows.Close()

	var feedbacks []domain.Feedback
	for rows.Next() {
		var (
			id, description, urgency, createdAtStr string
			score                                  int
		)
		if err := rows.Scan(&id, &description, &score, &urgency, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning feedback row: %w", err)
		}

		createdAt, err := time.Parse(sqliteTimeLayout, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at for %s: %w", id, err)
		}

		feedback, err := domain.RehydrateFeedback(id, description, score, urgency, createdAt)
		if err != nil {
			return nil, fmt.Errorf("rehydrating feedback %s: %w", id, err)
		}
		feedbacks = append(feedbacks, feedback)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return feedbacks, nil
}
