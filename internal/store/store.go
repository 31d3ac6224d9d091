package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	dbtypes "github.com/comdex-official/PRED-AG/internal/db"
	"github.com/comdex-official/PRED-AG/pkg/models"
)

// ErrNotFound is returned when a user or question does not exist.
var ErrNotFound = errors.New("store: not found")

type PgStore struct {
	db *sqlx.DB
}

func NewPgStore(db *sql.DB) *PgStore {
	return &PgStore{db: sqlx.NewDb(db, "postgres")}
}

func RunMigrations(db *sql.DB) error {
	initSQL := `
CREATE TABLE IF NOT EXISTS users(
  id UUID PRIMARY KEY,
  username TEXT UNIQUE NOT NULL,
  interests JSONB NOT NULL DEFAULT '[]',
  created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS questions(
  id UUID PRIMARY KEY,
  question_text TEXT NOT NULL,
  topic TEXT NOT NULL,
  source_articles JSONB NOT NULL DEFAULT '[]',
  source_links JSONB NOT NULL DEFAULT '[]',
  created_at TIMESTAMP NOT NULL DEFAULT NOW(),
  matures_at TIMESTAMP NOT NULL,
  resolved_at TIMESTAMP,
  outcome BOOLEAN,
  resolution_note TEXT
);

CREATE INDEX IF NOT EXISTS idx_questions_topic ON questions(topic);
CREATE INDEX IF NOT EXISTS idx_questions_pending ON questions(matures_at) WHERE resolved_at IS NULL;

CREATE TABLE IF NOT EXISTS exposures(
  user_id UUID NOT NULL REFERENCES users(id),
  question_id UUID NOT NULL REFERENCES questions(id),
  viewed_at TIMESTAMP NOT NULL DEFAULT NOW(),
  answered_at TIMESTAMP,
  response TEXT,
  -- at-most-once delivery guarantee
  CONSTRAINT uq_user_question UNIQUE (user_id, question_id)
);

CREATE INDEX IF NOT EXISTS idx_exposures_user ON exposures(user_id);
`
	_, err := db.Exec(initSQL)
	return err
}

// --- users ---

func (p *PgStore) CreateUser(ctx context.Context, username string, interests []string) (*models.User, error) {
	u := &models.User{
		ID:        uuid.New().String(),
		Username:  username,
		Interests: dbtypes.StringSlice(interests),
		CreatedAt: time.Now().UTC(),
	}
	if u.Interests == nil {
		u.Interests = dbtypes.StringSlice{}
	}
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO users (id, username, interests, created_at) VALUES ($1,$2,$3::jsonb,$4)`,
		u.ID, u.Username, u.Interests, u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert user %s: %w", username, err)
	}
	return u, nil
}

func (p *PgStore) GetUser(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := p.db.GetContext(ctx, &u,
		`SELECT id, username, interests, created_at FROM users WHERE username = $1`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", username, err)
	}
	return &u, nil
}

func (p *PgStore) UpdateInterests(ctx context.Context, userID string, interests []string) error {
	_, err := p.db.ExecContext(ctx,
		`UPDATE users SET interests = $1::jsonb WHERE id = $2`,
		dbtypes.StringSlice(interests), userID)
	return err
}

// --- questions ---

func (p *PgStore) SaveQuestion(ctx context.Context, q *models.Question) error {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now().UTC()
	}
	if q.SourceArticles == nil {
		q.SourceArticles = dbtypes.StringSlice{}
	}
	if q.SourceLinks == nil {
		q.SourceLinks = dbtypes.StringSlice{}
	}
	_, err := p.db.ExecContext(ctx, `
INSERT INTO questions (id, question_text, topic, source_articles, source_links, created_at, matures_at)
VALUES ($1,$2,$3,$4::jsonb,$5::jsonb,$6,$7)`,
		q.ID, q.Text, q.Topic, q.SourceArticles, q.SourceLinks, q.CreatedAt, q.MaturesAt)
	if err != nil {
		return fmt.Errorf("insert question id=%s: %w", q.ID, err)
	}
	return nil
}

const questionColumns = `id, question_text, topic, source_articles, source_links, created_at, matures_at, resolved_at, outcome, resolution_note`

func (p *PgStore) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	var q models.Question
	err := p.db.GetContext(ctx, &q,
		`SELECT `+questionColumns+` FROM questions WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get question %s: %w", id, err)
	}
	return &q, nil
}

// ListPending returns unresolved questions whose maturation time has passed.
// Resolved rows are excluded in SQL so a sweep never re-evaluates them.
func (p *PgStore) ListPending(ctx context.Context, now time.Time) ([]*models.Question, error) {
	rows := []*models.Question{}
	err := p.db.SelectContext(ctx, &rows, `
SELECT `+questionColumns+`
FROM questions
WHERE resolved_at IS NULL AND matures_at <= $1
ORDER BY matures_at ASC`, now)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	return rows, nil
}

// MarkResolved transitions pending -> resolved exactly once: the WHERE
// clause makes a second call a no-op on an already-resolved row.
func (p *PgStore) MarkResolved(ctx context.Context, id string, outcome bool, note string) error {
	res, err := p.db.ExecContext(ctx, `
UPDATE questions
SET resolved_at = NOW(), outcome = $1, resolution_note = $2
WHERE id = $3 AND resolved_at IS NULL`, outcome, note, id)
	if err != nil {
		return fmt.Errorf("resolve question %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- exposures ---

// UnseenMany returns up to n stored questions for the topic with no exposure
// row for the user, selected at random among the eligible candidates.
func (p *PgStore) UnseenMany(ctx context.Context, topic string, userID string, n int) ([]*models.Question, error) {
	if n <= 0 || n > 100 {
		n = 10
	}
	rows := []*models.Question{}
	err := p.db.SelectContext(ctx, &rows, `
SELECT `+questionColumns+`
FROM questions q
WHERE q.topic = $1
  AND NOT EXISTS (
    SELECT 1 FROM exposures e WHERE e.question_id = q.id AND e.user_id = $2
  )
ORDER BY random()
LIMIT $3`, topic, userID, n)
	if err != nil {
		return nil, fmt.Errorf("unseen questions: %w", err)
	}
	return rows, nil
}

// RecordExposure inserts the (user, question) pair. A concurrent duplicate
// insert hits the unique constraint and is silently ignored, so the same
// question is never delivered twice.
func (p *PgStore) RecordExposure(ctx context.Context, userID, questionID string) error {
	_, err := p.db.ExecContext(ctx, `
INSERT INTO exposures (user_id, question_id, viewed_at)
VALUES ($1, $2, NOW())
ON CONFLICT ON CONSTRAINT uq_user_question DO NOTHING`, userID, questionID)
	if err != nil {
		return fmt.Errorf("record exposure: %w", err)
	}
	return nil
}

// RecordResponse upserts the answer onto the exposure row, tolerating a
// response that arrives before the exposure was recorded.
func (p *PgStore) RecordResponse(ctx context.Context, userID, questionID string, response models.Response) error {
	_, err := p.db.ExecContext(ctx, `
INSERT INTO exposures (user_id, question_id, viewed_at, answered_at, response)
VALUES ($1, $2, NOW(), NOW(), $3)
ON CONFLICT ON CONSTRAINT uq_user_question
DO UPDATE SET answered_at = NOW(), response = EXCLUDED.response`,
		userID, questionID, string(response))
	if err != nil {
		return fmt.Errorf("record response: %w", err)
	}
	return nil
}

// History lists questions the user has viewed, newest first, optionally
// filtered by topic.
func (p *PgStore) History(ctx context.Context, userID string, topic string) ([]*models.HistoryEntry, error) {
	rows := []*models.HistoryEntry{}
	query := `
SELECT q.id, q.question_text, q.topic, q.source_articles, q.source_links,
       q.created_at, q.matures_at, q.resolved_at, q.outcome, q.resolution_note,
       e.viewed_at, e.response
FROM questions q
JOIN exposures e ON e.question_id = q.id
WHERE e.user_id = $1`
	args := []interface{}{userID}
	if topic != "" {
		query += ` AND q.topic = $2`
		args = append(args, topic)
	}
	query += ` ORDER BY e.viewed_at DESC`

	if err := p.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return rows, nil
}

// QuestionsByIDs fetches a batch of questions by id.
func (p *PgStore) QuestionsByIDs(ctx context.Context, ids []string) ([]*models.Question, error) {
	if len(ids) == 0 {
		return []*models.Question{}, nil
	}
	rows := []*models.Question{}
	err := p.db.SelectContext(ctx, &rows, `
SELECT `+questionColumns+`
FROM questions
WHERE id = ANY($1::uuid[])`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("questions by ids: %w", err)
	}
	return rows, nil
}
