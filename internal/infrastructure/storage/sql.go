package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"MediaMonitor/internal/domain"
	"MediaMonitor/internal/ports"
)

const createMentionsSQL = `
CREATE TABLE IF NOT EXISTS mentions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL DEFAULT '',
	published TEXT NOT NULL DEFAULT '',
	source TEXT NOT NULL DEFAULT '',
	summary TEXT NOT NULL DEFAULT '',
	link TEXT NOT NULL DEFAULT '',
	tonality TEXT NOT NULL DEFAULT ''
);
`

var mentionColumns = []string{"title", "published", "source", "summary", "link", "tonality"}

// SQLStore keeps mentions in a local SQLite database, mirroring the
// worksheet semantics: insertion order is row order, the table schema is
// the header, and nothing is ever deleted outside Replace.
type SQLStore struct {
	db *sql.DB
}

var _ ports.MentionStore = (*SQLStore)(nil)

// NewSQLStore opens (or creates) the database at path.
func NewSQLStore(path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(createMentionsSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}
	return &SQLStore{db: db}, nil
}

// Close releases the database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// LoadAll returns every stored mention in insertion order.
func (s *SQLStore) LoadAll(ctx context.Context) ([]domain.Mention, error) {
	query, args, err := sq.Select(mentionColumns...).
		From("mentions").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query mentions: %w", err)
	}
	defer rows.Close()

	var mentions []domain.Mention
	for rows.Next() {
		var m domain.Mention
		if err := rows.Scan(&m.Title, &m.Published, &m.Source, &m.Summary, &m.Link, &m.Tonality); err != nil {
			return nil, fmt.Errorf("scan mention: %w", err)
		}
		mentions = append(mentions, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	if mentions == nil {
		mentions = []domain.Mention{}
	}
	return mentions, nil
}

// Append inserts rows transactionally, retrying the batch before falling
// back to per-row inserts.
func (s *SQLStore) Append(ctx context.Context, rows []domain.Mention) error {
	if len(rows) == 0 {
		return nil
	}

	batchErr := withRetries(ctx, func() error {
		return s.insertBatch(ctx, rows)
	})
	if batchErr == nil {
		return nil
	}

	unwritten := 0
	var lastErr error
	for _, m := range rows {
		if err := s.insertBatch(ctx, []domain.Mention{m}); err != nil {
			unwritten++
			lastErr = err
		}
	}
	if unwritten > 0 {
		return &PersistError{Unwritten: unwritten, Err: lastErr}
	}
	return nil
}

// Replace rewrites the whole table with the given rows.
func (s *SQLStore) Replace(ctx context.Context, rows []domain.Mention) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback()

	query, args, err := sq.Delete("mentions").ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear mentions: %w", err)
	}

	if len(rows) > 0 {
		insert := sq.Insert("mentions").Columns(mentionColumns...)
		for _, m := range rows {
			insert = insert.Values(m.Title, m.Published, m.Source, m.Summary, m.Link, string(m.Tonality))
		}
		query, args, err = insert.ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("rewrite mentions: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	return nil
}

// UpdateTonality overwrites the tonality of the row at the given
// zero-based position in insertion order.
func (s *SQLStore) UpdateTonality(ctx context.Context, row int, tone domain.Tonality) error {
	if row < 0 {
		return fmt.Errorf("row %d out of range", row)
	}

	query, args, err := sq.Select("id").
		From("mentions").
		OrderBy("id").
		Limit(1).
		Offset(uint64(row)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build lookup: %w", err)
	}

	var id int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("row %d out of range", row)
		}
		return fmt.Errorf("locate row %d: %w", row, err)
	}

	query, args, err = sq.Update("mentions").
		Set("tonality", string(tone)).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update tonality: %w", err)
	}
	return nil
}

func (s *SQLStore) insertBatch(ctx context.Context, rows []domain.Mention) error {
	insert := sq.Insert("mentions").Columns(mentionColumns...)
	for _, m := range rows {
		insert = insert.Values(m.Title, m.Published, m.Source, m.Summary, m.Link, string(m.Tonality))
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert mentions: %w", err)
	}
	return nil
}
