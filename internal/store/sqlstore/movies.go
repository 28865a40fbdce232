package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"iter"

	"github.com/filmarkiv/filmarkiv-server/internal/domain"
	"github.com/filmarkiv/filmarkiv-server/internal/store"
)

// movieRow mirrors the movies table.
type movieRow struct {
	ID        string `db:"id"`
	Year      int    `db:"year"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
	Doc       string `db:"doc"`
}

func (r movieRow) movie() (*domain.Movie, error) {
	var m domain.Movie
	if err := json.Unmarshal([]byte(r.Doc), &m); err != nil {
		return nil, fmt.Errorf("unmarshal movie %s: %w", r.ID, err)
	}
	return &m, nil
}

func newMovieRow(m *domain.Movie) (movieRow, error) {
	doc, err := json.Marshal(m)
	if err != nil {
		return movieRow{}, fmt.Errorf("marshal movie: %w", err)
	}
	return movieRow{
		ID:        m.ID,
		Year:      m.Year,
		CreatedAt: formatTime(m.CreatedAt),
		UpdatedAt: formatTime(m.UpdatedAt),
		Doc:       string(doc),
	}, nil
}

// CreateMovie inserts a new movie.
// Returns store.ErrAlreadyExists on duplicate id.
func (s *Store) CreateMovie(ctx context.Context, m *domain.Movie) error {
	row, err := newMovieRow(m)
	if err != nil {
		return err
	}

	_, err = s.db.NamedExecContext(ctx, `
		INSERT INTO movies (id, year, created_at, updated_at, doc)
		VALUES (:id, :year, :created_at, :updated_at, :doc)`, row)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("insert movie: %w", err)
	}
	return nil
}

// GetMovie retrieves a movie by its ID.
// Returns store.ErrNotFound if the movie does not exist.
func (s *Store) GetMovie(ctx context.Context, id string) (*domain.Movie, error) {
	var row movieRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(`SELECT id, year, created_at, updated_at, doc FROM movies WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}
	return row.movie()
}

// UpdateMovie replaces a stored movie.
// Returns store.ErrNotFound if no row was changed.
func (s *Store) UpdateMovie(ctx context.Context, m *domain.Movie) error {
	row, err := newMovieRow(m)
	if err != nil {
		return err
	}

	res, err := s.db.NamedExecContext(ctx, `
		UPDATE movies SET year = :year, updated_at = :updated_at, doc = :doc
		WHERE id = :id`, row)
	if err != nil {
		return fmt.Errorf("update movie: %w", err)
	}
	return expectOneRow(res)
}

// DeleteMovie removes a movie by ID.
// Returns store.ErrNotFound if the movie does not exist.
func (s *Store) DeleteMovie(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM movies WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	return expectOneRow(res)
}

// ListMovies returns the movies matching filter. Rows come back in catalog
// order; the genre pattern is evaluated in Go because SQLite has no regexp.
func (s *Store) ListMovies(ctx context.Context, filter domain.MovieFilter) ([]*domain.Movie, error) {
	return store.SelectMovies(s.scanMovies(ctx), filter)
}

func (s *Store) scanMovies(ctx context.Context) iter.Seq2[*domain.Movie, error] {
	return func(yield func(*domain.Movie, error) bool) {
		rows, err := s.db.QueryxContext(ctx,
			`SELECT id, year, created_at, updated_at, doc FROM movies ORDER BY year DESC, created_at ASC`)
		if err != nil {
			yield(nil, fmt.Errorf("list movies: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var row movieRow
			if err := rows.StructScan(&row); err != nil {
				yield(nil, fmt.Errorf("scan movie: %w", err))
				return
			}
			m, err := row.movie()
			if !yield(m, err) || err != nil {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, fmt.Errorf("iterate movies: %w", err))
		}
	}
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
