package notes_box

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ notesRepo = (*Repo)(nil)

// Repo stores notes in postgres
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, note *Note) (*Note, error) {
	rows, err := r.db.Query(
		ctx,
		`INSERT INTO note (title, content, created_at, updated_at) VALUES ($1, $2, $3, $4) RETURNING id;`,
		note.Title, note.Content, note.CreatedAt, note.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, errors.New("unexpected error [no rows next]")
	}

	var id int
	if err := rows.Scan(&id); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	note.ID = id
	return note, nil
}

func (r *Repo) Get(ctx context.Context, id int) (*Note, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT id, title, content, created_at, updated_at FROM note WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}

	notes, err := rows2notes(rows)
	if err != nil {
		return nil, err
	}

	if len(notes) != 1 {
		return nil, ErrNoteNotFound
	}

	return &notes[0], nil
}

func (r *Repo) List(ctx context.Context) ([]Note, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT id, title, content, created_at, updated_at FROM note ORDER BY id;`,
	)
	if err != nil {
		return nil, err
	}

	return rows2notes(rows)
}

func (r *Repo) Update(ctx context.Context, note *Note) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE note SET title = $1, content = $2, updated_at = $3 WHERE id = $4;`,
		note.Title, note.Content, note.UpdatedAt, note.ID,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrNoteNotFound
	}

	return nil
}

func (r *Repo) Patch(ctx context.Context, id int, patch NotePatch, updatedAt time.Time) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE note
			SET title = COALESCE($1, title), content = COALESCE($2, content), updated_at = $3
			WHERE id = $4;`,
		patch.Title, patch.Content, updatedAt, id,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrNoteNotFound
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM note WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoteNotFound
	}
	return nil
}

// Search uses strpos instead of LIKE, so the match is case-sensitive
// and % or _ in the query are not wildcards.
func (r *Repo) Search(ctx context.Context, query string) ([]Note, error) {
	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, title, content, created_at, updated_at
			FROM note
			WHERE strpos(title, $1) > 0 OR strpos(content, $1) > 0
			ORDER BY id;`,
		query,
	)
	if err != nil {
		return nil, err
	}

	return rows2notes(rows)
}

func rows2notes(rows pgx.Rows) ([]Note, error) {
	defer rows.Close()

	var notes []Note
	for rows.Next() {
		var note Note
		if err := rows.Scan(&note.ID, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		note.CreatedAt = note.CreatedAt.UTC()
		note.UpdatedAt = note.UpdatedAt.UTC()
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notes, nil
}
