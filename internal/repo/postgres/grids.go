package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/okellodavid/revealhub/internal/domain/grid"
	"github.com/okellodavid/revealhub/internal/observability"
)

type GridsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewGridsRepo(pool *pgxpool.Pool, prom *observability.Prom) *GridsRepo {
	return &GridsRepo{
		pool: pool,
		prom: prom,
	}
}

func (repo *GridsRepo) observe(op string, fn func() error) error {
	if repo.prom != nil {
		return repo.prom.ObserveDB(op, fn)
	}
	return fn()
}

// GetOrCreate returns the user's grid, inserting a freshly shuffled one if
// none exists yet. ON CONFLICT DO NOTHING makes concurrent first calls
// safe: exactly one insert wins and everyone reads that row back. created
// reports whether this call was the winner.
func (repo *GridsRepo) GetOrCreate(ctx context.Context, email string) (grid.State, bool, error) {
	fresh := grid.NewState(email)
	now := time.Now().UTC()

	var created bool

	err := repo.observe("grids.create_if_absent", func() error {
		tag, e := repo.pool.Exec(ctx, `
			INSERT INTO game_grids (email, cells, created_at, updated_at)
			VALUES ($1, $2, $3, $3)
			ON CONFLICT (email) DO NOTHING
		`, email, fresh.Cells, now)

		if e == nil {
			created = tag.RowsAffected() > 0
		}

		return e
	})

	if err != nil {
		return grid.State{}, false, err
	}

	st, err := repo.Get(ctx, email)

	return st, created, err
}

// Get loads the grid plus its full selection history, oldest first.
func (repo *GridsRepo) Get(ctx context.Context, email string) (st grid.State, err error) {
	st.Email = email

	err = repo.observe("grids.get", func() error {
		return repo.pool.QueryRow(ctx,
			`SELECT cells FROM game_grids WHERE email = $1`,
			email,
		).Scan(&st.Cells)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = grid.ErrNotFound
		}

		return
	}

	var rows pgx.Rows

	err = repo.observe("grids.list_selections", func() error {
		var e error
		rows, e = repo.pool.Query(ctx, `
			SELECT row_idx, col_idx, created_at
			FROM grid_selections
			WHERE email = $1
			ORDER BY created_at ASC, id ASC
		`, email)
		return e
	})

	if err != nil {
		return
	}

	defer rows.Close()

	st.Selections = make([]grid.Selection, 0)

	for rows.Next() {
		var s grid.Selection

		e := rows.Scan(&s.Row, &s.Col, &s.Timestamp)

		if e != nil {
			err = e
			return
		}

		st.Selections = append(st.Selections, s)
	}

	if e := rows.Err(); e != nil {
		err = e
		return
	}

	if n := len(st.Selections); n > 0 {
		last := st.Selections[n-1].Timestamp
		st.LastSelection = &last
	}

	return
}

// Select reveals one cell inside a single transaction. The grid row is
// locked FOR UPDATE before the window count, so two racing selections for
// the same user serialize and cannot both slip under the cap. An
// already-revealed cell is a no-op success and writes nothing.
func (repo *GridsRepo) Select(ctx context.Context, email string, row, col, limit int, window time.Duration) (res grid.SelectResult, err error) {
	if !grid.InBounds(row, col) {
		err = grid.ErrOutOfBounds
		return
	}

	tx, err := repo.pool.BeginTx(ctx, pgx.TxOptions{})

	if err != nil {
		return
	}

	defer func() { _ = tx.Rollback(ctx) }()

	var cells grid.Cells

	err = repo.observe("grids.select.lock", func() error {
		return tx.QueryRow(ctx,
			`SELECT cells FROM game_grids WHERE email = $1 FOR UPDATE`,
			email,
		).Scan(&cells)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = grid.ErrNotFound
		}

		return
	}

	cell := cells[row][col]

	if cell.IsRevealed {
		// idempotent repeat, never counted against the cap
		res = grid.SelectResult{Value: cell.Value, Repeat: true}
		err = nil
		return
	}

	now := time.Now().UTC()
	cutoff := now.Add(-window)

	var count int
	var oldest *time.Time

	err = repo.observe("grids.select.window_count", func() error {
		return tx.QueryRow(ctx, `
			SELECT COUNT(*), MIN(created_at)
			FROM grid_selections
			WHERE email = $1 AND created_at > $2
		`, email, cutoff).Scan(&count, &oldest)
	})

	if err != nil {
		return
	}

	if count >= limit {
		remaining := window

		if oldest != nil {
			remaining = oldest.Add(window).Sub(now)
		}

		if remaining < 0 {
			remaining = 0
		}

		err = &grid.RateLimitError{Remaining: remaining}
		return
	}

	cells[row][col].IsRevealed = true

	err = repo.observe("grids.select.update_cells", func() error {
		_, e := tx.Exec(ctx, `
			UPDATE game_grids SET cells = $2, updated_at = $3 WHERE email = $1
		`, email, cells, now)
		return e
	})

	if err != nil {
		return
	}

	err = repo.observe("grids.select.append", func() error {
		_, e := tx.Exec(ctx, `
			INSERT INTO grid_selections (id, email, row_idx, col_idx, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, uuid.NewString(), email, row, col, now)
		return e
	})

	if err != nil {
		return
	}

	err = tx.Commit(ctx)

	if err != nil {
		return
	}

	res = grid.SelectResult{Value: cell.Value}
	return
}
