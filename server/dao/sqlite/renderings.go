package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cuwacunu/tsiemene/server/dao"
	"github.com/google/uuid"
)

// RenderingsDB is a dao.RenderingsRepository backed by a sqlite table. It
// lives in the run-data file rather than the main control.db so that large
// rezi-encoded blobs don't bloat scans over board/user tables.
type RenderingsDB struct {
	db *sql.DB
}

func (repo *RenderingsDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS renderings (
		id TEXT NOT NULL PRIMARY KEY,
		data TEXT NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}

	return nil
}

func (repo *RenderingsDB) Create(ctx context.Context, rb dao.RenderingsBundle) (dao.RenderingsBundle, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.RenderingsBundle{}, fmt.Errorf("could not generate ID: %w", err)
	}

	stmt, err := repo.db.Prepare(`INSERT INTO renderings (id, data) VALUES (?, ?)`)
	if err != nil {
		return dao.RenderingsBundle{}, wrapDBError(err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, convertToDB_UUID(newUUID), convertToDB_ByteSlice(rb.Data))
	if err != nil {
		return dao.RenderingsBundle{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *RenderingsDB) Update(ctx context.Context, id uuid.UUID, rb dao.RenderingsBundle) (dao.RenderingsBundle, error) {
	res, err := repo.db.ExecContext(ctx, `UPDATE renderings SET id=?, data=? WHERE id=?;`,
		convertToDB_UUID(rb.ID),
		convertToDB_ByteSlice(rb.Data),
		convertToDB_UUID(id),
	)
	if err != nil {
		return dao.RenderingsBundle{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return dao.RenderingsBundle{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return dao.RenderingsBundle{}, dao.ErrNotFound
	}

	return repo.GetByID(ctx, rb.ID)
}

func (repo *RenderingsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.RenderingsBundle, error) {
	rb := dao.RenderingsBundle{ID: id}
	var data string

	row := repo.db.QueryRowContext(ctx, `SELECT data FROM renderings WHERE id = ?;`, convertToDB_UUID(id))
	if err := row.Scan(&data); err != nil {
		return rb, wrapDBError(err)
	}

	if err := convertFromDB_ByteSlice(data, &rb.Data); err != nil {
		return rb, fmt.Errorf("stored data for %s is invalid: %w", rb.ID.String(), err)
	}

	return rb, nil
}

func (repo *RenderingsDB) Delete(ctx context.Context, id uuid.UUID) (dao.RenderingsBundle, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM renderings WHERE id = ?`, convertToDB_UUID(id))
	if err != nil {
		return curVal, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return curVal, wrapDBError(err)
	}
	if rowsAff < 1 {
		return curVal, dao.ErrNotFound
	}

	return curVal, nil
}

func (repo *RenderingsDB) Close() error {
	return nil
}
