package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cuwacunu/tsiemene/server/dao"
	"github.com/google/uuid"
)

// BoardsDB is a dao.BoardRepository backed by a sqlite table.
type BoardsDB struct {
	db *sql.DB
}

func (repo *BoardsDB) init(fk bool) error {
	stmt := `CREATE TABLE IF NOT EXISTS boards (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL`

	if fk {
		stmt += ` REFERENCES users(id) ON DELETE CASCADE ON UPDATE CASCADE`
	}

	stmt += `,
		name TEXT NOT NULL,
		version TEXT NOT NULL,
		description TEXT NOT NULL,
		storage TEXT NOT NULL,
		local_path TEXT NOT NULL,
		last_local_access INTEGER NOT NULL,
		created INTEGER NOT NULL,
		modified INTEGER NOT NULL
	);`
	_, err := repo.db.Exec(stmt)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *BoardsDB) Create(ctx context.Context, b dao.Board) (dao.Board, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Board{}, fmt.Errorf("could not generate ID: %w", err)
	}

	stmt, err := repo.db.Prepare(`INSERT INTO boards (id, user_id, name, version, description, storage, local_path, last_local_access, created, modified) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return dao.Board{}, wrapDBError(err)
	}
	defer stmt.Close()

	now := time.Now()

	_, err = stmt.ExecContext(
		ctx,
		convertToDB_UUID(newUUID),
		convertToDB_UUID(b.UserID),
		b.Name,
		b.Version,
		b.Description,
		b.Storage,
		b.LocalPath,
		convertToDB_Time(b.LastLocalAccess),
		convertToDB_Time(now),
		convertToDB_Time(now),
	)
	if err != nil {
		return dao.Board{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *BoardsDB) GetAll(ctx context.Context) ([]dao.Board, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, user_id, name, version, description, storage, local_path, last_local_access, created, modified FROM boards;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Board
	for rows.Next() {
		b, err := scanBoardRow(rows)
		if err != nil {
			return all, err
		}
		all = append(all, b)
	}
	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *BoardsDB) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]dao.Board, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, user_id, name, version, description, storage, local_path, last_local_access, created, modified FROM boards WHERE user_id=?;`,
		convertToDB_UUID(userID),
	)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Board
	for rows.Next() {
		b, err := scanBoardRow(rows)
		if err != nil {
			return all, err
		}
		all = append(all, b)
	}
	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *BoardsDB) Update(ctx context.Context, id uuid.UUID, b dao.Board) (dao.Board, error) {
	res, err := repo.db.ExecContext(ctx, `UPDATE boards SET id=?, user_id=?, name=?, version=?, description=?, storage=?, local_path=?, last_local_access=?, created=?, modified=? WHERE id=?;`,
		convertToDB_UUID(b.ID),
		convertToDB_UUID(b.UserID),
		b.Name,
		b.Version,
		b.Description,
		b.Storage,
		b.LocalPath,
		convertToDB_Time(b.LastLocalAccess),
		convertToDB_Time(b.Created),
		convertToDB_Time(time.Now()),
		convertToDB_UUID(id),
	)
	if err != nil {
		return dao.Board{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return dao.Board{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return dao.Board{}, dao.ErrNotFound
	}

	return repo.GetByID(ctx, b.ID)
}

func (repo *BoardsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Board, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT id, user_id, name, version, description, storage, local_path, last_local_access, created, modified FROM boards WHERE id = ?;`,
		convertToDB_UUID(id),
	)
	return scanBoardRow(row)
}

func (repo *BoardsDB) Delete(ctx context.Context, id uuid.UUID) (dao.Board, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM boards WHERE id = ?`, convertToDB_UUID(id))
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

func (repo *BoardsDB) Close() error {
	return repo.db.Close()
}

func scanBoardRow(row rowScanner) (dao.Board, error) {
	var b dao.Board
	var id, userID string
	var created, modified, lastLocal int64

	err := row.Scan(&id, &userID, &b.Name, &b.Version, &b.Description, &b.Storage, &b.LocalPath, &lastLocal, &created, &modified)
	if err != nil {
		return b, wrapDBError(err)
	}

	if err := convertFromDB_UUID(id, &b.ID); err != nil {
		return b, err
	}
	if err := convertFromDB_UUID(userID, &b.UserID); err != nil {
		return b, err
	}
	if err := convertFromDB_Time(created, &b.Created); err != nil {
		return b, err
	}
	if err := convertFromDB_Time(modified, &b.Modified); err != nil {
		return b, err
	}
	if err := convertFromDB_Time(lastLocal, &b.LastLocalAccess); err != nil {
		return b, err
	}

	return b, nil
}
