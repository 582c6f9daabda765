package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cuwacunu/tsiemene/server/dao"
	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
)

// RunsDB is a dao.RunRepository backed by a sqlite table. A run's live
// figure state is rezi-encoded into the state column, mirroring how
// RenderingsDB stores a board's compiled renderings.
type RunsDB struct {
	db *sql.DB
}

func (repo *RunsDB) init(fk bool) error {
	stmt := `CREATE TABLE IF NOT EXISTS runs (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL`

	if fk {
		stmt += ` REFERENCES users(id) ON DELETE CASCADE ON UPDATE CASCADE`
	}

	stmt += `,
		board_id TEXT NOT NULL,
		created INTEGER NOT NULL,
		state TEXT NOT NULL
	);`
	_, err := repo.db.Exec(stmt)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *RunsDB) Create(ctx context.Context, run dao.Run) (dao.Run, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Run{}, fmt.Errorf("could not generate ID: %w", err)
	}

	stateStr, err := convertToDB_RunSnapshotPtr(run.State)
	if err != nil {
		return dao.Run{}, err
	}

	stmt, err := repo.db.Prepare(`INSERT INTO runs (id, user_id, board_id, created, state) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return dao.Run{}, wrapDBError(err)
	}
	defer stmt.Close()

	now := time.Now()

	_, err = stmt.ExecContext(ctx,
		convertToDB_UUID(newUUID),
		convertToDB_UUID(run.UserID),
		convertToDB_UUID(run.BoardID),
		convertToDB_Time(now),
		stateStr,
	)
	if err != nil {
		return dao.Run{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *RunsDB) GetAll(ctx context.Context) ([]dao.Run, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, user_id, board_id, created, state FROM runs;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Run
	for rows.Next() {
		run, err := scanRunRow(rows)
		if err != nil {
			return all, err
		}
		all = append(all, run)
	}
	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *RunsDB) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]dao.Run, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, user_id, board_id, created, state FROM runs WHERE user_id=?;`, convertToDB_UUID(userID))
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Run
	for rows.Next() {
		run, err := scanRunRow(rows)
		if err != nil {
			return all, err
		}
		all = append(all, run)
	}
	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *RunsDB) GetAllByBoard(ctx context.Context, boardID uuid.UUID) ([]dao.Run, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, user_id, board_id, created, state FROM runs WHERE board_id=?;`, convertToDB_UUID(boardID))
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Run
	for rows.Next() {
		run, err := scanRunRow(rows)
		if err != nil {
			return all, err
		}
		all = append(all, run)
	}
	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *RunsDB) Update(ctx context.Context, id uuid.UUID, run dao.Run) (dao.Run, error) {
	stateStr, err := convertToDB_RunSnapshotPtr(run.State)
	if err != nil {
		return dao.Run{}, err
	}

	res, err := repo.db.ExecContext(ctx, `UPDATE runs SET id=?, user_id=?, board_id=?, state=? WHERE id=?;`,
		convertToDB_UUID(run.ID),
		convertToDB_UUID(run.UserID),
		convertToDB_UUID(run.BoardID),
		stateStr,
		convertToDB_UUID(id),
	)
	if err != nil {
		return dao.Run{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return dao.Run{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return dao.Run{}, dao.ErrNotFound
	}

	return repo.GetByID(ctx, run.ID)
}

func (repo *RunsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Run, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT id, user_id, board_id, created, state FROM runs WHERE id = ?;`, convertToDB_UUID(id))
	return scanRunRow(row)
}

func (repo *RunsDB) Delete(ctx context.Context, id uuid.UUID) (dao.Run, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, convertToDB_UUID(id))
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

func (repo *RunsDB) Close() error {
	return nil
}

func scanRunRow(row rowScanner) (dao.Run, error) {
	var run dao.Run
	var id, userID, boardID, state string
	var created int64

	if err := row.Scan(&id, &userID, &boardID, &created, &state); err != nil {
		return run, wrapDBError(err)
	}

	if err := convertFromDB_UUID(id, &run.ID); err != nil {
		return run, err
	}
	if err := convertFromDB_UUID(userID, &run.UserID); err != nil {
		return run, err
	}
	if err := convertFromDB_UUID(boardID, &run.BoardID); err != nil {
		return run, err
	}
	if err := convertFromDB_Time(created, &run.Created); err != nil {
		return run, err
	}

	snap, err := convertFromDB_RunSnapshotPtr(state)
	if err != nil {
		return run, err
	}
	run.State = snap

	return run, nil
}

// convertToDB_RunSnapshotPtr rezi-encodes a *dao.RunSnapshot for storage,
// mirroring the teacher's convertToDB_GameStatePtr pattern.
func convertToDB_RunSnapshotPtr(snap *dao.RunSnapshot) (string, error) {
	if snap == nil {
		snap = &dao.RunSnapshot{}
	}
	data := rezi.EncBinary(snap)
	return convertToDB_ByteSlice(data), nil
}

// convertFromDB_RunSnapshotPtr decodes a rezi-encoded *dao.RunSnapshot from
// storage format. If there is a problem with the decoding, the returned
// error will wrap dao.ErrDecodingFailure.
func convertFromDB_RunSnapshotPtr(s string) (*dao.RunSnapshot, error) {
	var data []byte
	if err := convertFromDB_ByteSlice(s, &data); err != nil {
		return nil, err
	}

	snap := &dao.RunSnapshot{}
	n, err := rezi.DecBinary(data, snap)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", dao.ErrDecodingFailure, err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: decoded %d bytes but blob is %d bytes", dao.ErrDecodingFailure, n, len(data))
	}

	return snap, nil
}
