package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cuwacunu/tsiemene/server/dao"
	"github.com/google/uuid"
)

// DispatchDB is a dao.DispatchLogRepository backed by a sqlite table.
type DispatchDB struct {
	db         *sql.DB
	multiTable bool
}

func (repo *DispatchDB) init(fk bool) error {
	repo.multiTable = fk

	stmt := `CREATE TABLE IF NOT EXISTS dispatch_log (
		id TEXT NOT NULL PRIMARY KEY,
		run_id TEXT NOT NULL`

	if fk {
		stmt += ` REFERENCES runs(id) ON DELETE CASCADE ON UPDATE CASCADE`
	}

	stmt += `,
		event TEXT NOT NULL,
		summary TEXT NOT NULL,
		created INTEGER NOT NULL
	);`
	_, err := repo.db.Exec(stmt)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *DispatchDB) Create(ctx context.Context, entry dao.DispatchEntry) (dao.DispatchEntry, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.DispatchEntry{}, fmt.Errorf("could not generate ID: %w", err)
	}

	stmt, err := repo.db.Prepare(`INSERT INTO dispatch_log (id, run_id, event, summary, created) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return dao.DispatchEntry{}, wrapDBError(err)
	}
	defer stmt.Close()

	now := time.Now()

	_, err = stmt.ExecContext(ctx,
		convertToDB_UUID(newUUID),
		convertToDB_UUID(entry.RunID),
		entry.Event,
		entry.Summary,
		convertToDB_Time(now),
	)
	if err != nil {
		return dao.DispatchEntry{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *DispatchDB) GetAll(ctx context.Context, notBefore *time.Time, notAfter *time.Time) ([]dao.DispatchEntry, error) {
	query := `SELECT id, run_id, event, summary, created FROM dispatch_log`
	clause, args := timeRangeClause(notBefore, notAfter)
	rows, err := repo.db.QueryContext(ctx, query+clause+`;`, args...)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	return scanDispatchRows(rows)
}

func (repo *DispatchDB) GetAllByUser(ctx context.Context, userID uuid.UUID, notBefore *time.Time, notAfter *time.Time) ([]dao.DispatchEntry, error) {
	if !repo.multiTable {
		return nil, fmt.Errorf("cannot do cross-table join query without multi-table support")
	}

	query := `
		SELECT D.id, D.run_id, D.event, D.summary, D.created
		FROM dispatch_log AS D
		INNER JOIN runs AS R
			ON R.id = D.run_id
		WHERE R.user_id=?`
	args := []any{convertToDB_UUID(userID)}

	clause, rangeArgs := timeRangeClause(notBefore, notAfter)
	if clause != "" {
		query += ` AND` + clause[len(" WHERE"):]
		args = append(args, rangeArgs...)
	}

	rows, err := repo.db.QueryContext(ctx, query+`;`, args...)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	return scanDispatchRows(rows)
}

func (repo *DispatchDB) GetAllByRun(ctx context.Context, runID uuid.UUID, notBefore *time.Time, notAfter *time.Time) ([]dao.DispatchEntry, error) {
	query := `SELECT id, run_id, event, summary, created FROM dispatch_log WHERE run_id=?`
	args := []any{convertToDB_UUID(runID)}

	clause, rangeArgs := timeRangeClause(notBefore, notAfter)
	if clause != "" {
		query += ` AND` + clause[len(" WHERE"):]
		args = append(args, rangeArgs...)
	}

	rows, err := repo.db.QueryContext(ctx, query+`;`, args...)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	return scanDispatchRows(rows)
}

func (repo *DispatchDB) Update(ctx context.Context, id uuid.UUID, entry dao.DispatchEntry) (dao.DispatchEntry, error) {
	res, err := repo.db.ExecContext(ctx, `UPDATE dispatch_log SET id=?, run_id=?, event=?, summary=? WHERE id=?;`,
		convertToDB_UUID(entry.ID),
		convertToDB_UUID(entry.RunID),
		entry.Event,
		entry.Summary,
		convertToDB_UUID(id),
	)
	if err != nil {
		return dao.DispatchEntry{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return dao.DispatchEntry{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return dao.DispatchEntry{}, dao.ErrNotFound
	}

	return repo.GetByID(ctx, entry.ID)
}

func (repo *DispatchDB) GetByID(ctx context.Context, id uuid.UUID) (dao.DispatchEntry, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT id, run_id, event, summary, created FROM dispatch_log WHERE id = ?;`, convertToDB_UUID(id))
	return scanDispatchRow(row)
}

func (repo *DispatchDB) Delete(ctx context.Context, id uuid.UUID) (dao.DispatchEntry, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM dispatch_log WHERE id = ?`, convertToDB_UUID(id))
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

func (repo *DispatchDB) Close() error {
	return nil
}

// timeRangeClause builds a " WHERE ..." SQL fragment (or "" if both bounds
// are nil) plus its bind args, for filtering on the created column.
func timeRangeClause(notBefore *time.Time, notAfter *time.Time) (string, []any) {
	var conds []string
	var args []any

	if notBefore != nil {
		conds = append(conds, "created >= ?")
		args = append(args, convertToDB_Time(*notBefore))
	}
	if notAfter != nil {
		conds = append(conds, "created <= ?")
		args = append(args, convertToDB_Time(*notAfter))
	}

	if len(conds) == 0 {
		return "", nil
	}

	clause := " WHERE " + conds[0]
	for _, c := range conds[1:] {
		clause += " AND " + c
	}
	return clause, args
}

func scanDispatchRows(rows *sql.Rows) ([]dao.DispatchEntry, error) {
	var all []dao.DispatchEntry
	for rows.Next() {
		entry, err := scanDispatchRow(rows)
		if err != nil {
			return all, err
		}
		all = append(all, entry)
	}
	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}
	return all, nil
}

func scanDispatchRow(row rowScanner) (dao.DispatchEntry, error) {
	var entry dao.DispatchEntry
	var id, runID string
	var created int64

	if err := row.Scan(&id, &runID, &entry.Event, &entry.Summary, &created); err != nil {
		return entry, wrapDBError(err)
	}

	if err := convertFromDB_UUID(id, &entry.ID); err != nil {
		return entry, err
	}
	if err := convertFromDB_UUID(runID, &entry.RunID); err != nil {
		return entry, err
	}
	if err := convertFromDB_Time(created, &entry.Created); err != nil {
		return entry, err
	}

	return entry, nil
}
