// Package sqlite provides a dao.Store implementation backed by
// modernc.org/sqlite, with board renderings and run state rezi-encoded into
// TEXT columns (§B).
package sqlite

import (
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"net/mail"
	"path/filepath"
	"time"

	"github.com/cuwacunu/tsiemene/server/dao"
	"github.com/cuwacunu/tsiemene/server/serr"
	"github.com/google/uuid"
	"modernc.org/sqlite"
)

// store is the sqlite-backed dao.Store. Board/run state lives in its own
// file (runsDataDB) so that scans over the main control-plane tables don't
// have to skip past large rezi-encoded blobs.
type store struct {
	dbFilename     string
	runDataDBFilename string

	db         *sql.DB
	runDataDB  *sql.DB

	users      *UsersDB
	boards     *BoardsDB
	renderings *RenderingsDB
	runs       *RunsDB
	dispatch   *DispatchDB
}

// NewDatastore opens (creating if necessary) the sqlite databases under
// storageDir and returns a ready-to-use dao.Store.
func NewDatastore(storageDir string) (dao.Store, error) {
	st := &store{
		dbFilename:        "control.db",
		runDataDBFilename: "runs.db",
	}

	fileName := filepath.Join(storageDir, st.dbFilename)
	runDataFileName := filepath.Join(storageDir, st.runDataDBFilename)

	var err error
	st.db, err = sql.Open("sqlite", fileName)
	if err != nil {
		return nil, wrapDBError(err)
	}
	st.runDataDB, err = sql.Open("sqlite", runDataFileName)
	if err != nil {
		return nil, wrapDBError(err)
	}

	st.renderings = &RenderingsDB{db: st.runDataDB}
	if err := st.renderings.init(); err != nil {
		return nil, err
	}

	st.users = &UsersDB{db: st.db}
	if err := st.users.init(); err != nil {
		return nil, err
	}

	st.boards = &BoardsDB{db: st.db}
	if err := st.boards.init(true); err != nil {
		return nil, err
	}

	st.runs = &RunsDB{db: st.db}
	if err := st.runs.init(true); err != nil {
		return nil, err
	}

	st.dispatch = &DispatchDB{db: st.db}
	if err := st.dispatch.init(true); err != nil {
		return nil, err
	}

	return st, nil
}

func (s *store) Users() dao.UserRepository             { return s.users }
func (s *store) Boards() dao.BoardRepository           { return s.boards }
func (s *store) Renderings() dao.RenderingsRepository  { return s.renderings }
func (s *store) Runs() dao.RunRepository               { return s.runs }
func (s *store) DispatchLog() dao.DispatchLogRepository { return s.dispatch }

func (s *store) Close() error {
	runDataErr := s.runDataDB.Close()
	mainDBErr := s.db.Close()

	var err error
	if runDataErr != nil {
		err = fmt.Errorf("%s: %w", s.runDataDBFilename, runDataErr)
	}
	if mainDBErr != nil {
		if err != nil {
			err = fmt.Errorf("%s\nadditionally: %s: %w", err.Error(), s.dbFilename, mainDBErr)
		} else {
			err = fmt.Errorf("%s: %w", s.dbFilename, mainDBErr)
		}
	}
	return err
}

// convertToDB_Role converts a dao.Role to storage DB format.
func convertToDB_Role(r dao.Role) string {
	return r.String()
}

// convertToDB_Email converts a *mail.Address to storage DB format. If the
// pointer is nil, it will return the zero value.
func convertToDB_Email(email *mail.Address) string {
	if email == nil {
		return ""
	}
	return email.Address
}

// convertToDB_UUID converts a uuid.UUID to storage DB format on disk.
func convertToDB_UUID(u uuid.UUID) string {
	return u.String()
}

// convertToDB_Time converts a time.Time to storage DB format on disk.
func convertToDB_Time(t time.Time) int64 {
	return t.Unix()
}

// convertToDB_ByteSlice converts bytes to storage DB format on disk.
func convertToDB_ByteSlice(b []byte) string {
	if len(b) < 1 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(b)
}

// convertFromDB_Email converts storage DB format value to a *mail.Address
// and stores it at the address pointed to by target. If the zero value is
// provided, target is set to a nil pointer. If there is a problem with the
// decoding, the returned error will be of type serr.Error, and will wrap
// dao.ErrDecodingFailure. If this function returns a non-nil error, target
// will not have been modified.
func convertFromDB_Email(s string, target **mail.Address) error {
	if s == "" {
		*target = nil
		return nil
	}

	email, err := mail.ParseAddress(s)
	if err != nil {
		return serr.New("", err, dao.ErrDecodingFailure)
	}

	*target = email
	return nil
}

// convertFromDB_Role converts storage DB format value to a dao.Role and
// stores it at the address pointed to by target.
func convertFromDB_Role(s string, target *dao.Role) error {
	r, err := dao.ParseRole(s)
	if err != nil {
		return serr.New("", err, dao.ErrDecodingFailure)
	}
	*target = r
	return nil
}

// convertFromDB_UUID converts storage DB format value to a uuid.UUID and
// stores it at the address pointed to by target.
func convertFromDB_UUID(s string, target *uuid.UUID) error {
	u, err := uuid.Parse(s)
	if err != nil {
		return serr.New("", err, dao.ErrDecodingFailure)
	}
	*target = u
	return nil
}

// convertFromDB_Time converts storage DB format value to a time.Time and
// stores it at the address pointed to by target.
func convertFromDB_Time(i int64, target *time.Time) error {
	*target = time.Unix(i, 0)
	return nil
}

// convertFromDB_ByteSlice converts storage DB format string to an actual
// byte slice and stores it at the address pointed to by target.
func convertFromDB_ByteSlice(s string, target *[]byte) error {
	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return serr.New("", err, dao.ErrDecodingFailure)
	}
	*target = decoded
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows, letting row-parsing
// helpers be shared between single-row and multi-row queries.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code() == 19 {
			return dao.ErrConstraintViolation
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return dao.ErrNotFound
	}
	return err
}
