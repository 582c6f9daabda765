// Package dao provides data access objects for use in the tsiemene control
// plane server (§B).
package dao

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrConstraintViolation = errors.New("a uniqueness constraint was violated")
	ErrNotFound            = errors.New("the requested resource was not found")
	ErrDecodingFailure     = errors.New("field could not be decoded from DB storage format to model format")
)

// Store holds all the repositories backing a running control-plane server.
type Store interface {
	Users() UserRepository
	Boards() BoardRepository
	Renderings() RenderingsRepository
	Runs() RunRepository
	DispatchLog() DispatchLogRepository
	Close() error
}

// DispatchLogRepository persists an audit trail of dispatch_event calls made
// against a Run, for history/replay purposes (§4.11, §6).
type DispatchLogRepository interface {
	Create(ctx context.Context, entry DispatchEntry) (DispatchEntry, error)
	GetByID(ctx context.Context, id uuid.UUID) (DispatchEntry, error)

	// GetAll retrieves all DispatchEntry rows from persistence. If notBefore
	// is non-nil, only entries on or after that time are included. If
	// notAfter is non-nil, only entries on or before that time are included.
	GetAll(ctx context.Context, notBefore *time.Time, notAfter *time.Time) ([]DispatchEntry, error)

	// GetAllByUser retrieves DispatchEntry rows for every run owned by a
	// given user, filtered the same way as GetAll.
	GetAllByUser(ctx context.Context, userID uuid.UUID, notBefore *time.Time, notAfter *time.Time) ([]DispatchEntry, error)

	// GetAllByRun retrieves all DispatchEntry rows for a given run, filtered
	// the same way as GetAll.
	GetAllByRun(ctx context.Context, runID uuid.UUID, notBefore *time.Time, notAfter *time.Time) ([]DispatchEntry, error)
	Update(ctx context.Context, id uuid.UUID, entry DispatchEntry) (DispatchEntry, error)
	Delete(ctx context.Context, id uuid.UUID) (DispatchEntry, error)
	Close() error
}

// DispatchEntry is one audited call to dispatch_event against a Run.
type DispatchEntry struct {
	ID      uuid.UUID
	RunID   uuid.UUID
	Created time.Time
	Event   string
	Summary string // human-readable rendering of the payload, for history display
}

// RenderingsRepository persists the compiled form of a board's renderings
// manifest (the decoded/validated figure and screen tree), separately from
// the Board's own metadata so that large compiled blobs don't bloat scans
// over board listings.
type RenderingsRepository interface {
	Create(ctx context.Context, data RenderingsBundle) (RenderingsBundle, error)
	GetByID(ctx context.Context, id uuid.UUID) (RenderingsBundle, error)
	Update(ctx context.Context, id uuid.UUID, data RenderingsBundle) (RenderingsBundle, error)
	Delete(ctx context.Context, id uuid.UUID) (RenderingsBundle, error)
	Close() error
}

// RenderingsBundle holds the rezi-encoded compiled renderings for a board.
type RenderingsBundle struct {
	ID   uuid.UUID
	Data []byte
}

// BoardRepository persists board metadata: the name, version, and on-disk or
// remote location of a board's renderings manifest and the scripts it binds.
type BoardRepository interface {
	Create(ctx context.Context, board Board) (Board, error)
	GetByID(ctx context.Context, id uuid.UUID) (Board, error)
	GetAllByUser(ctx context.Context, userID uuid.UUID) ([]Board, error)
	GetAll(ctx context.Context) ([]Board, error)
	Update(ctx context.Context, id uuid.UUID, board Board) (Board, error)
	Delete(ctx context.Context, id uuid.UUID) (Board, error)
	Close() error
}

// Board is one uploaded/registered renderings manifest plus the metadata the
// control plane tracks about it.
type Board struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Name            string
	Version         string
	Description     string
	Created         time.Time
	Modified        time.Time
	LocalPath       string
	LastLocalAccess time.Time

	// Storage is the location where the board's compiled renderings are
	// stored in long-term storage, in form "sqlite/engine:local/server-ip:params".
	Storage string
}

// RunRepository persists screen-session ("run") state: one instantiation of
// a board being driven by a client, with its figures' live values.
type RunRepository interface {
	Create(ctx context.Context, run Run) (Run, error)
	GetByID(ctx context.Context, id uuid.UUID) (Run, error)
	GetAllByUser(ctx context.Context, userID uuid.UUID) ([]Run, error)
	GetAllByBoard(ctx context.Context, boardID uuid.UUID) ([]Run, error)
	GetAll(ctx context.Context) ([]Run, error)
	Update(ctx context.Context, id uuid.UUID, run Run) (Run, error)
	Delete(ctx context.Context, id uuid.UUID) (Run, error)
	Close() error
}

// these can also be in localstorage for unauthed clients (but we will store
// up to 5 per guest, to be nice)
type Run struct {
	ID      uuid.UUID
	UserID  uuid.UUID
	BoardID uuid.UUID
	Created time.Time
	State   *RunSnapshot
}

// RunSnapshot is the rezi-serializable subset of a run's live widget state
// (§4.7-§4.11): the per-figure values needed to resume a run, independent of
// the compiled layout/event tables (which are re-derived from the Board's
// RenderingsBundle on load).
type RunSnapshot struct {
	FigureText    map[string]string
	FigureLines   map[string][]string
	FigureSeries0 map[string][]float64
	ScrollOffset  map[string]int
}

type UserRepository interface {

	// Create creates a new User. All attributes except for auto-generated
	// fields are taken from the provided User.
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetAll(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id uuid.UUID, user User) (User, error)
	Delete(ctx context.Context, id uuid.UUID) (User, error)

	// Close closes the connection.
	Close() error
}

type Role int

const (
	Guest Role = iota
	Unverified
	Normal

	Admin Role = 100
)

func (r Role) String() string {
	switch r {
	case Guest:
		return "guest"
	case Unverified:
		return "unverified"
	case Normal:
		return "normal"
	case Admin:
		return "admin"
	default:
		return fmt.Sprintf("Role(%d)", r)
	}
}

func ParseRole(s string) (Role, error) {
	check := strings.ToLower(s)
	switch check {
	case "guest":
		return Guest, nil
	case "unverified":
		return Unverified, nil
	case "normal":
		return Normal, nil
	case "admin":
		return Admin, nil
	default:
		return Guest, fmt.Errorf("must be one of 'guest', 'unverified', 'normal', or 'admin'")
	}
}

// User is an operator of the control plane: someone who can upload boards,
// start runs against them, and dispatch events into a run.
type User struct {
	ID             uuid.UUID     // PK, NOT NULL
	Username       string        // UNIQUE, NOT NULL
	Password       string        // NOT NULL
	Email          *mail.Address // NOT NULL
	Role           Role          // NOT NULL
	Created        time.Time     // NOT NULL
	Modified       time.Time
	LastLogoutTime time.Time // NOT NULL DEFAULT NOW()
	LastLoginTime  time.Time // NOT NULL
}
