// Package slots implements §3's "Data slot model": a finite store of
// bounded slots by kind (Str/Vec/Num) plus the two system streams
// (stdout, stderr), addressed by the same paths a renderings screen's
// event form bindings use (".strN", ".vecN", ".numN", ".sys.stdout",
// ".sys.stderr"). System streams supply strings but cannot be written
// by user actions; only the stream router may push into them.
package slots

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cuwacunu/tsiemene/internal/iinuji/event"
	"github.com/cuwacunu/tsiemene/internal/logging"
)

// Kind is the data type a slot reference addresses.
type Kind int

const (
	Str Kind = iota
	Vec
	Num
	SysStdout
	SysStderr
)

// Ref is one resolved data path.
type Ref struct {
	Kind  Kind
	Index int // valid only for Str/Vec/Num
}

// Parse resolves a raw form-binding path into a Ref, normalizing the
// `.sys.stdout`/`sysstdout` and `.sys.stderr`/`sysstderr` aliases (§6) the
// same way event.Compile's pathKind does. ok is false for anything that
// isn't a recognized slot or system stream reference.
func Parse(path string) (ref Ref, ok bool) {
	p := strings.TrimPrefix(path, ".")
	switch {
	case p == "sys.stdout" || p == "sysstdout":
		return Ref{Kind: SysStdout}, true
	case p == "sys.stderr" || p == "sysstderr":
		return Ref{Kind: SysStderr}, true
	case strings.HasPrefix(p, "str"):
		return parseIndexed(p, "str", Str)
	case strings.HasPrefix(p, "vec"):
		return parseIndexed(p, "vec", Vec)
	case strings.HasPrefix(p, "num"):
		return parseIndexed(p, "num", Num)
	default:
		return Ref{}, false
	}
}

func parseIndexed(p, prefix string, kind Kind) (Ref, bool) {
	rest := strings.TrimPrefix(p, prefix)
	idx, err := strconv.Atoi(rest)
	if err != nil || idx < 0 {
		return Ref{}, false
	}
	return Ref{Kind: kind, Index: idx}, true
}

// Store is a bounded data slot store: up to StrCount/VecCount/NumCount
// user slots of each kind, plus the two system streams. The zero value
// has no slots of any kind and only the two (always-present) system
// streams; use New to size the user slots.
type Store struct {
	strSlots []string
	vecSlots [][]float64
	numSlots []float64

	sysStdout string
	sysStderr string
}

// New allocates a store with the given bounded user-slot counts.
func New(strCount, vecCount, numCount int) *Store {
	return &Store{
		strSlots: make([]string, strCount),
		vecSlots: make([][]float64, vecCount),
		numSlots: make([]float64, numCount),
	}
}

// Exists reports whether path addresses a slot or system stream this
// store supports (§3: "check-exists").
func (s *Store) Exists(path string) bool {
	ref, ok := Parse(path)
	return ok && s.inBounds(ref)
}

func (s *Store) inBounds(ref Ref) bool {
	switch ref.Kind {
	case Str:
		return ref.Index >= 0 && ref.Index < len(s.strSlots)
	case Vec:
		return ref.Index >= 0 && ref.Index < len(s.vecSlots)
	case Num:
		return ref.Index >= 0 && ref.Index < len(s.numSlots)
	case SysStdout, SysStderr:
		return true
	default:
		return false
	}
}

// ReadString reads a .strN slot or a system stream's most recently pushed
// line (§3: "read").
func (s *Store) ReadString(path string) (string, bool) {
	ref, ok := Parse(path)
	if !ok || !s.inBounds(ref) {
		return "", false
	}
	switch ref.Kind {
	case Str:
		return s.strSlots[ref.Index], true
	case SysStdout:
		return s.sysStdout, true
	case SysStderr:
		return s.sysStderr, true
	default:
		return "", false
	}
}

// ReadVector reads a .vecN slot.
func (s *Store) ReadVector(path string) ([]float64, bool) {
	ref, ok := Parse(path)
	if !ok || ref.Kind != Vec || !s.inBounds(ref) {
		return nil, false
	}
	return s.vecSlots[ref.Index], true
}

// ReadNumber reads a .numN slot.
func (s *Store) ReadNumber(path string) (float64, bool) {
	ref, ok := Parse(path)
	if !ok || ref.Kind != Num || !s.inBounds(ref) {
		return 0, false
	}
	return s.numSlots[ref.Index], true
}

// SetString writes a .strN user slot. Per §3, system streams "cannot be
// written by user actions" — targeting one, or an out-of-bounds/wrong-kind
// path, is an error rather than a silent no-op.
func (s *Store) SetString(path, value string) error {
	ref, ok := Parse(path)
	if ok && (ref.Kind == SysStdout || ref.Kind == SysStderr) {
		return fmt.Errorf("slots: %q is a read-only system stream", path)
	}
	if !ok || ref.Kind != Str || !s.inBounds(ref) {
		return fmt.Errorf("slots: %q is not a valid str slot", path)
	}
	s.strSlots[ref.Index] = value
	return nil
}

// SetVector writes a .vecN user slot.
func (s *Store) SetVector(path string, value []float64) error {
	ref, ok := Parse(path)
	if !ok || ref.Kind != Vec || !s.inBounds(ref) {
		return fmt.Errorf("slots: %q is not a valid vec slot", path)
	}
	s.vecSlots[ref.Index] = value
	return nil
}

// SetNumber writes a .numN user slot.
func (s *Store) SetNumber(path string, value float64) error {
	ref, ok := Parse(path)
	if !ok || ref.Kind != Num || !s.inBounds(ref) {
		return fmt.Errorf("slots: %q is not a valid num slot", path)
	}
	s.numSlots[ref.Index] = value
	return nil
}

// PushSystem sets a system stream's most recently captured line. Only the
// stream router (event.Router.Pump) calls this: it is not reachable from a
// dispatched `_action` event, which is what keeps the system streams
// read-only to user actions.
func (s *Store) PushSystem(stream Kind, line string) {
	switch stream {
	case SysStdout:
		s.sysStdout = line
	case SysStderr:
		s.sysStderr = line
	}
}

// Writer adapts a Store to event.SlotWriter for use as the slots argument
// to event.Dispatch. Rejected writes (system-stream target, out-of-bounds
// index, kind mismatch) are logged rather than propagated, since
// SlotWriter's methods don't return an error; a conforming screen — one
// that has passed screen.Validate — never produces one in practice.
type Writer struct {
	Store *Store
}

var _ event.SlotWriter = Writer{}

func (w Writer) WriteString(path, value string) {
	if err := w.Store.SetString(path, value); err != nil {
		logging.Warn("%s", err)
	}
}

func (w Writer) WriteVector(path string, value []float64) {
	if err := w.Store.SetVector(path, value); err != nil {
		logging.Warn("%s", err)
	}
}

func (w Writer) WriteNumber(path string, value float64) {
	if err := w.Store.SetNumber(path, value); err != nil {
		logging.Warn("%s", err)
	}
}
