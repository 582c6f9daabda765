package tunas

import (
	"context"
	"errors"
	"fmt"

	"github.com/cuwacunu/tsiemene/server/dao"
	"github.com/cuwacunu/tsiemene/server/serr"
	"github.com/google/uuid"
)

// CreateRun instantiates a new Run of the given board for userID. The board
// must exist and its renderings bundle must decode cleanly; the run starts
// with an empty RunSnapshot, ready to be populated as the client drives it.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If the board does not
// exist, it will match serr.ErrNotFound. If the board's renderings bundle
// fails to decode, it will match dao.ErrDecodingFailure. If the error
// occured due to an unexpected problem with the DB, it will match
// serr.ErrDB.
func (svc Service) CreateRun(ctx context.Context, userID, boardID uuid.UUID) (dao.Run, error) {
	board, err := svc.GetBoard(ctx, boardID)
	if err != nil {
		return dao.Run{}, err
	}

	if _, err := svc.decodedBoardRenderings(ctx, board); err != nil {
		return dao.Run{}, err
	}

	run, err := svc.DB.Runs().Create(ctx, dao.Run{
		UserID:  userID,
		BoardID: boardID,
		State: &dao.RunSnapshot{
			FigureText:    map[string]string{},
			FigureLines:   map[string][]string{},
			FigureSeries0: map[string][]float64{},
			ScrollOffset:  map[string]int{},
		},
	})
	if err != nil {
		return dao.Run{}, serr.WrapDB("could not create run", err)
	}

	return run, nil
}

// GetRun returns the run with the given ID.
func (svc Service) GetRun(ctx context.Context, id uuid.UUID) (dao.Run, error) {
	run, err := svc.DB.Runs().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Run{}, serr.ErrNotFound
		}
		return dao.Run{}, serr.WrapDB("could not get run", err)
	}
	return run, nil
}

// GetAllRunsByUser returns every run owned by userID.
func (svc Service) GetAllRunsByUser(ctx context.Context, userID uuid.UUID) ([]dao.Run, error) {
	runs, err := svc.DB.Runs().GetAllByUser(ctx, userID)
	if err != nil {
		return nil, serr.WrapDB("", err)
	}
	return runs, nil
}

// DeleteRun removes a run. Its dispatch log entries are left in place for
// history/audit purposes (§4.11); they are addressed by RunID, not owned by
// the Run row itself.
func (svc Service) DeleteRun(ctx context.Context, id uuid.UUID) (dao.Run, error) {
	run, err := svc.DB.Runs().Delete(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Run{}, serr.ErrNotFound
		}
		return dao.Run{}, serr.WrapDB("could not delete run", err)
	}
	return run, nil
}

// DispatchEvent records that event was dispatched into run with the given
// human-readable payload summary, and applies the given snapshot mutation
// (the caller, which holds the live widget tree driving the run, computes
// the new figure state; this just persists it alongside the audit entry).
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If the run does not exist,
// it will match serr.ErrNotFound. If the error occured due to an unexpected
// problem with the DB, it will match serr.ErrDB.
func (svc Service) DispatchEvent(ctx context.Context, runID uuid.UUID, event, summary string, newState dao.RunSnapshot) (dao.DispatchEntry, error) {
	run, err := svc.DB.Runs().GetByID(ctx, runID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.DispatchEntry{}, serr.New(fmt.Sprintf("run %s does not exist", runID), serr.ErrNotFound)
		}
		return dao.DispatchEntry{}, serr.WrapDB("could not get run", err)
	}

	run.State = &newState
	if _, err := svc.DB.Runs().Update(ctx, run.ID, run); err != nil {
		return dao.DispatchEntry{}, serr.WrapDB("could not update run state", err)
	}

	entry, err := svc.DB.DispatchLog().Create(ctx, dao.DispatchEntry{
		RunID:   runID,
		Event:   event,
		Summary: summary,
	})
	if err != nil {
		return dao.DispatchEntry{}, serr.WrapDB("could not record dispatch entry", err)
	}

	return entry, nil
}

// GetDispatchLog returns the dispatch history for a run, optionally bounded
// to entries within a half-open time range. A nil bound is unbounded on
// that side.
func (svc Service) GetDispatchLog(ctx context.Context, runID uuid.UUID) ([]dao.DispatchEntry, error) {
	entries, err := svc.DB.DispatchLog().GetAllByRun(ctx, runID, nil, nil)
	if err != nil {
		return nil, serr.WrapDB("could not get dispatch log", err)
	}
	return entries, nil
}
