package inmem

import (
	"context"
	"fmt"
	"time"

	"github.com/cuwacunu/tsiemene/internal/util"
	"github.com/cuwacunu/tsiemene/server/dao"
	"github.com/google/uuid"
)

func NewRunsRepository() *RunsRepository {
	return &RunsRepository{
		runs:           make(map[uuid.UUID]dao.Run),
		byUserIDIndex:  make(map[uuid.UUID][]uuid.UUID),
		byBoardIDIndex: make(map[uuid.UUID][]uuid.UUID),
	}
}

type RunsRepository struct {
	runs           map[uuid.UUID]dao.Run
	byUserIDIndex  map[uuid.UUID][]uuid.UUID
	byBoardIDIndex map[uuid.UUID][]uuid.UUID
}

func (r *RunsRepository) Close() error { return nil }

func (r *RunsRepository) Create(ctx context.Context, run dao.Run) (dao.Run, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Run{}, fmt.Errorf("could not generate ID: %w", err)
	}

	run.ID = newUUID
	run.Created = time.Now()

	r.runs[run.ID] = run
	r.byUserIDIndex[run.UserID] = append(r.byUserIDIndex[run.UserID], run.ID)
	r.byBoardIDIndex[run.BoardID] = append(r.byBoardIDIndex[run.BoardID], run.ID)

	return run, nil
}

func (r *RunsRepository) GetAll(ctx context.Context) ([]dao.Run, error) {
	all := make([]dao.Run, 0, len(r.runs))
	for k := range r.runs {
		all = append(all, r.runs[k])
	}

	all = util.SortBy(all, func(l, rt dao.Run) bool {
		return l.ID.String() < rt.ID.String()
	})

	return all, nil
}

func (r *RunsRepository) GetAllByUser(ctx context.Context, id uuid.UUID) ([]dao.Run, error) {
	byUser := r.byUserIDIndex[id]
	if len(byUser) < 1 {
		return nil, dao.ErrNotFound
	}

	all := make([]dao.Run, len(byUser))
	for i := range byUser {
		all[i] = r.runs[byUser[i]]
	}

	all = util.SortBy(all, func(l, rt dao.Run) bool {
		return l.ID.String() < rt.ID.String()
	})

	return all, nil
}

func (r *RunsRepository) GetAllByBoard(ctx context.Context, id uuid.UUID) ([]dao.Run, error) {
	byBoard := r.byBoardIDIndex[id]
	if len(byBoard) < 1 {
		return nil, dao.ErrNotFound
	}

	all := make([]dao.Run, len(byBoard))
	for i := range byBoard {
		all[i] = r.runs[byBoard[i]]
	}

	all = util.SortBy(all, func(l, rt dao.Run) bool {
		return l.ID.String() < rt.ID.String()
	})

	return all, nil
}

func (r *RunsRepository) Update(ctx context.Context, id uuid.UUID, run dao.Run) (dao.Run, error) {
	existing, ok := r.runs[id]
	if !ok {
		return dao.Run{}, dao.ErrNotFound
	}

	if run.ID != id {
		if _, ok := r.runs[run.ID]; ok {
			return dao.Run{}, dao.ErrConstraintViolation
		}
	}

	r.runs[run.ID] = run
	if run.ID != id {
		delete(r.runs, id)

		if existing.UserID == run.UserID {
			byUser := r.byUserIDIndex[existing.UserID]
			pos := util.SliceIndexOf(id, byUser)
			if pos >= 0 {
				byUser[pos] = run.ID
				r.byUserIDIndex[existing.UserID] = byUser
			}
		}
		if existing.BoardID == run.BoardID {
			byBoard := r.byBoardIDIndex[existing.BoardID]
			pos := util.SliceIndexOf(id, byBoard)
			if pos >= 0 {
				byBoard[pos] = run.ID
				r.byBoardIDIndex[existing.BoardID] = byBoard
			}
		}
	}

	if run.UserID != existing.UserID {
		byUser := r.byUserIDIndex[existing.UserID]
		updated := util.SliceRemove(existing.ID, byUser)
		r.byUserIDIndex[existing.UserID] = updated
		if len(updated) < 1 {
			delete(r.byUserIDIndex, existing.UserID)
		}
		r.byUserIDIndex[run.UserID] = append(r.byUserIDIndex[run.UserID], run.ID)
	}

	if run.BoardID != existing.BoardID {
		byBoard := r.byBoardIDIndex[existing.BoardID]
		updated := util.SliceRemove(existing.ID, byBoard)
		r.byBoardIDIndex[existing.BoardID] = updated
		if len(updated) < 1 {
			delete(r.byBoardIDIndex, existing.BoardID)
		}
		r.byBoardIDIndex[run.BoardID] = append(r.byBoardIDIndex[run.BoardID], run.ID)
	}

	return run, nil
}

func (r *RunsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Run, error) {
	run, ok := r.runs[id]
	if !ok {
		return dao.Run{}, dao.ErrNotFound
	}

	return run, nil
}

func (r *RunsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Run, error) {
	run, ok := r.runs[id]
	if !ok {
		return dao.Run{}, dao.ErrNotFound
	}

	byUser := r.byUserIDIndex[run.UserID]
	userUpdated := util.SliceRemove(run.ID, byUser)
	r.byUserIDIndex[run.UserID] = userUpdated
	if len(userUpdated) < 1 {
		delete(r.byUserIDIndex, run.UserID)
	}

	byBoard := r.byBoardIDIndex[run.BoardID]
	boardUpdated := util.SliceRemove(run.ID, byBoard)
	r.byBoardIDIndex[run.BoardID] = boardUpdated
	if len(boardUpdated) < 1 {
		delete(r.byBoardIDIndex, run.BoardID)
	}

	delete(r.runs, run.ID)

	return run, nil
}
