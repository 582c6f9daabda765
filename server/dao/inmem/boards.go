package inmem

import (
	"context"
	"fmt"
	"time"

	"github.com/cuwacunu/tsiemene/internal/util"
	"github.com/cuwacunu/tsiemene/server/dao"
	"github.com/google/uuid"
)

func NewBoardsRepository() *BoardsRepository {
	return &BoardsRepository{
		boards:        make(map[uuid.UUID]dao.Board),
		byUserIDIndex: make(map[uuid.UUID][]uuid.UUID),
	}
}

type BoardsRepository struct {
	boards        map[uuid.UUID]dao.Board
	byUserIDIndex map[uuid.UUID][]uuid.UUID
}

func (r *BoardsRepository) Close() error { return nil }

func (r *BoardsRepository) Create(ctx context.Context, b dao.Board) (dao.Board, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Board{}, fmt.Errorf("could not generate ID: %w", err)
	}

	now := time.Now()
	b.ID = newUUID
	b.Created = now
	b.Modified = now

	r.boards[b.ID] = b
	r.byUserIDIndex[b.UserID] = append(r.byUserIDIndex[b.UserID], b.ID)

	return b, nil
}

func (r *BoardsRepository) GetAll(ctx context.Context) ([]dao.Board, error) {
	all := make([]dao.Board, 0, len(r.boards))
	for k := range r.boards {
		all = append(all, r.boards[k])
	}

	all = util.SortBy(all, func(l, rt dao.Board) bool {
		return l.ID.String() < rt.ID.String()
	})

	return all, nil
}

func (r *BoardsRepository) GetAllByUser(ctx context.Context, id uuid.UUID) ([]dao.Board, error) {
	byUser := r.byUserIDIndex[id]
	if len(byUser) < 1 {
		return nil, dao.ErrNotFound
	}

	all := make([]dao.Board, len(byUser))
	for i := range byUser {
		all[i] = r.boards[byUser[i]]
	}

	all = util.SortBy(all, func(l, rt dao.Board) bool {
		return l.ID.String() < rt.ID.String()
	})

	return all, nil
}

func (r *BoardsRepository) Update(ctx context.Context, id uuid.UUID, b dao.Board) (dao.Board, error) {
	existing, ok := r.boards[id]
	if !ok {
		return dao.Board{}, dao.ErrNotFound
	}

	if b.ID != id {
		if _, ok := r.boards[b.ID]; ok {
			return dao.Board{}, dao.ErrConstraintViolation
		}
	}

	r.boards[b.ID] = b
	if b.ID != id {
		delete(r.boards, id)

		if existing.UserID == b.UserID {
			byUser := r.byUserIDIndex[existing.UserID]
			pos := util.SliceIndexOf(id, byUser)
			if pos < 0 {
				return dao.Board{}, fmt.Errorf("DB ASSERTION FAILURE: missing index entry for user %s to board %s", existing.UserID, existing.ID)
			}
			byUser[pos] = b.ID
			r.byUserIDIndex[existing.UserID] = byUser
		}
	}

	if b.UserID != existing.UserID {
		byUser := r.byUserIDIndex[existing.UserID]
		updated := util.SliceRemove(existing.ID, byUser)
		r.byUserIDIndex[existing.UserID] = updated
		if len(updated) < 1 {
			delete(r.byUserIDIndex, existing.UserID)
		}

		r.byUserIDIndex[b.UserID] = append(r.byUserIDIndex[b.UserID], b.ID)
	}

	return b, nil
}

func (r *BoardsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Board, error) {
	b, ok := r.boards[id]
	if !ok {
		return dao.Board{}, dao.ErrNotFound
	}

	return b, nil
}

func (r *BoardsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Board, error) {
	b, ok := r.boards[id]
	if !ok {
		return dao.Board{}, dao.ErrNotFound
	}

	byUser := r.byUserIDIndex[b.UserID]
	updated := util.SliceRemove(b.ID, byUser)
	r.byUserIDIndex[b.UserID] = updated
	if len(updated) < 1 {
		delete(r.byUserIDIndex, b.UserID)
	}
	delete(r.boards, b.ID)

	return b, nil
}
