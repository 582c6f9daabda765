package inmem

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cuwacunu/tsiemene/internal/util"
	"github.com/cuwacunu/tsiemene/server/dao"
	"github.com/google/uuid"
)

// NewDispatchLogRepository creates a new dispatch-log repo. If runRepo is not
// provided, GetAllByUser() will always return nil.
func NewDispatchLogRepository(runRepo dao.RunRepository) *DispatchLogRepository {
	return &DispatchLogRepository{
		runRepo:      runRepo,
		entries:      make(map[uuid.UUID]dao.DispatchEntry),
		byRunIDIndex: make(map[uuid.UUID][]uuid.UUID),
	}
}

type DispatchLogRepository struct {
	entries      map[uuid.UUID]dao.DispatchEntry
	runRepo      dao.RunRepository
	byRunIDIndex map[uuid.UUID][]uuid.UUID
}

func (r *DispatchLogRepository) Close() error { return nil }

func (r *DispatchLogRepository) Create(ctx context.Context, e dao.DispatchEntry) (dao.DispatchEntry, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.DispatchEntry{}, fmt.Errorf("could not generate ID: %w", err)
	}

	e.ID = newUUID
	e.Created = time.Now()

	if r.runRepo != nil {
		if _, err := r.runRepo.GetByID(ctx, e.RunID); err != nil {
			if errors.Is(err, dao.ErrNotFound) {
				return dao.DispatchEntry{}, dao.ErrConstraintViolation
			}
			return dao.DispatchEntry{}, err
		}
	}

	r.entries[e.ID] = e
	r.byRunIDIndex[e.RunID] = append(r.byRunIDIndex[e.RunID], e.ID)

	return e, nil
}

func (r *DispatchLogRepository) GetAll(ctx context.Context, notBefore, notAfter *time.Time) ([]dao.DispatchEntry, error) {
	all := make([]dao.DispatchEntry, 0, len(r.entries))
	for k := range r.entries {
		all = append(all, r.entries[k])
	}
	all = filterByTime(all, notBefore, notAfter)

	all = util.SortBy(all, func(l, rt dao.DispatchEntry) bool {
		return l.ID.String() < rt.ID.String()
	})

	return all, nil
}

func (r *DispatchLogRepository) GetAllByUser(ctx context.Context, id uuid.UUID, notBefore, notAfter *time.Time) ([]dao.DispatchEntry, error) {
	if r.runRepo == nil {
		return nil, nil
	}

	userRuns, err := r.runRepo.GetAllByUser(ctx, id)
	if err != nil {
		return nil, err
	}

	var all []dao.DispatchEntry
	for _, run := range userRuns {
		runEntries, err := r.GetAllByRun(ctx, run.ID, notBefore, notAfter)
		if err != nil && !errors.Is(err, dao.ErrNotFound) {
			return nil, err
		}
		all = append(all, runEntries...)
	}

	return all, nil
}

func (r *DispatchLogRepository) GetAllByRun(ctx context.Context, id uuid.UUID, notBefore, notAfter *time.Time) ([]dao.DispatchEntry, error) {
	byRun := r.byRunIDIndex[id]
	if len(byRun) < 1 {
		return nil, dao.ErrNotFound
	}

	all := make([]dao.DispatchEntry, len(byRun))
	for i := range byRun {
		all[i] = r.entries[byRun[i]]
	}
	all = filterByTime(all, notBefore, notAfter)

	all = util.SortBy(all, func(l, rt dao.DispatchEntry) bool {
		return l.ID.String() < rt.ID.String()
	})

	return all, nil
}

func filterByTime(entries []dao.DispatchEntry, notBefore, notAfter *time.Time) []dao.DispatchEntry {
	if notBefore == nil && notAfter == nil {
		return entries
	}

	filtered := make([]dao.DispatchEntry, 0, len(entries))
	for _, e := range entries {
		if notBefore != nil && e.Created.Before(*notBefore) {
			continue
		}
		if notAfter != nil && e.Created.After(*notAfter) {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

func (r *DispatchLogRepository) Update(ctx context.Context, id uuid.UUID, e dao.DispatchEntry) (dao.DispatchEntry, error) {
	existing, ok := r.entries[id]
	if !ok {
		return dao.DispatchEntry{}, dao.ErrNotFound
	}

	if e.ID != id {
		if _, ok := r.entries[e.ID]; ok {
			return dao.DispatchEntry{}, dao.ErrConstraintViolation
		}
	}

	r.entries[e.ID] = e
	if e.ID != id {
		delete(r.entries, id)

		if existing.RunID == e.RunID {
			byRun := r.byRunIDIndex[existing.RunID]
			pos := util.SliceIndexOf(id, byRun)
			if pos >= 0 {
				byRun[pos] = e.ID
				r.byRunIDIndex[existing.RunID] = byRun
			}
		}
	}

	if e.RunID != existing.RunID {
		byRun := r.byRunIDIndex[existing.RunID]
		updated := util.SliceRemove(existing.ID, byRun)
		r.byRunIDIndex[existing.RunID] = updated
		if len(updated) < 1 {
			delete(r.byRunIDIndex, existing.RunID)
		}
		r.byRunIDIndex[e.RunID] = append(r.byRunIDIndex[e.RunID], e.ID)
	}

	return e, nil
}

func (r *DispatchLogRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.DispatchEntry, error) {
	e, ok := r.entries[id]
	if !ok {
		return dao.DispatchEntry{}, dao.ErrNotFound
	}

	return e, nil
}

func (r *DispatchLogRepository) Delete(ctx context.Context, id uuid.UUID) (dao.DispatchEntry, error) {
	e, ok := r.entries[id]
	if !ok {
		return dao.DispatchEntry{}, dao.ErrNotFound
	}

	byRun := r.byRunIDIndex[e.RunID]
	updated := util.SliceRemove(e.ID, byRun)
	r.byRunIDIndex[e.RunID] = updated
	if len(updated) < 1 {
		delete(r.byRunIDIndex, e.RunID)
	}

	delete(r.entries, e.ID)

	return e, nil
}
