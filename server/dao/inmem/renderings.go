package inmem

import (
	"context"
	"fmt"

	"github.com/cuwacunu/tsiemene/server/dao"
	"github.com/google/uuid"
)

func NewRenderingsRepository() *RenderingsRepository {
	return &RenderingsRepository{
		bundles: make(map[uuid.UUID]dao.RenderingsBundle),
	}
}

type RenderingsRepository struct {
	bundles map[uuid.UUID]dao.RenderingsBundle
}

func (r *RenderingsRepository) Close() error { return nil }

func (r *RenderingsRepository) Create(ctx context.Context, rb dao.RenderingsBundle) (dao.RenderingsBundle, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.RenderingsBundle{}, fmt.Errorf("could not generate ID: %w", err)
	}

	rb.ID = newUUID
	r.bundles[rb.ID] = rb

	return rb, nil
}

func (r *RenderingsRepository) Update(ctx context.Context, id uuid.UUID, rb dao.RenderingsBundle) (dao.RenderingsBundle, error) {
	_, ok := r.bundles[id]
	if !ok {
		return dao.RenderingsBundle{}, dao.ErrNotFound
	}

	if rb.ID != id {
		if _, ok := r.bundles[rb.ID]; ok {
			return dao.RenderingsBundle{}, dao.ErrConstraintViolation
		}
	}

	r.bundles[rb.ID] = rb
	if rb.ID != id {
		delete(r.bundles, id)
	}

	return rb, nil
}

func (r *RenderingsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.RenderingsBundle, error) {
	rb, ok := r.bundles[id]
	if !ok {
		return dao.RenderingsBundle{}, dao.ErrNotFound
	}

	return rb, nil
}

func (r *RenderingsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.RenderingsBundle, error) {
	rb, ok := r.bundles[id]
	if !ok {
		return dao.RenderingsBundle{}, dao.ErrNotFound
	}

	delete(r.bundles, rb.ID)

	return rb, nil
}
