// Package cache wraps repositories with a read-through TTL cache. Only the
// chef catalog is cached: it is read on every draft screen but changes only
// when a week is scored.
package cache

import (
	"context"

	"github.com/plated-dev/chef-league/internal/domain/chef"
	platformcache "github.com/plated-dev/chef-league/internal/platform/cache"
)

const (
	chefListKey     = "chefs:list"
	chefByIDKeyPref = "chefs:id:"
)

type ChefRepository struct {
	inner chef.Repository
	store *platformcache.Store
}

func NewChefRepository(inner chef.Repository, store *platformcache.Store) *ChefRepository {
	return &ChefRepository{inner: inner, store: store}
}

func (r *ChefRepository) List(ctx context.Context) ([]chef.Chef, error) {
	if cached, ok := r.store.Get(ctx, chefListKey); ok {
		if chefs, ok := cached.([]chef.Chef); ok {
			return chefs, nil
		}
	}

	chefs, err := r.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	r.store.Set(ctx, chefListKey, chefs)

	return chefs, nil
}

func (r *ChefRepository) GetByID(ctx context.Context, chefID string) (chef.Chef, bool, error) {
	key := chefByIDKeyPref + chefID
	if cached, ok := r.store.Get(ctx, key); ok {
		if c, ok := cached.(chef.Chef); ok {
			return c, true, nil
		}
	}

	c, exists, err := r.inner.GetByID(ctx, chefID)
	if err != nil || !exists {
		return chef.Chef{}, exists, err
	}
	r.store.Set(ctx, key, c)

	return c, true, nil
}

func (r *ChefRepository) Update(ctx context.Context, c chef.Chef) error {
	if err := r.inner.Update(ctx, c); err != nil {
		return err
	}

	r.store.Delete(ctx, chefListKey)
	r.store.Delete(ctx, chefByIDKeyPref+c.ID)

	return nil
}
