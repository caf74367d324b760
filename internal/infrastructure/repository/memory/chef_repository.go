package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/plated-dev/chef-league/internal/domain/chef"
)

type ChefRepository struct {
	mu    sync.RWMutex
	items map[string]chef.Chef
}

func NewChefRepository(chefs []chef.Chef) *ChefRepository {
	items := make(map[string]chef.Chef, len(chefs))
	for _, c := range chefs {
		items[c.ID] = cloneChef(c)
	}
	return &ChefRepository{items: items}
}

func (r *ChefRepository) List(_ context.Context) ([]chef.Chef, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]chef.Chef, 0, len(r.items))
	for _, c := range r.items {
		out = append(out, cloneChef(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}

func (r *ChefRepository) GetByID(_ context.Context, chefID string) (chef.Chef, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[chefID]
	if !ok {
		return chef.Chef{}, false, nil
	}

	return cloneChef(c), true, nil
}

func (r *ChefRepository) Update(_ context.Context, c chef.Chef) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[c.ID]; !ok {
		return fmt.Errorf("chef %s not found", c.ID)
	}
	r.items[c.ID] = cloneChef(c)

	return nil
}

func cloneChef(c chef.Chef) chef.Chef {
	out := c
	out.Weekly = make([]chef.WeeklyPerformance, len(c.Weekly))
	for i, entry := range c.Weekly {
		ce := entry
		ce.Highlights = append([]string(nil), entry.Highlights...)
		if entry.Rank != nil {
			rank := *entry.Rank
			ce.Rank = &rank
		}
		out.Weekly[i] = ce
	}
	if c.EliminationWeek != nil {
		week := *c.EliminationWeek
		out.EliminationWeek = &week
	}
	return out
}
