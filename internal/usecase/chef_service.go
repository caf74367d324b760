package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/plated-dev/chef-league/internal/domain/chef"
)

type ChefService struct {
	chefRepo chef.Repository
}

func NewChefService(chefRepo chef.Repository) *ChefService {
	return &ChefService{chefRepo: chefRepo}
}

func (s *ChefService) ListChefs(ctx context.Context, status string) ([]chef.Chef, error) {
	ctx, span := startUsecaseSpan(ctx, "ChefService.ListChefs")
	defer span.End()

	status = strings.TrimSpace(status)
	if status != "" {
		switch chef.Status(status) {
		case chef.StatusActive, chef.StatusEliminated, chef.StatusWinner:
		default:
			return nil, fmt.Errorf("%w: unknown chef status %q", ErrInvalidInput, status)
		}
	}

	chefs, err := s.chefRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list chefs: %w", err)
	}
	if status == "" {
		return chefs, nil
	}

	filtered := make([]chef.Chef, 0, len(chefs))
	for _, c := range chefs {
		if c.Status == chef.Status(status) {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

func (s *ChefService) GetChef(ctx context.Context, chefID string) (chef.Chef, error) {
	ctx, span := startUsecaseSpan(ctx, "ChefService.GetChef")
	defer span.End()

	chefID = strings.TrimSpace(chefID)
	if chefID == "" {
		return chef.Chef{}, fmt.Errorf("%w: chef id is required", ErrInvalidInput)
	}

	c, exists, err := s.chefRepo.GetByID(ctx, chefID)
	if err != nil {
		return chef.Chef{}, fmt.Errorf("get chef by id: %w", err)
	}
	if !exists {
		return chef.Chef{}, fmt.Errorf("%w: chef=%s", ErrNotFound, chefID)
	}

	return c, nil
}
