package chef

import "context"

// Repository describes chef persistence needs from use cases. Update replaces
// the whole record including weekly history; the scoring service serializes
// writers per chef, so no version token is needed here.
type Repository interface {
	List(ctx context.Context) ([]Chef, error)
	GetByID(ctx context.Context, chefID string) (Chef, bool, error)
	Update(ctx context.Context, c Chef) error
}
