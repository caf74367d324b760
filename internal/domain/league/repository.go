package league

import "context"

// Repository describes league persistence needs from use cases. Update takes
// the version the caller loaded; implementations must reject the write with
// ErrVersionConflict when the stored aggregate has moved on, which is how the
// draft path keeps its read-check-write sequence serializable per league.
type Repository interface {
	Create(ctx context.Context, l League) error
	GetByID(ctx context.Context, leagueID string) (League, bool, error)
	GetByInviteCode(ctx context.Context, inviteCode string) (League, bool, error)
	ListByUser(ctx context.Context, userID string) ([]League, error)
	ListByRosterChef(ctx context.Context, chefID string) ([]League, error)
	Update(ctx context.Context, l League, expectedVersion int64) error
}
