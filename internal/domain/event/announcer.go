package event

import "context"

// Topic names a state change the core wants fanned out to clients.
type Topic string

const (
	TopicLeagueMembersChanged    Topic = "league.members_changed"
	TopicLeagueDraftOrderChanged Topic = "league.draft_order_changed"
	TopicLeagueScoreChanged      Topic = "league.score_changed"
	TopicChefUpdated             Topic = "chef.updated"
)

// Payload identifies the changed entity and which fields moved.
type Payload struct {
	LeagueID      string   `json:"league_id,omitempty"`
	ChefID        string   `json:"chef_id,omitempty"`
	ChangedFields []string `json:"changed_fields"`
}

// Announcer is the boundary to the real-time fan-out transport. Announce is
// fire-and-forget: delivery guarantees and retries belong to the transport,
// not the core.
type Announcer interface {
	Announce(ctx context.Context, topic Topic, payload Payload)
}
