package announce

import (
	"context"
	"strings"

	"github.com/plated-dev/chef-league/internal/domain/event"
	"github.com/plated-dev/chef-league/internal/platform/logging"
)

// LogAnnouncer writes announcements to the structured log. It is the
// default transport for local development and for deployments that have
// no realtime channel configured.
type LogAnnouncer struct {
	logger *logging.Logger
}

func NewLogAnnouncer(logger *logging.Logger) *LogAnnouncer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &LogAnnouncer{logger: logger}
}

func (a *LogAnnouncer) Announce(ctx context.Context, topic event.Topic, payload event.Payload) {
	a.logger.InfoContext(ctx, "announce",
		"topic", string(topic),
		"league_id", payload.LeagueID,
		"chef_id", payload.ChefID,
		"changed_fields", strings.Join(payload.ChangedFields, ","),
	)
}
