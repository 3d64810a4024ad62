package notifier

import (
	"github.com/claves/redmine-messenger/internal/types"
	"github.com/claves/redmine-messenger/internal/util"
)

// UserResolver maps a user to their mention token. Satisfied by
// *mention.Resolver.
type UserResolver interface {
	Resolve(u types.User) string
}

// Recipients computes the destination channels for an event and applies
// the policy gates, in order: configured channels plus direct-message
// mention tokens of the notified users (never the actor), then the
// channel/endpoint gate, the updates gate, and the two privacy gates.
// A non-empty SuppressReason means the event must not be sent.
func Recipients(ev types.Event, cfg types.ProjectConfig, resolver UserResolver) ([]string, types.SuppressReason) {
	channels := make([]string, len(cfg.Channels))
	copy(channels, cfg.Channels)

	if cfg.DirectUserMessages && resolver != nil {
		actor := ev.Actor()
		notified := util.UniqueUsers(append(append([]types.User{}, ev.NotifiedUsers...), ev.NotifiedWatchers...))
		for _, u := range notified {
			if u.Login == actor.Login {
				continue
			}
			channels = append(channels, resolver.Resolve(u))
		}
	}
	channels = util.UniqueStrings(channels)

	if len(channels) == 0 {
		return nil, types.SuppressNoChannels
	}
	if cfg.WebhookURL == "" {
		return nil, types.SuppressNoEndpoint
	}
	if ev.Kind == types.EventUpdated && !cfg.PostUpdates {
		return nil, types.SuppressUpdatesDisabled
	}
	if ev.Private && !cfg.PostPrivateIssues {
		return nil, types.SuppressPrivateIssue
	}
	if ev.Kind == types.EventUpdated && ev.Change != nil && ev.Change.PrivateNotes && !cfg.PostPrivateNotes {
		return nil, types.SuppressPrivateNotes
	}

	return channels, types.SuppressNone
}
