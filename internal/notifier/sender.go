package notifier

import (
	"context"

	"github.com/claves/redmine-messenger/internal/types"
)

// Sender is the delivery sink. The assembler invokes it at most once per
// non-suppressed event and propagates its result unchanged; retry and
// backoff policy live behind this interface, never in the assembler.
type Sender interface {
	// Name returns the sink's identifier (e.g., "webhook").
	Name() string

	// Send delivers an assembled payload to every destination channel.
	Send(ctx context.Context, p types.Payload) error
}
