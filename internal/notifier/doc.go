// Package notifier is the notification dispatch core: it turns issue
// lifecycle events into chat webhook messages.
//
// The flow per event is strictly synchronous and stateless:
//
//	Event → Recipients (channels + policy gates)
//	      → FieldBuilder / format (content)
//	      → Assembler (payload)
//	      → Sender (delivery)
//
// Suppression is policy, not failure: a gated event produces an Outcome
// with a reason and no error. Only a sink failure surfaces as an error,
// and it is propagated to the caller without retry — retry policy lives
// inside the Sender.
package notifier
