package register

import (
	"github.com/rs/zerolog"
)

// Log event names
const (
	EventCheckAccepted    = "check_accepted"
	EventCheckRejected    = "check_rejected"
	EventPersistenceError = "persistence_error"
	EventStateResumed     = "state_resumed"
	EventSubscribed       = "subscribed"
	EventUnsubscribed     = "unsubscribed"
)

func logCheckAccepted(logger zerolog.Logger, rec CheckEventRecord, state CheckState, pending int) {
	logger.Info().
		Str("event", EventCheckAccepted).
		Str("operation", string(rec.Operation)).
		Int64("moment", rec.Moment).
		Str("state", string(state)).
		Int("pending_sync", pending).
		Msg("Check operation accepted")
}

func logCheckRejected(logger zerolog.Logger, rec CheckEventRecord, expected CheckOperation) {
	logger.Warn().
		Str("event", EventCheckRejected).
		Str("operation", string(rec.Operation)).
		Int64("moment", rec.Moment).
		Str("expected", string(expected)).
		Msg("Check operation rejected")
}

func logPersistenceError(logger zerolog.Logger, rec CheckEventRecord, err error) {
	logger.Error().
		Str("event", EventPersistenceError).
		Str("operation", string(rec.Operation)).
		Int64("moment", rec.Moment).
		Err(err).
		Msg("Failed to persist check operation")
}

func logStateResumed(logger zerolog.Logger, rec CheckEventRecord, state CheckState) {
	logger.Debug().
		Str("event", EventStateResumed).
		Str("operation", string(rec.Operation)).
		Int64("moment", rec.Moment).
		Str("state", string(state)).
		Msg("State resumed from store")
}

func logSubscription(logger zerolog.Logger, event string, id SubscriptionID, total int) {
	logger.Debug().
		Str("event", event).
		Str("subscription_id", string(id)).
		Int("subscribers", total).
		Msg("Subscribers changed")
}
