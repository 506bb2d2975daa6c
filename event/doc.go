// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package event is an in-process publish/subscribe bus for committed ledger
events.

The ledger publishes each event after it has been written to the journal,
in commit order. Observers such as the HTTP event stream subscribe to one
or more event types:

	bus := event.NewEventBus(prometheus.DefaultRegisterer, logger)
	id, ch := bus.Subscribe("vote.cast", "session.ended")
	defer bus.Unsubscribe(id)
	for evt := range ch {
		...
	}

Delivery never blocks the publisher. A subscriber whose buffer is full is
dropped and its channel closed; it can resubscribe and catch up from the
journal.

# Metrics

When a Prometheus registerer is supplied the bus exports
quickly_vote_events_total, quickly_vote_event_subscribers and
quickly_vote_event_delivery_errors_total, each labelled by event type.
*/
package event
