// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package event

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EventQueueSize is the buffer of each channel subscriber.
const EventQueueSize = 64

// ErrSubscriberLagging is returned by a channel subscriber whose buffer is
// full. The bus drops such subscribers rather than block the publisher.
var ErrSubscriberLagging = errors.New("subscriber is lagging")

type EventType string

type EventSubscriberId int

type EventHandlerFunc func(Event)

type Event struct {
	Timestamp time.Time
	Data      any
	Type      EventType
}

func NewEvent(eventType EventType, eventData any) Event {
	return Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      eventData,
	}
}

// Subscriber receives events from the bus. Deliver must not block.
// Close must be idempotent.
type Subscriber interface {
	Deliver(Event) error
	Close()
}

type EventBus struct {
	subscribers map[EventType]map[EventSubscriberId]Subscriber
	metrics     *eventMetrics
	lastSubId   EventSubscriberId
	mu          sync.RWMutex
	logger      *slog.Logger
}

// NewEventBus creates an EventBus. Both arguments may be nil.
func NewEventBus(
	promRegistry prometheus.Registerer,
	logger *slog.Logger,
) *EventBus {
	if logger == nil {
		logger = slog.Default()
	}
	e := &EventBus{
		subscribers: make(map[EventType]map[EventSubscriberId]Subscriber),
		logger:      logger,
	}
	if promRegistry != nil {
		e.initMetrics(promRegistry)
	}
	return e
}

// channelSubscriber delivers into a buffered channel without blocking.
type channelSubscriber struct {
	ch     chan Event
	mu     sync.Mutex
	closed bool
}

func newChannelSubscriber(buffer int) *channelSubscriber {
	return &channelSubscriber{
		ch: make(chan Event, buffer),
	}
}

func (c *channelSubscriber) Deliver(evt Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	select {
	case c.ch <- evt:
		return nil
	default:
		return ErrSubscriberLagging
	}
}

func (c *channelSubscriber) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.ch)
}

// Subscribe returns a channel receiving events of the given types. An empty
// list is not allowed. The channel is closed on Unsubscribe, on Stop, or
// when the subscriber falls more than EventQueueSize events behind.
func (e *EventBus) Subscribe(
	eventTypes ...EventType,
) (EventSubscriberId, <-chan Event) {
	chSub := newChannelSubscriber(EventQueueSize)
	subId := e.RegisterSubscriber(chSub, eventTypes...)
	return subId, chSub.ch
}

// SubscribeFunc calls handlerFunc for each event of the given types on a
// dedicated goroutine, which exits when the subscription ends. A handler
// that panics is unsubscribed.
func (e *EventBus) SubscribeFunc(
	handlerFunc EventHandlerFunc,
	eventTypes ...EventType,
) EventSubscriberId {
	subId, evtCh := e.Subscribe(eventTypes...)
	go func(evtCh <-chan Event, handlerFunc EventHandlerFunc) {
		for evt := range evtCh {
			if err := callHandler(handlerFunc, evt); err != nil {
				e.drop(evt.Type, subId, err)
				return
			}
		}
	}(evtCh, handlerFunc)
	return subId
}

func callHandler(handlerFunc EventHandlerFunc, evt Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("subscriber handler panic: %v", r)
		}
	}()
	handlerFunc(evt)
	return nil
}

// RegisterSubscriber adds sub under every given type and returns its id.
func (e *EventBus) RegisterSubscriber(
	sub Subscriber,
	eventTypes ...EventType,
) EventSubscriberId {
	if len(eventTypes) == 0 {
		panic("event: subscriber registered without event types")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	subId := e.lastSubId + 1
	e.lastSubId = subId
	for _, eventType := range eventTypes {
		if _, ok := e.subscribers[eventType]; !ok {
			e.subscribers[eventType] = make(map[EventSubscriberId]Subscriber)
		}
		if _, dup := e.subscribers[eventType][subId]; dup {
			continue
		}
		e.subscribers[eventType][subId] = sub
		if e.metrics != nil {
			e.metrics.subscribers.WithLabelValues(string(eventType)).Inc()
		}
	}
	return subId
}

// Unsubscribe removes a subscriber from every type it was registered for
// and closes it.
func (e *EventBus) Unsubscribe(subId EventSubscriberId) {
	e.mu.Lock()
	var subToClose Subscriber
	for eventType, evtTypeSubs := range e.subscribers {
		sub, ok := evtTypeSubs[subId]
		if !ok {
			continue
		}
		subToClose = sub
		delete(evtTypeSubs, subId)
		if len(evtTypeSubs) == 0 {
			delete(e.subscribers, eventType)
		}
		if e.metrics != nil {
			e.metrics.subscribers.WithLabelValues(string(eventType)).Dec()
		}
	}
	e.mu.Unlock()

	if subToClose != nil {
		subToClose.Close()
	}
}

// Publish delivers evt to every subscriber of eventType. Subscribers that
// fail or panic are unsubscribed.
func (e *EventBus) Publish(eventType EventType, evt Event) {
	e.mu.RLock()
	subs := e.subscribers[eventType]
	type subItem struct {
		id  EventSubscriberId
		sub Subscriber
	}
	subList := make([]subItem, 0, len(subs))
	for id, sub := range subs {
		subList = append(subList, subItem{id: id, sub: sub})
	}
	e.mu.RUnlock()

	for _, item := range subList {
		var deliverErr error
		func() {
			defer func() {
				if r := recover(); r != nil {
					deliverErr = fmt.Errorf("subscriber deliver panic: %v", r)
				}
			}()
			deliverErr = item.sub.Deliver(evt)
		}()

		if deliverErr != nil {
			e.drop(eventType, item.id, deliverErr)
		}
	}
	if e.metrics != nil {
		e.metrics.eventsTotal.WithLabelValues(string(eventType)).Inc()
	}
}

// drop unsubscribes a subscriber that failed on an event of eventType.
func (e *EventBus) drop(eventType EventType, subId EventSubscriberId, err error) {
	e.Unsubscribe(subId)
	if e.metrics != nil {
		e.metrics.deliveryErrors.WithLabelValues(string(eventType)).Inc()
	}
	e.logger.Debug(
		"event delivery error",
		"type", eventType,
		"subscriber", subId,
		"error", err,
	)
}

// Stop closes all subscribers. The bus stays usable afterwards.
func (e *EventBus) Stop() {
	e.mu.Lock()
	subsCopy := e.subscribers
	e.subscribers = make(map[EventType]map[EventSubscriberId]Subscriber)
	e.mu.Unlock()

	for _, evtTypeSubs := range subsCopy {
		for _, sub := range evtTypeSubs {
			sub.Close()
		}
	}

	if e.metrics != nil {
		e.metrics.subscribers.Reset()
	}
}
