// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-vote/event"
	"github.com/danielhkuo/quickly-vote/journal"
	"github.com/danielhkuo/quickly-vote/ledger"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
)

// keepaliveInterval is how often an idle stream receives a comment line.
const keepaliveInterval = 15 * time.Second

type EventHandler struct {
	store *journal.Store
	bus   *event.EventBus
}

func NewEventHandler(store *journal.Store, bus *event.EventBus) *EventHandler {
	return &EventHandler{store: store, bus: bus}
}

// ListEvents handles GET /events
// Query parameters: after, limit, session, type.
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var (
		query journal.Query
		err   error
	)

	if v := q.Get("after"); v != "" {
		if query.After, err = strconv.ParseUint(v, 10, 64); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "invalid after")
			return
		}
	}
	if v := q.Get("limit"); v != "" {
		if query.Limit, err = strconv.Atoi(v); err != nil || query.Limit < 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "invalid limit")
			return
		}
	}
	if v := q.Get("session"); v != "" {
		if query.SessionID, err = strconv.ParseUint(v, 10, 64); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "invalid session")
			return
		}
	}
	if v := q.Get("type"); v != "" {
		query.Type = ledger.EventType(v)
		if !ledger.KnownEventType(query.Type) {
			middleware.ErrorResponse(w, http.StatusBadRequest, "unknown event type: "+v)
			return
		}
	}

	events, err := h.store.List(r.Context(), query)
	if err != nil {
		slog.Error("failed to list events", "error", err, "request_id", middleware.RequestID(r.Context()))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to list events")
		return
	}

	next := query.After
	if len(events) > 0 {
		next = events[len(events)-1].Seq
	}
	middleware.JSONResponse(w, http.StatusOK, models.EventListResponse{
		Events:    events,
		NextAfter: next,
	})
}

// Stream handles GET /events/stream
// Committed events are pushed as Server-Sent Events until the client goes
// away. ?type= may be repeated or comma separated; it defaults to all types.
func (h *EventHandler) Stream(w http.ResponseWriter, r *http.Request) {
	types, ok := streamTypes(w, r)
	if !ok {
		return
	}

	id, ch := h.bus.Subscribe(types...)
	defer h.bus.Unsubscribe(id)

	rc := http.NewResponseController(w)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		slog.Warn("event stream cannot flush", "error", err)
		return
	}

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepalive.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return
			}
		case evt, open := <-ch:
			if !open {
				// Dropped for lagging or the bus stopped; the client
				// reconnects and resumes from the journal.
				return
			}
			if err := writeSSE(w, evt); err != nil {
				slog.Debug("event stream write failed", "error", err)
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func streamTypes(w http.ResponseWriter, r *http.Request) ([]event.EventType, bool) {
	var types []event.EventType
	for _, raw := range r.URL.Query()["type"] {
		for _, name := range strings.Split(raw, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if !ledger.KnownEventType(ledger.EventType(name)) {
				middleware.ErrorResponse(w, http.StatusBadRequest, "unknown event type: "+name)
				return nil, false
			}
			types = append(types, event.EventType(name))
		}
	}
	if len(types) == 0 {
		for _, t := range ledger.EventTypes {
			types = append(types, event.EventType(t))
		}
	}
	return types, true
}

func writeSSE(w http.ResponseWriter, evt event.Event) error {
	data, err := json.Marshal(evt.Data)
	if err != nil {
		return err
	}
	var seq uint64
	if le, ok := evt.Data.(ledger.Event); ok {
		seq = le.Seq
	}
	_, err = fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", seq, evt.Type, data)
	return err
}
