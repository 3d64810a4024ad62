// Package api provides the HTTP event intake for the messenger daemon.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/claves/redmine-messenger/internal/config"
	"github.com/claves/redmine-messenger/internal/types"
)

const dispatchTimeout = 60 * time.Second

// Dispatcher is the assembler surface the intake needs.
// Satisfied by *notifier.Assembler.
type Dispatcher interface {
	OnCreated(ctx context.Context, ev types.Event, cfg types.ProjectConfig) (types.Outcome, error)
	OnUpdated(ctx context.Context, ev types.Event, cfg types.ProjectConfig) (types.Outcome, error)
}

// EventsHandler accepts issue events over HTTP and hands them to the
// assembler. Delivery runs after the request is acknowledged: the tracker
// posts events post-commit and must never block on, or fail because of,
// the notification path.
type EventsHandler struct {
	logger     *zap.Logger
	dispatcher Dispatcher
	projects   *config.Projects

	// sync forces in-request dispatch; tests use it to observe outcomes.
	sync bool
}

// EventsHandlerOptions configures the EventsHandler.
type EventsHandlerOptions struct {
	// SyncDispatch runs delivery inside the request instead of a
	// background goroutine.
	SyncDispatch bool
}

// NewEventsHandler creates an EventsHandler.
func NewEventsHandler(logger *zap.Logger, dispatcher Dispatcher, projects *config.Projects, opts EventsHandlerOptions) *EventsHandler {
	return &EventsHandler{
		logger:     logger.Named("intake"),
		dispatcher: dispatcher,
		projects:   projects,
		sync:       opts.SyncDispatch,
	}
}

// Register installs the intake routes on mux.
func (h *EventsHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/events/created", h.handle(types.EventCreated))
	mux.HandleFunc("POST /api/v1/events/updated", h.handle(types.EventUpdated))
}

type acceptedResponse struct {
	Status  string `json:"status"`
	Project string `json:"project"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *EventsHandler) handle(kind types.EventKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ev types.Event
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid event body: " + err.Error()})
			return
		}
		ev.Kind = kind

		cfg, ok := h.projects.Get(ev.Project.Identifier)
		if !ok {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown project: " + ev.Project.Identifier})
			return
		}

		if h.sync {
			h.dispatch(context.Background(), ev, cfg)
		} else {
			go h.dispatch(context.Background(), ev, cfg)
		}

		writeJSON(w, http.StatusAccepted, acceptedResponse{Status: "accepted", Project: ev.Project.Identifier})
	}
}

// dispatch runs one delivery. Errors are logged, never surfaced to the
// event source: the notification path is fire-and-forget relative to the
// tracker's own transaction.
func (h *EventsHandler) dispatch(ctx context.Context, ev types.Event, cfg types.ProjectConfig) {
	ctx, cancel := context.WithTimeout(ctx, dispatchTimeout)
	defer cancel()

	var err error
	if ev.Kind == types.EventUpdated {
		_, err = h.dispatcher.OnUpdated(ctx, ev, cfg)
	} else {
		_, err = h.dispatcher.OnCreated(ctx, ev, cfg)
	}
	if err != nil {
		h.logger.Error("Event delivery failed",
			zap.String("project", ev.Project.Identifier),
			zap.Int64("issue", ev.ID),
			zap.String("kind", string(ev.Kind)),
			zap.Error(err),
		)
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
