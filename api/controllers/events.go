package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mgiordano-dev/presupuestador-backend/api/responses"
	"github.com/mgiordano-dev/presupuestador-backend/internal/realtime"
	pkgerrors "github.com/mgiordano-dev/presupuestador-backend/pkg/errors"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/logger"
)

const eventsHeartbeatInterval = 25 * time.Second

// EventsStream serves table change events over SSE. Clients narrow the feed
// with ?table= and ?project_id= query parameters; an empty filter receives
// everything.
func EventsStream(hub *realtime.Hub, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := currentUserID(r); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		table := strings.TrimSpace(r.URL.Query().Get("table"))
		if table != "" && !realtime.KnownTable(table) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown table").WithDetails(map[string]any{"table": table}))
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported"))
			return
		}

		filter := realtime.Filter{
			Table:     table,
			ProjectID: strings.TrimSpace(r.URL.Query().Get("project_id")),
		}
		events, cancel := hub.Subscribe(filter)
		defer cancel()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		heartbeat := time.NewTicker(eventsHeartbeatInterval)
		defer heartbeat.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-heartbeat.C:
				fmt.Fprint(w, ": ping\n\n")
				flusher.Flush()
			case evt, open := <-events:
				if !open {
					return
				}
				payload, err := evt.Encode()
				if err != nil {
					if logg != nil {
						logg.Error(r.Context(), "events.encode", err)
					}
					continue
				}
				fmt.Fprintf(w, "event: change\ndata: %s\n\n", payload)
				flusher.Flush()
			}
		}
	}
}
