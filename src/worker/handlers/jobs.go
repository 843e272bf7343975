package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"mfportal/src/services"
)

// RunNAVSync triggers a feed pull outside the schedule.
func (h *Handler) RunNAVSync(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	result, err := h.Controller.RunNAVSync(ctx)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, result, http.StatusOK)
}

// RunSnapshots records snapshots for ?date=YYYY-MM-DD, today (UTC) by default.
func (h *Handler) RunSnapshots(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	day := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			h.HandleErrors(w, services.ValidationError(services.ReasonInvalidRequest, fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD.", raw)))
			return
		}
		day = parsed
	}

	result, err := h.Controller.RunSnapshots(ctx, day)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, result, http.StatusOK)
}
