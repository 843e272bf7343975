package handlers

import (
	"context"
	"net/http"
	"time"

	"mfportal/src/schemas"
)

// PurchaseMutualFund answers 201 with the allotment, the remaining balance,
// the recorded transaction and the updated position.
func (h *Handler) PurchaseMutualFund(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req schemas.PurchaseRequest
	if err := decode(r, &req); err != nil {
		h.HandleErrors(w, err)
		return
	}

	result, err := h.Controller.PurchaseMutualFund(ctx, req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, result, http.StatusCreated)
}
