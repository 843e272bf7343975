package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

func (h *Handler) GetAllTransactions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	transactions, err := h.Controller.GetAllTransactions(ctx)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, transactions, http.StatusOK)
}

func (h *Handler) GetTransactionByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id, err := idParam(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	transaction, err := h.Controller.GetTransactionByID(ctx, id)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, transaction, http.StatusOK)
}

// ExportTransactions streams the caller's history as an .xlsx attachment.
func (h *Handler) ExportTransactions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	f, err := h.Controller.ExportTransactions(ctx)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("transactions_%s.xlsx", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	if err := f.Write(w); err != nil {
		h.HandleErrors(w, err)
		return
	}
}
