package handlers

import (
	"context"
	"net/http"
	"time"

	"mfportal/src/schemas"
)

func (h *Handler) GetAllBankAccounts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	accounts, err := h.Controller.GetAllBankAccounts(ctx)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, accounts, http.StatusOK)
}

func (h *Handler) GetBankAccountByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id, err := idParam(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	account, err := h.Controller.GetBankAccountByID(ctx, id)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, account, http.StatusOK)
}

func (h *Handler) CreateBankAccount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req schemas.CreateBankAccountRequest
	if err := decode(r, &req); err != nil {
		h.HandleErrors(w, err)
		return
	}

	account, err := h.Controller.CreateBankAccount(ctx, req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, account, http.StatusCreated)
}

func (h *Handler) UpdateBankAccount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id, err := idParam(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	var req schemas.UpdateBankAccountRequest
	if err := decode(r, &req); err != nil {
		h.HandleErrors(w, err)
		return
	}

	account, err := h.Controller.UpdateBankAccount(ctx, id, req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, account, http.StatusOK)
}

func (h *Handler) UpdateBankAccountBalance(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id, err := idParam(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	var req schemas.BalanceUpdateRequest
	if err := decode(r, &req); err != nil {
		h.HandleErrors(w, err)
		return
	}

	account, err := h.Controller.UpdateBankAccountBalance(ctx, id, req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, account, http.StatusOK)
}
