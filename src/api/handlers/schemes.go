package handlers

import (
	"context"
	"net/http"
	"time"

	"mfportal/src/schemas"
)

func (h *Handler) GetAllSchemes(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	schemes, err := h.Controller.GetAllSchemes(ctx)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, schemes, http.StatusOK)
}

func (h *Handler) GetSchemeByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id, err := idParam(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	scheme, err := h.Controller.GetSchemeByID(ctx, id)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, scheme, http.StatusOK)
}

func (h *Handler) CreateScheme(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req schemas.CreateSchemeRequest
	if err := decode(r, &req); err != nil {
		h.HandleErrors(w, err)
		return
	}

	scheme, err := h.Controller.CreateScheme(ctx, req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, scheme, http.StatusCreated)
}

func (h *Handler) UpdateScheme(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id, err := idParam(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	var req schemas.UpdateSchemeRequest
	if err := decode(r, &req); err != nil {
		h.HandleErrors(w, err)
		return
	}

	scheme, err := h.Controller.UpdateScheme(ctx, id, req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, scheme, http.StatusOK)
}

func (h *Handler) UpdateSchemeNAV(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id, err := idParam(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	var req schemas.NAVUpdateRequest
	if err := decode(r, &req); err != nil {
		h.HandleErrors(w, err)
		return
	}

	scheme, err := h.Controller.UpdateSchemeNAV(ctx, id, req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, scheme, http.StatusOK)
}

func (h *Handler) DeleteScheme(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id, err := idParam(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	if err := h.Controller.DeleteScheme(ctx, id); err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, nil, http.StatusNoContent)
}
