package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/evgeniy-krivenko/notes-web/internal/ctxauth"
	"github.com/evgeniy-krivenko/notes-web/internal/entity"
)

type authUsecase interface {
	Register(ctx context.Context, email, password, name string) (entity.User, string, error)
	Login(ctx context.Context, email, password string) (entity.User, string, error)
	Profile(ctx context.Context, userID uuid.UUID) (entity.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, name string) (entity.User, error)
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,max=255"`
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	if err := validateStruct(req); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	user, token, err := h.auth.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	respondMessage(w, http.StatusCreated, "User registered successfully", map[string]any{
		"user":  toUserView(user),
		"token": token,
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	if err := validateStruct(req); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	respondData(w, http.StatusOK, map[string]any{
		"user":  toUserView(user),
		"token": token,
	})
}

func (h *Handlers) profile(w http.ResponseWriter, r *http.Request) {
	userID, err := ctxauth.UserID(r.Context())
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	user, err := h.auth.Profile(r.Context(), userID)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	respondData(w, http.StatusOK, map[string]any{"user": toUserView(user)})
}

type updateProfileRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

func (h *Handlers) updateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := ctxauth.UserID(r.Context())
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	if err := validateStruct(req); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	user, err := h.auth.UpdateProfile(r.Context(), userID, req.Name)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Profile updated successfully", map[string]any{
		"user": toUserView(user),
	})
}
