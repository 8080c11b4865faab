package handler

import (
	"errors"
	"net/http"

	userdomain "lead-intake-go/internal/domain/user"
	"lead-intake-go/internal/transport/httpserver/middleware"
)

type signInRequest struct {
	Email    string `json:"correo" validate:"required,email"`
	Password string `json:"contrasena" validate:"required"`
}

type signUpRequest struct {
	Name     string `json:"nombre" validate:"required"`
	Email    string `json:"correo" validate:"required,email"`
	Password string `json:"contrasena" validate:"required,min=6"`
}

type signInResponse struct {
	ID          uint64          `json:"id"`
	Name        string          `json:"nombre"`
	Email       string          `json:"correo"`
	Role        userdomain.Role `json:"rol"`
	AccessToken string          `json:"accessToken"`
}

func (h *Handlers) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", validationMessage(err))
		return
	}

	result, err := h.Gate.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, userdomain.ErrUserNotFound):
			h.log.BusinessError("auth.signin: unknown user", err)
			writeError(w, http.StatusNotFound, "user_not_found", "user not found")
		case errors.Is(err, userdomain.ErrInvalidPassword):
			h.log.BusinessError("auth.signin: wrong password", err, "user_email", req.Email)
			writeError(w, http.StatusUnauthorized, "invalid_password", "invalid password")
		default:
			h.log.InternalError("auth.signin: failed", err)
			h.writeInternal(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, signInResponse{
		ID:          result.User.ID,
		Name:        result.User.Name,
		Email:       result.User.Email,
		Role:        result.User.Role,
		AccessToken: result.AccessToken,
	})
}

// SignUp registers a regular user. The role is never taken from the body.
func (h *Handlers) SignUp(w http.ResponseWriter, r *http.Request) {
	if !h.opts.AllowSignup {
		writeError(w, http.StatusForbidden, "signup_disabled", "sign up is disabled")
		return
	}

	var req signUpRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", validationMessage(err))
		return
	}

	created, err := h.Users.Create(r.Context(), userdomain.CreateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     userdomain.RoleUser,
	})
	if err != nil {
		h.writeUserError(w, "auth.signup", err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(*created))
}

func (h *Handlers) SignOut(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "unauthorized")
		return
	}

	if err := h.Gate.SignOut(r.Context(), identity); err != nil {
		h.log.InternalError("auth.signout: revoke failed", err, "user_id", identity.UserID)
		h.writeInternal(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Sesión cerrada."})
}
