package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	userdomain "lead-intake-go/internal/domain/user"
)

type createUserRequest struct {
	Name     string `json:"nombre" validate:"required"`
	Email    string `json:"correo" validate:"required,email"`
	Password string `json:"contrasena" validate:"required,min=6"`
	Role     string `json:"rol" validate:"omitempty,oneof=user admin"`
}

type updateUserRequest struct {
	Name     *string `json:"nombre" validate:"omitempty,min=1"`
	Email    *string `json:"correo" validate:"omitempty,email"`
	Password *string `json:"contrasena" validate:"omitempty,min=6"`
	Role     *string `json:"rol" validate:"omitempty,oneof=user admin"`
}

type userResponse struct {
	ID        uint64          `json:"id"`
	Name      string          `json:"nombre"`
	Email     string          `json:"correo"`
	Role      userdomain.Role `json:"rol"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context())
	if err != nil {
		h.log.InternalError("users.list: failed", err)
		h.writeInternal(w, err)
		return
	}

	response := make([]userResponse, 0, len(users))
	for _, u := range users {
		response = append(response, toUserResponse(u))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
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
		Role:     userdomain.Role(req.Role),
	})
	if err != nil {
		h.writeUserError(w, "users.create", err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(*created))
}

func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid id")
		return
	}

	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", validationMessage(err))
		return
	}

	input := userdomain.UpdateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}
	if req.Role != nil {
		role := userdomain.Role(*req.Role)
		input.Role = &role
	}

	if err := h.Users.Update(r.Context(), userID, input); err != nil {
		h.writeUserError(w, "users.update", err, "user_id", userID)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Usuario actualizado correctamente."})
}

func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid id")
		return
	}

	if err := h.Users.Delete(r.Context(), userID); err != nil {
		h.writeUserError(w, "users.delete", err, "user_id", userID)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Usuario eliminado correctamente."})
}

func (h *Handlers) writeUserError(w http.ResponseWriter, op string, err error, args ...any) {
	switch {
	case errors.Is(err, userdomain.ErrUserNotFound):
		h.log.BusinessError(op+": user not found", err, args...)
		writeError(w, http.StatusNotFound, "user_not_found", "user not found")
	case errors.Is(err, userdomain.ErrEmailTaken):
		h.log.BusinessError(op+": email taken", err, args...)
		writeError(w, http.StatusConflict, "email_taken", "email already in use")
	case errors.Is(err, userdomain.ErrInvalidInput), errors.Is(err, userdomain.ErrInvalidRole):
		h.log.BusinessError(op+": invalid input", err, args...)
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
	default:
		h.log.InternalError(op+": failed", err, args...)
		h.writeInternal(w, err)
	}
}

func toUserResponse(u userdomain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
