package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/accounts-api/internal/api/middleware"
	"github.com/phrazzld/accounts-api/internal/api/shared"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/service"
)

// MsgFieldRequired is reported when a change request omits its field.
const MsgFieldRequired = "This field is required."

// AccountHandler serves the authenticated self-service endpoints.
type AccountHandler struct {
	accounts service.AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accounts service.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// GetUser handles GET /user.
func (h *AccountHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := requireUserID(w, r)
	if !ok {
		return
	}

	account, err := h.accounts.GetAccount(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, newAccountResponse(account))
}

// ChangeField returns the handler for PUT /change-{field}.
func (h *AccountHandler) ChangeField(field service.Field) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireUserID(w, r)
		if !ok {
			return
		}

		var req ChangeFieldRequest
		if err := shared.DecodeJSON(w, r, &req); err != nil {
			HandleAPIError(w, r, err)
			return
		}
		value, present := req.value(field)
		if !present {
			HandleAPIError(w, r, domain.FieldErrorOf(domain.ErrValidation, string(field), MsgFieldRequired))
			return
		}

		if err := h.accounts.ChangeField(r.Context(), id, field, value); err != nil {
			HandleAPIError(w, r, err)
			return
		}
		shared.RespondNoContent(w)
	}
}

// ChangePassword handles PUT /change-password.
func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	err := h.accounts.ChangePassword(r.Context(), id, req.CurrentPassword, req.NewPassword, req.NewPasswordConfirm)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondNoContent(w)
}

// RequestEmailChange handles POST /change-email.
func (h *AccountHandler) RequestEmailChange(w http.ResponseWriter, r *http.Request) {
	id, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req EmailRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.accounts.RequestEmailChange(r.Context(), id, req.Email); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusCreated, EmailResponse{Email: req.Email})
}

// ConfirmEmailChange handles PUT /change-email/{uid}/{token}.
func (h *AccountHandler) ConfirmEmailChange(w http.ResponseWriter, r *http.Request) {
	id, ok := requireUserID(w, r)
	if !ok {
		return
	}

	err := h.accounts.ConfirmEmailChange(r.Context(), id, chi.URLParam(r, "uid"), chi.URLParam(r, "token"))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondNoContent(w)
}

// requireUserID reads the account id set by the auth middleware. It writes a
// 401 when the route was mounted without authentication.
func requireUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, MsgUnauthenticated)
		return uuid.Nil, false
	}
	return id, true
}
