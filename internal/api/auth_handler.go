package api

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/accounts-api/internal/api/shared"
	"github.com/phrazzld/accounts-api/internal/service"
)

// AuthHandler serves the unauthenticated lifecycle endpoints: registration,
// activation, login and password reset.
type AuthHandler struct {
	accounts service.AccountService
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(accounts service.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// Register handles POST /register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	account, err := h.accounts.Register(r.Context(), service.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusCreated, newAccountResponse(account))
}

// Activate handles GET /activate/{token}.
func (h *AuthHandler) Activate(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.Activate(r.Context(), chi.URLParam(r, "token")); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondNoContent(w)
}

// ResendActivation handles GET /resend-activation/{email}.
func (h *AuthHandler) ResendActivation(w http.ResponseWriter, r *http.Request) {
	email, err := url.PathUnescape(chi.URLParam(r, "email"))
	if err != nil {
		email = chi.URLParam(r, "email")
	}

	if err := h.accounts.ResendActivation(r.Context(), email); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusCreated, EmailResponse{Email: email})
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	pair, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, TokensResponse{
		Tokens: TokenPair{Refresh: pair.Refresh, Access: pair.Access},
	})
}

// RefreshToken handles POST /token/refresh.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	pair, err := h.accounts.RefreshTokens(r.Context(), req.Refresh)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, TokensResponse{
		Tokens: TokenPair{Refresh: pair.Refresh, Access: pair.Access},
	})
}

// RequestPasswordReset handles POST /reset-password.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.accounts.RequestPasswordReset(r.Context(), req.Email); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusCreated, EmailResponse{Email: req.Email})
}

// ConfirmPasswordReset handles PUT /reset-password/{uid}/{token}.
func (h *AuthHandler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req SetPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	err := h.accounts.ConfirmPasswordReset(r.Context(),
		chi.URLParam(r, "uid"), chi.URLParam(r, "token"),
		req.Password, req.PasswordConfirm)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondNoContent(w)
}

// decodeAndValidate decodes the JSON body into req and checks its tags. On
// failure it writes the response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := shared.DecodeJSON(w, r, req); err != nil {
		HandleAPIError(w, r, err)
		return false
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, err)
		return false
	}
	return true
}
