package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/accounts-api/internal/api/shared"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/service"
	"github.com/phrazzld/accounts-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAccountService implements service.AccountService with function
// fields. Unset functions panic through the nil embedded interface.
type fakeAccountService struct {
	service.AccountService

	RegisterFn             func(ctx context.Context, in service.RegisterInput) (*domain.Account, error)
	ActivateFn             func(ctx context.Context, token string) error
	ResendActivationFn     func(ctx context.Context, email string) error
	LoginFn                func(ctx context.Context, username, password string) (*service.TokenPair, error)
	RefreshTokensFn        func(ctx context.Context, refresh string) (*service.TokenPair, error)
	RequestPasswordResetFn func(ctx context.Context, email string) error
	ConfirmPasswordResetFn func(ctx context.Context, uid, token, password, confirm string) error
	RequestEmailChangeFn   func(ctx context.Context, id uuid.UUID, email string) error
	ConfirmEmailChangeFn   func(ctx context.Context, id uuid.UUID, uid, token string) error
	ChangeFieldFn          func(ctx context.Context, id uuid.UUID, field service.Field, value string) error
	ChangePasswordFn       func(ctx context.Context, id uuid.UUID, current, next, confirm string) error
	GetAccountFn           func(ctx context.Context, id uuid.UUID) (*domain.Account, error)
}

func (f *fakeAccountService) Register(ctx context.Context, in service.RegisterInput) (*domain.Account, error) {
	return f.RegisterFn(ctx, in)
}

func (f *fakeAccountService) Activate(ctx context.Context, token string) error {
	return f.ActivateFn(ctx, token)
}

func (f *fakeAccountService) ResendActivation(ctx context.Context, email string) error {
	return f.ResendActivationFn(ctx, email)
}

func (f *fakeAccountService) Login(ctx context.Context, username, password string) (*service.TokenPair, error) {
	return f.LoginFn(ctx, username, password)
}

func (f *fakeAccountService) RefreshTokens(ctx context.Context, refresh string) (*service.TokenPair, error) {
	return f.RefreshTokensFn(ctx, refresh)
}

func (f *fakeAccountService) RequestPasswordReset(ctx context.Context, email string) error {
	return f.RequestPasswordResetFn(ctx, email)
}

func (f *fakeAccountService) ConfirmPasswordReset(ctx context.Context, uid, token, password, confirm string) error {
	return f.ConfirmPasswordResetFn(ctx, uid, token, password, confirm)
}

func (f *fakeAccountService) RequestEmailChange(ctx context.Context, id uuid.UUID, email string) error {
	return f.RequestEmailChangeFn(ctx, id, email)
}

func (f *fakeAccountService) ConfirmEmailChange(ctx context.Context, id uuid.UUID, uid, token string) error {
	return f.ConfirmEmailChangeFn(ctx, id, uid, token)
}

func (f *fakeAccountService) ChangeField(ctx context.Context, id uuid.UUID, field service.Field, value string) error {
	return f.ChangeFieldFn(ctx, id, field, value)
}

func (f *fakeAccountService) ChangePassword(ctx context.Context, id uuid.UUID, current, next, confirm string) error {
	return f.ChangePasswordFn(ctx, id, current, next, confirm)
}

func (f *fakeAccountService) GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return f.GetAccountFn(ctx, id)
}

var testUserID = uuid.MustParse("6f1c2d3e-4a5b-4c6d-8e9f-0a1b2c3d4e5f")

// withUser stands in for the auth middleware.
func withUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(shared.WithUserID(r.Context(), testUserID)))
	})
}

func newTestRouter(svc service.AccountService) http.Handler {
	authHandler := NewAuthHandler(svc)
	accountHandler := NewAccountHandler(svc)

	r := chi.NewRouter()
	r.Post("/register", authHandler.Register)
	r.Get("/activate/{token}", authHandler.Activate)
	r.Get("/resend-activation/{email}", authHandler.ResendActivation)
	r.Post("/login", authHandler.Login)
	r.Post("/token/refresh", authHandler.RefreshToken)
	r.Post("/reset-password", authHandler.RequestPasswordReset)
	r.Put("/reset-password/{uid}/{token}", authHandler.ConfirmPasswordReset)
	r.Get("/anonymous-user", accountHandler.GetUser)
	r.Group(func(r chi.Router) {
		r.Use(withUser)
		r.Get("/user", accountHandler.GetUser)
		r.Put("/change-first-name", accountHandler.ChangeField(service.FieldFirstName))
		r.Put("/change-phone-number", accountHandler.ChangeField(service.FieldPhoneNumber))
		r.Put("/change-password", accountHandler.ChangePassword)
		r.Post("/change-email", accountHandler.RequestEmailChange)
		r.Put("/change-email/{uid}/{token}", accountHandler.ConfirmEmailChange)
	})
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeErrors(t *testing.T, rec *httptest.ResponseRecorder) map[string][]string {
	t.Helper()
	var body shared.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Errors
}

func TestRegisterHandler(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var got service.RegisterInput
	svc := &fakeAccountService{
		RegisterFn: func(ctx context.Context, in service.RegisterInput) (*domain.Account, error) {
			got = in
			return &domain.Account{
				ID: testUserID, Username: in.Username, Email: in.Email,
				HashedPassword: "secret-hash", IsActive: true, CreatedAt: created,
			}, nil
		},
	}
	h := newTestRouter(svc)

	rec := do(t, h, http.MethodPost, "/register",
		`{"username":"alice","email":"alice@example.com","password":"pw-123456","password_confirm":"pw-123456"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, service.RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "pw-123456", PasswordConfirm: "pw-123456",
	}, got)

	var body struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "alice", body.Data["username"])
	assert.Equal(t, testUserID.String(), body.Data["id"])
	assert.Equal(t, false, body.Data["is_confirm"])
	assert.NotContains(t, rec.Body.String(), "secret-hash")
}

func TestRegisterHandlerErrors(t *testing.T) {
	t.Parallel()

	svc := &fakeAccountService{
		RegisterFn: func(ctx context.Context, in service.RegisterInput) (*domain.Account, error) {
			fe := domain.NewFieldError(domain.ErrValidation)
			fe.Add("password", service.MsgPasswordsMismatch)
			fe.Add("password_confirm", service.MsgPasswordsMismatch)
			return nil, fe
		},
	}
	h := newTestRouter(svc)

	rec := do(t, h, http.MethodPost, "/register",
		`{"username":"alice","email":"alice@example.com","password":"a","password_confirm":"b"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errs := decodeErrors(t, rec)
	assert.Equal(t, []string{service.MsgPasswordsMismatch}, errs["password"])
	assert.Equal(t, []string{service.MsgPasswordsMismatch}, errs["password_confirm"])

	rec = do(t, h, http.MethodPost, "/register", `{"username":"alice"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errs = decodeErrors(t, rec)
	assert.Equal(t, []string{domain.MsgBlank}, errs["email"])
	assert.Equal(t, []string{domain.MsgBlank}, errs["password"])
	assert.Equal(t, []string{domain.MsgBlank}, errs["password_confirm"])
	assert.NotContains(t, errs, "username")

	rec = do(t, h, http.MethodPost, "/register", `{"username":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{MsgInvalidBody}, decodeErrors(t, rec)["detail"])

	rec = do(t, h, http.MethodPost, "/register", `{} {}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestActivateHandler(t *testing.T) {
	t.Parallel()

	var gotToken string
	svc := &fakeAccountService{
		ActivateFn: func(ctx context.Context, token string) error {
			gotToken = token
			if token == "expired" {
				return domain.FieldErrorOf(auth.ErrExpiredToken, "link", service.MsgLinkExpired)
			}
			return nil
		},
	}
	h := newTestRouter(svc)

	rec := do(t, h, http.MethodGet, "/activate/abc.def.ghi", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, "abc.def.ghi", gotToken)

	rec = do(t, h, http.MethodGet, "/activate/expired", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, []string{service.MsgLinkExpired}, decodeErrors(t, rec)["link"])
}

func TestResendActivationHandler(t *testing.T) {
	t.Parallel()

	svc := &fakeAccountService{
		ResendActivationFn: func(ctx context.Context, email string) error {
			if email == "ghost@example.com" {
				return domain.FieldErrorOf(service.ErrAccountNotFound, "email", service.MsgEmailNotFound)
			}
			return nil
		},
	}
	h := newTestRouter(svc)

	rec := do(t, h, http.MethodGet, "/resend-activation/alice@example.com", "")
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"data":{"email":"alice@example.com"}}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/resend-activation/ghost%40example.com", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, []string{service.MsgEmailNotFound}, decodeErrors(t, rec)["email"])
}

func TestLoginHandler(t *testing.T) {
	t.Parallel()

	svc := &fakeAccountService{
		LoginFn: func(ctx context.Context, username, password string) (*service.TokenPair, error) {
			switch username {
			case "alice":
				return &service.TokenPair{Access: "acc", Refresh: "ref"}, nil
			case "bob":
				return nil, domain.FieldErrorOf(service.ErrNotConfirmed, "account", service.MsgNotConfirmed)
			default:
				return nil, domain.FieldErrorOf(service.ErrInvalidCredential, "password", service.MsgInvalidCredential)
			}
		},
	}
	h := newTestRouter(svc)

	rec := do(t, h, http.MethodPost, "/login", `{"username":"alice","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"data":{"tokens":{"refresh":"ref","access":"acc"}}}`, strings.TrimSpace(rec.Body.String()))

	rec = do(t, h, http.MethodPost, "/login", `{"username":"bob","password":"pw"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, h, http.MethodPost, "/login", `{"username":"eve","password":"pw"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{service.MsgInvalidCredential}, decodeErrors(t, rec)["password"])
}

func TestRefreshTokenHandler(t *testing.T) {
	t.Parallel()

	svc := &fakeAccountService{
		RefreshTokensFn: func(ctx context.Context, refresh string) (*service.TokenPair, error) {
			if refresh != "good" {
				return nil, domain.FieldErrorOf(auth.ErrInvalidToken, "refresh", service.MsgTokenInvalid)
			}
			return &service.TokenPair{Access: "a2", Refresh: "r2"}, nil
		},
	}
	h := newTestRouter(svc)

	rec := do(t, h, http.MethodPost, "/token/refresh", `{"refresh":"good"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"tokens":{"refresh":"r2","access":"a2"}}}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/token/refresh", `{"refresh":"bad"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPasswordResetHandlers(t *testing.T) {
	t.Parallel()

	var uid, token, password string
	svc := &fakeAccountService{
		RequestPasswordResetFn: func(ctx context.Context, email string) error { return nil },
		ConfirmPasswordResetFn: func(ctx context.Context, u, tok, pw, confirm string) error {
			uid, token, password = u, tok, pw
			return nil
		},
	}
	h := newTestRouter(svc)

	rec := do(t, h, http.MethodPost, "/reset-password", `{"email":"alice@example.com"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"data":{"email":"alice@example.com"}}`, rec.Body.String())

	rec = do(t, h, http.MethodPut, "/reset-password/YWJj/tok", `{"password":"n3w-pass","password_confirm":"n3w-pass"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "YWJj", uid)
	assert.Equal(t, "tok", token)
	assert.Equal(t, "n3w-pass", password)
}

func TestGetUserHandler(t *testing.T) {
	t.Parallel()

	svc := &fakeAccountService{
		GetAccountFn: func(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
			return &domain.Account{ID: id, Username: "alice", FirstName: "Alice"}, nil
		},
	}
	h := newTestRouter(svc)

	rec := do(t, h, http.MethodGet, "/user", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"first_name":"Alice"`)
	assert.Contains(t, rec.Body.String(), testUserID.String())

	rec = do(t, h, http.MethodGet, "/anonymous-user", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChangeFieldHandler(t *testing.T) {
	t.Parallel()

	var gotField service.Field
	var gotValue string
	svc := &fakeAccountService{
		ChangeFieldFn: func(ctx context.Context, id uuid.UUID, field service.Field, value string) error {
			assert.Equal(t, testUserID, id)
			gotField, gotValue = field, value
			if value == "0102" {
				fe := domain.NewFieldError(domain.ErrValidation)
				fe.Add("phone_number", domain.MsgInvalidPhone, domain.MsgPhoneTooShort)
				return fe
			}
			return nil
		},
	}
	h := newTestRouter(svc)

	rec := do(t, h, http.MethodPut, "/change-first-name", `{"first_name":"Alice"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, service.FieldFirstName, gotField)
	assert.Equal(t, "Alice", gotValue)

	rec = do(t, h, http.MethodPut, "/change-phone-number", `{"phone_number":"0102"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{domain.MsgInvalidPhone, domain.MsgPhoneTooShort}, decodeErrors(t, rec)["phone_number"])

	rec = do(t, h, http.MethodPut, "/change-phone-number", `{"first_name":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{MsgFieldRequired}, decodeErrors(t, rec)["phone_number"])
}

func TestChangePasswordHandler(t *testing.T) {
	t.Parallel()

	svc := &fakeAccountService{
		ChangePasswordFn: func(ctx context.Context, id uuid.UUID, current, next, confirm string) error {
			if current != "old" {
				return domain.FieldErrorOf(service.ErrInvalidCredential, "current_password", service.MsgCurrentPasswordWrong)
			}
			return nil
		},
	}
	h := newTestRouter(svc)

	rec := do(t, h, http.MethodPut, "/change-password",
		`{"current_password":"old","new_password":"n","new_password_confirm":"n"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodPut, "/change-password",
		`{"current_password":"nope","new_password":"n","new_password_confirm":"n"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{service.MsgCurrentPasswordWrong}, decodeErrors(t, rec)["current_password"])
}

func TestEmailChangeHandlers(t *testing.T) {
	t.Parallel()

	svc := &fakeAccountService{
		RequestEmailChangeFn: func(ctx context.Context, id uuid.UUID, email string) error {
			if email == "taken@example.com" {
				return domain.FieldErrorOf(service.ErrAlreadyExists, "email", service.MsgEmailExists)
			}
			return nil
		},
		ConfirmEmailChangeFn: func(ctx context.Context, id uuid.UUID, uid, token string) error {
			if token != "good" {
				return domain.FieldErrorOf(auth.ErrInvalidToken, "token", service.MsgTokenInvalid)
			}
			return nil
		},
	}
	h := newTestRouter(svc)

	rec := do(t, h, http.MethodPost, "/change-email", `{"email":"new@example.com"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"data":{"email":"new@example.com"}}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/change-email", `{"email":"taken@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{service.MsgEmailExists}, decodeErrors(t, rec)["email"])

	rec = do(t, h, http.MethodPut, "/change-email/uid/good", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodPut, "/change-email/uid/bad", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestInternalErrorsAreGeneric(t *testing.T) {
	t.Parallel()

	svc := &fakeAccountService{
		ActivateFn: func(ctx context.Context, token string) error {
			return errors.New("pq: connection to postgres://admin:hunter2@db failed")
		},
	}
	h := newTestRouter(svc)

	rec := do(t, h, http.MethodGet, "/activate/x", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hunter2")
	assert.Equal(t, []string{MsgUnexpected}, decodeErrors(t, rec)["detail"])
}
