package shared

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	traced := SetTraceID(ctx)
	_, err := uuid.Parse(GetTraceID(traced))
	assert.NoError(t, err)
	assert.Empty(t, GetTraceID(ctx))

	assert.Equal(t, "abc", GetTraceID(WithTraceID(ctx, "abc")))
	assert.Empty(t, GetTraceID(context.WithValue(ctx, TraceIDKey, 123)))
}

func TestUserID(t *testing.T) {
	t.Parallel()

	_, ok := GetUserID(context.Background())
	assert.False(t, ok)

	_, ok = GetUserID(WithUserID(context.Background(), uuid.Nil))
	assert.False(t, ok)

	id := uuid.New()
	got, ok := GetUserID(WithUserID(context.Background(), id))
	assert.True(t, ok)
	assert.Equal(t, id, got)
}

func TestRespondWithFieldErrors(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithTraceID(req.Context(), "trace-1"))
	rec := httptest.NewRecorder()

	RespondWithFieldErrors(rec, req, http.StatusBadRequest, map[string][]string{"email": {"bad"}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"errors":{"email":["bad"]},"trace_id":"trace-1"}`, rec.Body.String())
}

func TestRespondWithData(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	RespondWithData(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusCreated, map[string]string{"email": "a@b.co"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"data":{"email":"a@b.co"}}`, rec.Body.String())
}

func TestRespondWithErrorAndLogHidesError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	RespondWithErrorAndLog(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusInternalServerError,
		map[string][]string{DetailField: {"An unexpected error occurred."}}, errors.New("password=hunter22"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hunter22")
}

type sampleRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Nickname string `json:"nickname" validate:"max=3"`
	Ignored  string `json:"-"`
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	var req sampleRequest
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co"}`))
	require.NoError(t, DecodeJSON(httptest.NewRecorder(), r, &req))
	assert.Equal(t, "a@b.co", req.Email)

	for _, body := range []string{``, `{`, `[]`, `{"email":"a"} x`} {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		err := DecodeJSON(httptest.NewRecorder(), r, &req)
		assert.ErrorIs(t, err, ErrInvalidBody, body)
	}

	big := `{"email":"` + strings.Repeat("a", MaxBodyBytes) + `"}`
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))
	assert.ErrorIs(t, DecodeJSON(httptest.NewRecorder(), r, &req), ErrInvalidBody)
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateRequest(&sampleRequest{Email: "a@b.co"}))

	err := ValidateRequest(&sampleRequest{Nickname: "toolong"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	fields, ok := domain.FieldMessages(err)
	require.True(t, ok)
	assert.Equal(t, []string{domain.MsgBlank}, fields["email"])
	assert.Equal(t, []string{"Ensure this field has no more than 3 characters."}, fields["nickname"])

	err = ValidateRequest(&sampleRequest{Email: "nope"})
	fields, _ = domain.FieldMessages(err)
	assert.Equal(t, []string{domain.MsgInvalidEmail}, fields["email"])
}
