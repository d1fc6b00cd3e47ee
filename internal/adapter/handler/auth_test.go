package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/secondbrain-ai/deal-intel/errors"
	"github.com/secondbrain-ai/deal-intel/internal/domain/entities"
	"github.com/secondbrain-ai/deal-intel/internal/usecase/auth"
	"github.com/secondbrain-ai/deal-intel/pkg/jwt"
)

type mockAuthService struct {
	user       *entities.User
	token      string
	err        error
	otpChannel string
	otpCode    string
}

func (m *mockAuthService) Register(ctx context.Context, input auth.RegisterInput) (*entities.User, string, error) {
	if m.err != nil {
		return nil, "", m.err
	}
	return m.user, m.token, nil
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*entities.User, string, error) {
	if m.err != nil {
		return nil, "", m.err
	}
	return m.user, m.token, nil
}

func (m *mockAuthService) RequestOTP(ctx context.Context, userID uuid.UUID, channel string) error {
	m.otpChannel = channel
	return m.err
}

func (m *mockAuthService) VerifyOTP(ctx context.Context, userID uuid.UUID, channel, code string) error {
	m.otpChannel = channel
	m.otpCode = code
	return m.err
}

type stubUserRepo struct {
	user *entities.User
}

func (r *stubUserRepo) Create(ctx context.Context, user *entities.User) error { return nil }
func (r *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	if r.user == nil {
		return nil, entities.ErrUserNotFound
	}
	return r.user, nil
}
func (r *stubUserRepo) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return nil, entities.ErrUserNotFound
}
func (r *stubUserRepo) Update(ctx context.Context, user *entities.User) error     { return nil }
func (r *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID) error   { return nil }
func (r *stubUserRepo) MarkEmailVerified(ctx context.Context, id uuid.UUID) error { return nil }
func (r *stubUserRepo) MarkPhoneVerified(ctx context.Context, id uuid.UUID) error { return nil }
func (r *stubUserRepo) Delete(ctx context.Context, id uuid.UUID) error            { return nil }

func newAuthHandler(svc auth.Service, repo *stubUserRepo) *Auth {
	tokens := jwt.NewManager("test-secret", time.Hour, "deal-intel-test")
	return NewAuth(svc, repo, tokens, zap.NewNop())
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestRegisterCreatesBroker(t *testing.T) {
	e := newTestEcho()
	user := entities.NewUser("Asha", "Desai", "asha@example.com", "hash")
	svc := &mockAuthService{user: user, token: "signed-token"}
	h := newAuthHandler(svc, &stubUserRepo{})

	body := `{"first_name":"Asha","last_name":"Desai","email":"asha@example.com","password":"Secret123!"}`
	c, rec := newMeetingContext(e, jsonRequest(http.MethodPost, "/api/auth/register", body), nil)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "signed-token", data["access_token"])
	userData := data["user"].(map[string]interface{})
	assert.Equal(t, "asha@example.com", userData["email"])
}

func TestRegisterRejectsBadEmail(t *testing.T) {
	e := newTestEcho()
	h := newAuthHandler(&mockAuthService{}, &stubUserRepo{})

	body := `{"first_name":"Asha","last_name":"Desai","email":"not-an-email","password":"Secret123!"}`
	c, rec := newMeetingContext(e, jsonRequest(http.MethodPost, "/api/auth/register", body), nil)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	e := newTestEcho()
	h := newAuthHandler(&mockAuthService{}, &stubUserRepo{})

	body := `{"first_name":"Asha","last_name":"Desai","email":"asha@example.com","password":"short"}`
	c, rec := newMeetingContext(e, jsonRequest(http.MethodPost, "/api/auth/register", body), nil)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginBadCredentials(t *testing.T) {
	e := newTestEcho()
	svc := &mockAuthService{err: apperrors.ErrInvalidCredentials()}
	h := newAuthHandler(svc, &stubUserRepo{})

	body := `{"email":"asha@example.com","password":"wrong"}`
	c, rec := newMeetingContext(e, jsonRequest(http.MethodPost, "/api/auth/login", body), nil)

	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid credentials", decodeBody(t, rec)["message"])
}

func TestMeReturnsProfile(t *testing.T) {
	e := newTestEcho()
	user := entities.NewUser("Asha", "Desai", "asha@example.com", "hash")
	h := newAuthHandler(&mockAuthService{}, &stubUserRepo{user: user})

	c, rec := newMeetingContext(e, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), &user.ID)

	require.NoError(t, h.Me(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "asha@example.com", data["email"])
}

func TestRequestOTPRejectsUnknownChannel(t *testing.T) {
	e := newTestEcho()
	svc := &mockAuthService{}
	h := newAuthHandler(svc, &stubUserRepo{})
	brokerID := uuid.New()

	body := `{"channel":"fax"}`
	c, rec := newMeetingContext(e, jsonRequest(http.MethodPost, "/api/auth/request-otp", body), &brokerID)

	require.NoError(t, h.RequestOTP(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.otpChannel)
}

func TestVerifyEmailPassesChannelAndCode(t *testing.T) {
	e := newTestEcho()
	svc := &mockAuthService{}
	h := newAuthHandler(svc, &stubUserRepo{})
	brokerID := uuid.New()

	body := `{"code":"123456"}`
	c, rec := newMeetingContext(e, jsonRequest(http.MethodPost, "/api/auth/verify-email", body), &brokerID)

	require.NoError(t, h.VerifyEmail(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, auth.ChannelEmail, svc.otpChannel)
	assert.Equal(t, "123456", svc.otpCode)

	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, true, data["verified"])
}

func TestVerifyPhoneInvalidCode(t *testing.T) {
	e := newTestEcho()
	svc := &mockAuthService{err: apperrors.ErrInvalidOTP()}
	h := newAuthHandler(svc, &stubUserRepo{})
	brokerID := uuid.New()

	body := `{"code":"000000"}`
	c, rec := newMeetingContext(e, jsonRequest(http.MethodPost, "/api/auth/verify-phone", body), &brokerID)

	require.NoError(t, h.VerifyPhone(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, auth.ChannelPhone, svc.otpChannel)
}