package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/secondbrain-ai/deal-intel/errors"
	authDTO "github.com/secondbrain-ai/deal-intel/internal/adapter/dto/auth"
	"github.com/secondbrain-ai/deal-intel/internal/adapter/presenter"
	"github.com/secondbrain-ai/deal-intel/internal/domain/repositories"
	"github.com/secondbrain-ai/deal-intel/internal/infrastructure/http/middleware"
	"github.com/secondbrain-ai/deal-intel/internal/usecase/auth"
	"github.com/secondbrain-ai/deal-intel/pkg/jwt"
)

// Auth handles broker registration, login and contact verification
type Auth struct {
	authService auth.Service
	userRepo    repositories.UserRepository
	tokens      *jwt.Manager
	logger      *zap.Logger
}

// NewAuth creates a new auth handler
func NewAuth(authService auth.Service, userRepo repositories.UserRepository, tokens *jwt.Manager, logger *zap.Logger) *Auth {
	return &Auth{
		authService: authService,
		userRepo:    userRepo,
		tokens:      tokens,
		logger:      logger,
	}
}

// Register creates a new broker account
// @Summary      Register broker account
// @Description  Creates a broker account and returns an access token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      authDTO.RegisterRequest  true  "Registration payload"
// @Success      201      {object}  authDTO.AuthResponse
// @Failure      400      {object}  common.ErrorResponse  "Invalid payload or email already registered"
// @Router       /auth/register [post]
func (h *Auth) Register(c echo.Context) error {
	var req authDTO.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	user, token, err := h.authService.Register(c.Request().Context(), auth.RegisterInput{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Phone:         req.Phone,
		Password:      req.Password,
		CompanyName:   req.CompanyName,
		LicenseNumber: req.LicenseNumber,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusCreated, presenter.ToAuthResponse(user, token, h.tokens.GetExpiry()))
}

// Login authenticates a broker
// @Summary      Login
// @Description  Authenticates a broker and returns an access token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      authDTO.LoginRequest  true  "Credentials"
// @Success      200      {object}  authDTO.AuthResponse
// @Failure      400      {object}  common.ErrorResponse  "Invalid credentials"
// @Router       /auth/login [post]
func (h *Auth) Login(c echo.Context) error {
	var req authDTO.LoginRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	user, token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToAuthResponse(user, token, h.tokens.GetExpiry()))
}

// Me returns the authenticated broker's account
// @Summary      Current broker
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  authDTO.UserResponse
// @Failure      401  {object}  common.ErrorResponse
// @Router       /auth/me [get]
func (h *Auth) Me(c echo.Context) error {
	brokerID, ok := middleware.GetBrokerID(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	user, err := h.userRepo.FindByID(c.Request().Context(), brokerID)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrUserNotFound())
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToUserResponse(user))
}

// RequestOTP sends a verification code to the requested channel
// @Summary      Request verification code
// @Description  Sends a one-time code to the broker's email or phone
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      authDTO.RequestOTPRequest  true  "Channel: email or phone"
// @Success      200      {object}  authDTO.OTPResponse
// @Failure      400      {object}  common.ErrorResponse  "Channel already verified or missing phone"
// @Router       /auth/request-otp [post]
func (h *Auth) RequestOTP(c echo.Context) error {
	brokerID, ok := middleware.GetBrokerID(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	var req authDTO.RequestOTPRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	if err := h.authService.RequestOTP(c.Request().Context(), brokerID, req.Channel); err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, authDTO.OTPResponse{Channel: req.Channel})
}

// VerifyEmail verifies the broker's email with a one-time code
// @Summary      Verify email
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      authDTO.VerifyOTPRequest  true  "One-time code"
// @Success      200      {object}  authDTO.OTPResponse
// @Failure      400      {object}  common.ErrorResponse  "Invalid or expired OTP"
// @Router       /auth/verify-email [post]
func (h *Auth) VerifyEmail(c echo.Context) error {
	return h.verify(c, auth.ChannelEmail)
}

// VerifyPhone verifies the broker's phone with a one-time code
// @Summary      Verify phone
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      authDTO.VerifyOTPRequest  true  "One-time code"
// @Success      200      {object}  authDTO.OTPResponse
// @Failure      400      {object}  common.ErrorResponse  "Invalid or expired OTP"
// @Router       /auth/verify-phone [post]
func (h *Auth) VerifyPhone(c echo.Context) error {
	return h.verify(c, auth.ChannelPhone)
}

func (h *Auth) verify(c echo.Context, channel string) error {
	brokerID, ok := middleware.GetBrokerID(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	var req authDTO.VerifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	if err := h.authService.VerifyOTP(c.Request().Context(), brokerID, channel, req.Code); err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, authDTO.OTPResponse{Channel: channel, Verified: true})
}
