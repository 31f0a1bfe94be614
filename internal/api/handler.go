package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/medha-kiot/command-center/internal/auth"
	"github.com/medha-kiot/command-center/internal/model"
	"github.com/medha-kiot/command-center/internal/service"
	"github.com/medha-kiot/command-center/pkg/logger"
	"go.uber.org/zap"
)

const (
	serviceName    = "MEDHA Command Center Email Service"
	serviceVersion = "1.0.0"
)

type Handler struct {
	dispatch *service.DispatchService

	healthChecker HealthChecker
	corsOrigins   []string

	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{
		logger:      logger,
		corsOrigins: []string{"*"},
	}
}

func (h *Handler) WithHealthChecker(c HealthChecker) *Handler {
	h.healthChecker = c
	return h
}

func (h *Handler) WithDispatchService(dispatch *service.DispatchService) *Handler {
	h.dispatch = dispatch
	return h
}

func (h *Handler) WithCORSOrigins(origins []string) *Handler {
	if len(origins) > 0 {
		h.corsOrigins = origins
	}
	return h
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.Use(middleware.RequestID())
	e.Use(ZapLoggerMiddleware(h.logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: h.corsOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/", h.Root)
	e.GET("/health", h.Health)
	if h.healthChecker != nil {
		e.GET("/health/components", h.healthChecker.HealthCheck())
	}

	mail := e.Group("")
	if auth.Enabled() {
		mail.Use(AuthMiddleware(auth.TokenTypeAdmin, auth.TokenTypeCoordinator))
	}

	mail.POST("/send-mail", h.SendMail)
}

func (h *Handler) Root(e echo.Context) error {
	return e.JSON(http.StatusOK, map[string]string{
		"service": serviceName,
		"status":  "running",
		"version": serviceVersion,
	})
}

func (h *Handler) Health(e echo.Context) error {
	return e.JSON(http.StatusOK, map[string]any{
		"status":           "healthy",
		"email_configured": h.dispatch.EmailConfigured(),
	})
}

func (h *Handler) SendMail(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req model.EmailDispatchRequest

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	if req.SenderUID == "" {
		if claims := ClaimsFromContext(e); claims != nil {
			req.SenderUID = claims.Subject
		}
	}

	l.Info("dispatching email",
		zap.String("mode", string(req.Mode)),
		zap.Int("recipients", len(req.Recipients)),
		zap.String("sender_uid", req.SenderUID))

	res, err := h.dispatch.SendMail(e.Request().Context(), &req)
	if err != nil {
		l.Error("failed to dispatch email", zap.String("mode", string(req.Mode)), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, res)
}

func (h *Handler) decodeRequest(e echo.Context, req any) *service.Error {
	if err := e.Bind(req); err != nil {
		return service.NewError(service.ErrorCodeInvalidRequest, "invalid request body")
	}
	return nil
}

type errorResponse struct {
	Detail string            `json:"detail"`
	Code   service.ErrorCode `json:"code"`
}

func (h *Handler) transportError(e echo.Context, err *service.Error) error {
	response := errorResponse{Detail: err.Message, Code: err.Code}

	switch err.Code {
	case service.ErrorCodeInvalidRequest:
		return e.JSON(http.StatusBadRequest, response)
	case service.ErrorCodeAuthFailure, service.ErrorCodeUnauthorized:
		return e.JSON(http.StatusUnauthorized, response)
	default:
		return e.JSON(http.StatusInternalServerError, response)
	}
}
