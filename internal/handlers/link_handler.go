package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rowjay/spoome-go/dto"
	serviceErrors "github.com/rowjay/spoome-go/errors"
	"github.com/rowjay/spoome-go/internal/services"
	"github.com/rs/zerolog"
)

type HealthResponse struct {
	Status string `json:"status"`
}

type LinkHandler struct {
	service services.LinkService
	logger  zerolog.Logger
}

func NewLinkHandler(service services.LinkService, logger zerolog.Logger) *LinkHandler {
	return &LinkHandler{service: service, logger: logger}
}

func (h *LinkHandler) Shorten(c *gin.Context) {
	var req dto.ShortenRequest
	if err := c.ShouldBind(&req); err != nil {
		h.invalidPayload(c, err)
		return
	}

	resp, err := h.service.Shorten(c.Request.Context(), origin(c), c.Request.Host, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.logger.Info().Str("short_url", resp.ShortURL).Str("url", resp.OriginalURL).Msg("Short URL created successfully")
	c.JSON(http.StatusOK, resp)
}

func (h *LinkHandler) Emoji(c *gin.Context) {
	var req dto.EmojiRequest
	if err := c.ShouldBind(&req); err != nil {
		h.invalidPayload(c, err)
		return
	}

	resp, err := h.service.Emoji(c.Request.Context(), origin(c), c.Request.Host, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.logger.Info().Str("short_url", resp.ShortURL).Str("url", resp.OriginalURL).Msg("Emoji URL created successfully")
	c.JSON(http.StatusOK, resp)
}

func (h *LinkHandler) Stats(c *gin.Context) {
	shortCode := c.Param("shortCode")

	resp, err := h.service.Stats(c.Request.Context(), shortCode, c.PostForm("password"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *LinkHandler) Export(c *gin.Context) {
	shortCode := c.Param("shortCode")
	format := dto.ExportFormat(c.Param("format"))

	export, err := h.service.Export(c.Request.Context(), shortCode, format, c.PostForm("password"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+export.Filename+"\"")
	c.Data(http.StatusOK, export.ContentType, export.Data)
}

func (h *LinkHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *LinkHandler) invalidPayload(c *gin.Context, err error) {
	h.logger.Warn().Err(err).Msg("Invalid request payload")
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   "Invalid request payload",
		Message: err.Error(),
		Code:    http.StatusBadRequest,
	})
}

func (h *LinkHandler) handleServiceError(c *gin.Context, err error) {
	var serviceErr *serviceErrors.ServiceError
	if errors.As(err, &serviceErr) && serviceErr.Code == serviceErrors.ErrorCodeAPI {
		h.logger.Warn().Err(err).Int("status", serviceErr.StatusCode).Msg("Request rejected")

		resp := dto.ErrorResponse{Error: string(serviceErr.Kind), Message: serviceErr.Message}
		if serviceErr.Kind == serviceErrors.KindUnknown {
			resp = dto.ErrorResponse{Error: serviceErr.Message, Code: serviceErr.StatusCode}
		}
		c.JSON(serviceErr.StatusCode, resp)
		return
	}

	h.logger.Error().Err(err).Msg("Unknown error")
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error:   "Internal server error",
		Message: "An unexpected error occurred",
		Code:    http.StatusInternalServerError,
	})
}

func origin(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
