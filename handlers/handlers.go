package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"plant-identification-service/metrics"
	"plant-identification-service/models"
	"plant-identification-service/services"
)

// PlantHandler exposes the identification service over HTTP.
type PlantHandler struct {
	service *services.PlantService
}

func NewPlantHandler(service *services.PlantService) *PlantHandler {
	return &PlantHandler{
		service: service,
	}
}

// IdentifyPlant handles POST /identify: one multipart image plus an
// optional comma-separated organs field.
func (h *PlantHandler) IdentifyPlant(c *gin.Context) {
	start := time.Now()
	defer func() {
		metrics.RequestDurationSeconds.WithLabelValues("identify").Observe(time.Since(start).Seconds())
	}()

	data, filename, ok := h.readImage(c, "identify")
	if !ok {
		return
	}
	organs := splitOrgans(c.PostForm("organs"))

	log.WithFields(log.Fields{
		"filename": filename,
		"size":     len(data),
		"organs":   organs,
	}).Info("identify.request")

	result, err := h.service.IdentifyPlant(c.Request.Context(), data, filename, organs)
	if err != nil {
		h.respondError(c, "identify", err)
		return
	}

	metrics.RequestsTotal.WithLabelValues("identify", "success").Inc()
	c.JSON(http.StatusOK, result)
}

// DetectDisease handles POST /detect-disease: one multipart image plus
// optional organ and backend fields.
func (h *PlantHandler) DetectDisease(c *gin.Context) {
	start := time.Now()
	defer func() {
		metrics.RequestDurationSeconds.WithLabelValues("detect_disease").Observe(time.Since(start).Seconds())
	}()

	data, filename, ok := h.readImage(c, "detect_disease")
	if !ok {
		return
	}
	organ := strings.TrimSpace(c.PostForm("organ"))
	backend := strings.TrimSpace(c.PostForm("backend"))

	log.WithFields(log.Fields{
		"filename": filename,
		"size":     len(data),
		"organ":    organ,
		"backend":  backend,
	}).Info("disease.request")

	result, err := h.service.DetectDisease(c.Request.Context(), data, filename, organ, backend)
	if err != nil {
		h.respondError(c, "detect_disease", err)
		return
	}

	metrics.RequestsTotal.WithLabelValues("detect_disease", "success").Inc()
	c.JSON(http.StatusOK, result)
}

// ListOrgans handles GET /organs.
func (h *PlantHandler) ListOrgans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"organs": h.service.ValidOrgans()})
}

// HealthCheck handles GET /health.
func (h *PlantHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "plant-identification-service",
	})
}

// readImage pulls the "image" file field out of the multipart form and
// reads it into memory exactly once. Validation and transmission both
// work on the returned bytes, so the upload stream is never re-read.
func (h *PlantHandler) readImage(c *gin.Context, endpoint string) ([]byte, string, bool) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(endpoint, "validation_error").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing image", "detail": "an image file field is required"})
		return nil, "", false
	}

	data, err := readUpload(fileHeader)
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(endpoint, "upload_error").Inc()
		log.Errorf("Failed to read upload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable upload", "detail": err.Error()})
		return nil, "", false
	}

	return data, fileHeader.Filename, true
}

func readUpload(fileHeader *multipart.FileHeader) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return data, nil
}

// splitOrgans parses the comma-separated organs form value.
func splitOrgans(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	organs := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			organs = append(organs, trimmed)
		}
	}
	return organs
}

// respondError maps the error taxonomy onto HTTP statuses: validation
// errors 400, missing provider configuration 503, provider failures 502
// with an upstream 429 passed through.
func (h *PlantHandler) respondError(c *gin.Context, endpoint string, err error) {
	var ve *models.ValidationError
	var ce *models.ConfigurationError
	var pe *models.ProviderError

	switch {
	case errors.As(err, &ve):
		metrics.RequestsTotal.WithLabelValues(endpoint, "validation_error").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "detail": ve.Detail})
	case errors.As(err, &ce):
		metrics.RequestsTotal.WithLabelValues(endpoint, "configuration_error").Inc()
		log.WithFields(log.Fields{"provider": ce.Provider}).Warn("provider not configured")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "provider not configured", "detail": ce.Detail})
	case errors.As(err, &pe):
		metrics.RequestsTotal.WithLabelValues(endpoint, "provider_error").Inc()
		log.Errorf("Provider call failed: %v", pe)
		status := http.StatusBadGateway
		if pe.StatusCode == http.StatusTooManyRequests {
			status = http.StatusTooManyRequests
		}
		c.JSON(status, gin.H{"error": "provider request failed", "detail": pe.Error()})
	default:
		metrics.RequestsTotal.WithLabelValues(endpoint, "internal_error").Inc()
		log.Errorf("Unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "detail": err.Error()})
	}
}
