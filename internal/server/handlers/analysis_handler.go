package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mawucano-design/diagnostico-forrajero/internal/domain/models"
	"github.com/mawucano-design/diagnostico-forrajero/internal/repository/mongodb"
	"github.com/mawucano-design/diagnostico-forrajero/internal/service/analysis"
	"github.com/mawucano-design/diagnostico-forrajero/internal/service/export"
	"github.com/mawucano-design/diagnostico-forrajero/internal/service/forage"
)

// AnalysisHandler handles forage analysis HTTP operations.
type AnalysisHandler struct {
	svc    *analysis.Service
	logger *zap.Logger
}

// NewAnalysisHandler constructs the HTTP handler adapter.
func NewAnalysisHandler(svc *analysis.Service, logger *zap.Logger) *AnalysisHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisHandler{svc: svc, logger: logger}
}

// ListPastures returns the built-in forage parameter registry.
func (h *AnalysisHandler) ListPastures(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"pastures": forage.ListRegistry()})
}

// RunAnalysis executes the pipeline for the posted parcel collection.
func (h *AnalysisHandler) RunAnalysis(c *gin.Context) {
	var req models.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid analysis payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	record, err := h.svc.Run(c.Request.Context(), req)
	if err != nil {
		h.respondRunError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

// ListAnalyses returns the most recent stored runs.
func (h *AnalysisHandler) ListAnalyses(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)

	records, err := h.svc.List(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("failed listing analyses", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list analyses"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"analyses": records})
}

// GetAnalysis fetches a stored run by id.
func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	record, ok := h.fetch(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, record)
}

// ExportCSV streams a stored run as a flat per-parcel CSV.
func (h *AnalysisHandler) ExportCSV(c *gin.Context) {
	record, ok := h.fetch(c)
	if !ok {
		return
	}

	filename := fmt.Sprintf("analisis_%s_%s.csv", record.PastureType, record.CreatedAt.Format("20060102_1504"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "text/csv; charset=utf-8")

	if err := export.WriteCSV(c.Writer, record); err != nil {
		h.logger.Error("failed streaming csv export", zap.String("analysis_id", record.ID), zap.Error(err))
	}
}

// ExportGeoJSON streams a stored run as a FeatureCollection.
func (h *AnalysisHandler) ExportGeoJSON(c *gin.Context) {
	record, ok := h.fetch(c)
	if !ok {
		return
	}

	filename := fmt.Sprintf("analisis_%s_%s.geojson", record.PastureType, record.CreatedAt.Format("20060102_1504"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/geo+json")

	if err := export.WriteGeoJSON(c.Writer, record); err != nil {
		h.logger.Error("failed streaming geojson export", zap.String("analysis_id", record.ID), zap.Error(err))
	}
}

// CreatePaddock registers a paddock for scheduled monitoring.
func (h *AnalysisHandler) CreatePaddock(c *gin.Context) {
	var paddock models.Paddock
	if err := c.ShouldBindJSON(&paddock); err != nil {
		h.logger.Warn("invalid paddock payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	saved, err := h.svc.RegisterPaddock(c.Request.Context(), paddock)
	if err != nil {
		h.respondRunError(c, err)
		return
	}

	c.JSON(http.StatusCreated, saved)
}

// ListPaddocks returns every monitored paddock.
func (h *AnalysisHandler) ListPaddocks(c *gin.Context) {
	paddocks, err := h.svc.ListPaddocks(c.Request.Context())
	if err != nil {
		h.logger.Error("failed listing paddocks", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list paddocks"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"paddocks": paddocks})
}

func (h *AnalysisHandler) fetch(c *gin.Context) (models.AnalysisRecord, bool) {
	id := c.Param("id")

	record, err := h.svc.Get(c.Request.Context(), id)
	if errors.Is(err, mongodb.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
		return models.AnalysisRecord{}, false
	}
	if err != nil {
		h.logger.Error("failed fetching analysis", zap.String("analysis_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch analysis"})
		return models.AnalysisRecord{}, false
	}
	return record, true
}

func (h *AnalysisHandler) respondRunError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidForageParameters),
		errors.Is(err, forage.ErrMissingCustomParameters):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, forage.ErrUnknownPastureType):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("analysis run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to run analysis"})
	}
}
