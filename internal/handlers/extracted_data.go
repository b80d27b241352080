package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/lead-tracker/internal/events"
	"github.com/jonesrussell/lead-tracker/internal/logger"
	"github.com/jonesrussell/lead-tracker/internal/middleware"
	"github.com/jonesrussell/lead-tracker/internal/models"
	"github.com/jonesrussell/lead-tracker/internal/repository"
)

// ExtractedDataHandler serves the extension's raw-extraction endpoints.
// All operations are scoped to the authenticated identity.
type ExtractedDataHandler struct {
	store     ExtractedDataStore
	publisher *events.Publisher
	logger    logger.Logger
}

func NewExtractedDataHandler(store ExtractedDataStore, publisher *events.Publisher, log logger.Logger) *ExtractedDataHandler {
	return &ExtractedDataHandler{
		store:     store,
		publisher: publisher,
		logger:    log,
	}
}

// Save ingests an arbitrary extension payload. The whole payload is preserved
// verbatim in extractedFields; type, platform, and url are lifted out for
// filtering.
func (h *ExtractedDataHandler) Save(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "No token provided. Access denied."})
		return
	}

	var payload models.JSONMap
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body", "details": err.Error()})
		return
	}

	data := buildExtractedData(payload, identity.ID.String())

	if err := data.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Validation failed", "details": err.Error()})
		return
	}

	if err := h.store.Create(c.Request.Context(), data); err != nil {
		h.logger.Error("Failed to save extracted data",
			logger.String("type", data.Type),
			logger.String("url", data.URL),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to save data"})
		return
	}

	h.logger.Info("Extracted data saved",
		logger.String("id", data.ID),
		logger.String("type", data.Type),
		logger.String("extracted_by", data.ExtractedBy),
	)

	h.publisher.PublishAsync(events.RecordEvent{
		EventType:  events.RecordCreated,
		RecordKind: events.KindExtractedData,
		RecordID:   data.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Data saved successfully",
		"data":    data.Summary(),
	})
}

// List returns the identity's records with optional type/platform filters and
// 1-indexed pagination.
func (h *ExtractedDataHandler) List(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "No token provided. Access denied."})
		return
	}

	filter := repository.ExtractedDataFilter{
		Type:     c.Query("type"),
		Platform: c.Query("platform"),
		Page:     intQuery(c, "page", repository.DefaultPage),
		Limit:    intQuery(c, "limit", repository.DefaultLimit),
	}
	filter.Normalize()

	owner := identity.ID.String()

	data, err := h.store.ListPaginated(c.Request.Context(), owner, filter)
	if err != nil {
		h.logger.Error("Failed to list extracted data", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch data"})
		return
	}

	total, err := h.store.Count(c.Request.Context(), owner, filter)
	if err != nil {
		h.logger.Error("Failed to count extracted data", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
		"pagination": gin.H{
			"page":  filter.Page,
			"limit": filter.Limit,
			"total": total,
			"pages": pageCount(total, filter.Limit),
		},
	})
}

// Stats returns the identity's per-type aggregation plus a flat summary of
// the three known LinkedIn types. Unrecognized types only contribute to
// totalRecords.
func (h *ExtractedDataHandler) Stats(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "No token provided. Access denied."})
		return
	}

	stats, err := h.store.StatsByType(c.Request.Context(), identity.ID.String())
	if err != nil {
		h.logger.Error("Failed to aggregate extraction stats", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to get statistics"})
		return
	}

	summary := foldSummary(stats)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"summary":     summary,
			"byType":      stats,
			"generatedAt": time.Now().UTC(),
		},
	})
}

// StatsSummary folds the known LinkedIn types into flat totals.
type StatsSummary struct {
	TotalProfiles  int `json:"totalProfiles"`
	TotalCompanies int `json:"totalCompanies"`
	TotalJobs      int `json:"totalJobs"`
	TotalRecords   int `json:"totalRecords"`
}

func foldSummary(stats []repository.TypeCount) StatsSummary {
	var summary StatsSummary
	for _, group := range stats {
		summary.TotalRecords += group.Count
		switch group.Type {
		case models.TypeLinkedInProfile:
			summary.TotalProfiles = group.Count
		case models.TypeLinkedInCompany:
			summary.TotalCompanies = group.Count
		case models.TypeLinkedInJob:
			summary.TotalJobs = group.Count
		}
	}
	return summary
}

func buildExtractedData(payload models.JSONMap, extractedBy string) *models.ExtractedData {
	data := &models.ExtractedData{
		Type:            stringField(payload, "type"),
		Platform:        stringField(payload, "platform"),
		URL:             stringField(payload, "url"),
		ExtractedFields: payload,
		ExtractedBy:     extractedBy,
		Metadata: models.Metadata{
			ExtensionVersion: extensionVersion(payload),
			DataVersion:      models.DataVersion,
		},
	}
	if data.Platform == "" {
		data.Platform = models.DefaultPlatform
	}
	return data
}

// extensionVersion digs extractionMetadata.extractorVersion out of the raw
// payload, falling back to the default version.
func extensionVersion(payload models.JSONMap) string {
	meta, ok := payload["extractionMetadata"].(map[string]any)
	if !ok {
		return models.DefaultExtensionVersion
	}
	version, ok := meta["extractorVersion"].(string)
	if !ok || version == "" {
		return models.DefaultExtensionVersion
	}
	return version
}

func stringField(payload models.JSONMap, key string) string {
	val, _ := payload[key].(string)
	return val
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 1 {
		return fallback
	}
	return val
}

// pageCount returns ceil(total/limit).
func pageCount(total, limit int) int {
	if limit < 1 {
		return 0
	}
	return (total + limit - 1) / limit
}
