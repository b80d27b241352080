package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/lead-tracker/internal/events"
	"github.com/jonesrussell/lead-tracker/internal/logger"
	"github.com/jonesrussell/lead-tracker/internal/models"
	"github.com/jonesrussell/lead-tracker/internal/repository"
	"github.com/jonesrussell/lead-tracker/internal/status"
)

// LeadHandler serves lead ingestion, listing, and status transitions.
type LeadHandler struct {
	store     LeadStore
	publisher *events.Publisher
	logger    logger.Logger
}

func NewLeadHandler(store LeadStore, publisher *events.Publisher, log logger.Logger) *LeadHandler {
	return &LeadHandler{
		store:     store,
		publisher: publisher,
		logger:    log,
	}
}

// createLeadRequest mirrors the extension payload. ExtractedFrom is a pointer
// so an omitted block can be told apart from an empty one; the top-level url
// only feeds the provenance fallback.
type createLeadRequest struct {
	User          models.LeadContact `json:"user"`
	Company       models.LeadCompany `json:"company"`
	ExtractedFrom *models.Provenance `json:"extractedFrom"`
	URL           string             `json:"url"`
}

// Create ingests a lead record.
func (h *LeadHandler) Create(c *gin.Context) {
	var req createLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body", "details": err.Error()})
		return
	}

	lead := models.Lead{
		User:    req.User,
		Company: req.Company,
	}
	if req.ExtractedFrom != nil {
		lead.ExtractedFrom = *req.ExtractedFrom
	} else {
		lead.ExtractedFrom = models.UnknownProvenance(req.URL)
	}
	lead.ApplyDefaults()

	if err := lead.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Validation failed", "details": err.Error()})
		return
	}

	if err := h.store.Create(c.Request.Context(), &lead); err != nil {
		h.logger.Error("Failed to save lead", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to save lead"})
		return
	}

	h.logger.Info("Lead saved",
		logger.String("id", lead.ID),
		logger.String("platform", lead.ExtractedFrom.Platform),
	)

	h.publisher.PublishAsync(events.RecordEvent{
		EventType:  events.RecordCreated,
		RecordKind: events.KindLead,
		RecordID:   lead.ID,
		Status:     lead.User.Status,
	})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Lead saved successfully",
		"data":    lead,
	})
}

// List returns all leads, optionally filtered by status.
func (h *LeadHandler) List(c *gin.Context) {
	filter, ok := statusFilter(c)
	if !ok {
		return
	}

	leads, err := h.store.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list leads", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch leads"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    leads,
		"count":   len(leads),
		"filters": appliedFilters(filter),
	})
}

// UpdateStatus transitions the lead's lifecycle status.
func (h *LeadHandler) UpdateStatus(c *gin.Context) {
	updated, ok := transitionStatus(c, h.store.UpdateStatus, "Lead", h.logger)
	if !ok {
		return
	}

	h.publisher.PublishAsync(events.RecordEvent{
		EventType:  events.StatusChanged,
		RecordKind: events.KindLead,
		RecordID:   updated.ID,
		Status:     updated.Status,
	})
}

// statusUpdateRequest is the body of a status transition.
type statusUpdateRequest struct {
	Status string `json:"status"`
}

// transitionStatus implements the shared status-transition operation: validate
// the new status against the status set, apply it by id, and write the
// response envelope. Returns the projection and true on success.
func transitionStatus(
	c *gin.Context,
	update func(ctx context.Context, id string, st status.Status) (*models.StatusUpdate, error),
	kind string,
	log logger.Logger,
) (*models.StatusUpdate, bool) {
	id := c.Param("id")

	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body", "details": err.Error()})
		return nil, false
	}

	st, err := status.Parse(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   fmt.Sprintf("Invalid status. Must be one of: %s", status.ValidList()),
		})
		return nil, false
	}

	updated, err := update(c.Request.Context(), id, st)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": kind + " not found"})
		return nil, false
	}
	if err != nil {
		log.Error("Failed to update status",
			logger.String("kind", kind),
			logger.String("id", id),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   fmt.Sprintf("Failed to update %s status", kindLower(kind)),
		})
		return nil, false
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("%s status updated to %s", kind, st),
		"data":    updated,
	})
	return updated, true
}

// statusFilter parses the optional status query parameter, writing the 400
// envelope itself for invalid values.
func statusFilter(c *gin.Context) (*status.Status, bool) {
	raw := c.Query("status")
	if raw == "" {
		return nil, true
	}
	st, err := status.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   fmt.Sprintf("Invalid status. Must be one of: %s", status.ValidList()),
		})
		return nil, false
	}
	return &st, true
}

func appliedFilters(st *status.Status) gin.H {
	if st == nil {
		return gin.H{}
	}
	return gin.H{"status": st.String()}
}

func kindLower(kind string) string {
	switch kind {
	case "Lead":
		return "lead"
	case "Job":
		return "job"
	}
	return kind
}
