package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/lead-tracker/internal/events"
	"github.com/jonesrussell/lead-tracker/internal/logger"
	"github.com/jonesrussell/lead-tracker/internal/models"
)

// JobHandler serves job ingestion, listing, and status transitions.
type JobHandler struct {
	store     JobStore
	publisher *events.Publisher
	logger    logger.Logger
}

func NewJobHandler(store JobStore, publisher *events.Publisher, log logger.Logger) *JobHandler {
	return &JobHandler{
		store:     store,
		publisher: publisher,
		logger:    log,
	}
}

type createJobRequest struct {
	Job           models.JobDetails  `json:"job"`
	Company       models.JobCompany  `json:"company"`
	ExtractedFrom *models.Provenance `json:"extractedFrom"`
	URL           string             `json:"url"`
}

// Create ingests a job record.
func (h *JobHandler) Create(c *gin.Context) {
	var req createJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body", "details": err.Error()})
		return
	}

	job := models.Job{
		Job:     req.Job,
		Company: req.Company,
	}
	if req.ExtractedFrom != nil {
		job.ExtractedFrom = *req.ExtractedFrom
	} else {
		job.ExtractedFrom = models.UnknownProvenance(req.URL)
	}
	job.ApplyDefaults()

	if err := job.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Validation failed", "details": err.Error()})
		return
	}

	if err := h.store.Create(c.Request.Context(), &job); err != nil {
		h.logger.Error("Failed to save job", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to save job"})
		return
	}

	h.logger.Info("Job saved",
		logger.String("id", job.ID),
		logger.String("title", job.Job.Title),
	)

	h.publisher.PublishAsync(events.RecordEvent{
		EventType:  events.RecordCreated,
		RecordKind: events.KindJob,
		RecordID:   job.ID,
		Status:     job.Job.Status,
	})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Job saved successfully",
		"data":    job,
	})
}

// List returns all jobs, optionally filtered by status.
func (h *JobHandler) List(c *gin.Context) {
	filter, ok := statusFilter(c)
	if !ok {
		return
	}

	jobs, err := h.store.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list jobs", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch jobs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    jobs,
		"count":   len(jobs),
		"filters": appliedFilters(filter),
	})
}

// UpdateStatus transitions the job's lifecycle status.
func (h *JobHandler) UpdateStatus(c *gin.Context) {
	updated, ok := transitionStatus(c, h.store.UpdateStatus, "Job", h.logger)
	if !ok {
		return
	}

	h.publisher.PublishAsync(events.RecordEvent{
		EventType:  events.StatusChanged,
		RecordKind: events.KindJob,
		RecordID:   updated.ID,
		Status:     updated.Status,
	})
}
