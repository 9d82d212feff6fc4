package handlers

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"skillscan/resume-analyzer/internal/models"
	"skillscan/resume-analyzer/internal/services"
)

type AnalyzeHandler struct {
	worker      services.Worker
	tracker     *services.StatusTracker
	maxFileSize int64
}

func NewAnalyzeHandler(worker services.Worker, tracker *services.StatusTracker, maxFileSize int64) *AnalyzeHandler {
	return &AnalyzeHandler{
		worker:      worker,
		tracker:     tracker,
		maxFileSize: maxFileSize,
	}
}

// HandleAnalyze handles POST /analyze: one resume PDF plus the job context,
// queued for the analysis pipeline.
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume file is required",
		})
	}

	if fileHeader.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("resume file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".pdf" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("invalid file extension: %s", ext),
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to open uploaded file",
		})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to read uploaded file",
		})
	}

	sub := &services.Submission{
		ID:             uuid.New().String(),
		FileName:       fileHeader.Filename,
		FileData:       data,
		CompanyName:    c.FormValue("company_name"),
		JobTitle:       c.FormValue("job_title"),
		JobDescription: c.FormValue("job_description"),
	}

	if !h.worker.Enqueue(sub) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "analysis queue is unavailable, try again later",
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(models.AnalyzeResponse{
		ID:     sub.ID,
		Status: "queued",
	})
}

// HandleGetStatus handles GET /analyze/:id/status with the ordered pipeline
// status messages recorded so far.
func (h *AnalyzeHandler) HandleGetStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid submission ID format",
		})
	}

	statuses, done, failed, ok := h.tracker.History(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "submission not found",
		})
	}

	return c.JSON(models.StatusResponse{
		ID:       id,
		Done:     done,
		Failed:   failed,
		Statuses: statuses,
	})
}
