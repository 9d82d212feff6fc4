package handlers

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"skillscan/resume-analyzer/internal/models"
	"skillscan/resume-analyzer/internal/repositories"
)

type ResumeHandler struct {
	store repositories.ResumeStore
}

func NewResumeHandler(store repositories.ResumeStore) *ResumeHandler {
	return &ResumeHandler{store: store}
}

// HandleListResumes handles GET /resumes: every persisted submission record,
// provisional ones included.
func (h *ResumeHandler) HandleListResumes(c *fiber.Ctx) error {
	items, err := h.store.List(c.Context(), models.ResumeKeyPattern, true)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list resumes",
		})
	}

	resumes := make([]models.Resume, 0, len(items))
	for _, item := range items {
		var resume models.Resume
		if err := json.Unmarshal([]byte(item.Value), &resume); err != nil {
			// Tolerate records written by older versions
			log.Printf("⚠️  Skipping unparseable record %s: %v\n", item.Key, err)
			continue
		}
		resumes = append(resumes, resume)
	}

	return c.JSON(models.ResumeListResponse{Resumes: resumes})
}

// HandleGetResume handles GET /resumes/:id.
func (h *ResumeHandler) HandleGetResume(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid resume ID format",
		})
	}

	value, err := h.store.Get(c.Context(), models.ResumeKey(id))
	if errors.Is(err, repositories.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "resume not found",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load resume",
		})
	}

	var resume models.Resume
	if err := json.Unmarshal([]byte(value), &resume); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "stored record is corrupted",
		})
	}

	return c.JSON(resume)
}
