package api

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/papercomputeco/greenlog/pkg/pipeline"
	"github.com/papercomputeco/greenlog/pkg/storage"
)

// createEntryRequest is the POST /api/entries body. The options and sub
// fields may carry command sentinels; routing happens in the pipeline.
type createEntryRequest struct {
	Content  string `json:"content"`
	Options  string `json:"options"`
	Name     string `json:"name"`
	Sub      string `json:"sub"`
	DeviceID string `json:"device_id"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleListEntries returns the resolved device's entries, newest first.
func (s *Server) handleListEntries(c *fiber.Ctx) error {
	deviceID := resolveDeviceID(c, "")

	entries, err := s.store.ListEntries(c.Context(), deviceID)
	if err != nil {
		s.logger.Error("failed to list entries", zap.String("device_id", deviceID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to list entries"})
	}

	return c.JSON(fiber.Map{"entries": entries})
}

// handleGetEntry returns a single entry by id. Retrieval by id is not
// device-scoped.
func (s *Server) handleGetEntry(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid entry id"})
	}

	entry, err := s.store.GetEntry(c.Context(), id)
	if err != nil {
		var notFound storage.NotFoundError
		if errors.As(err, &notFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "entry not found"})
		}
		s.logger.Error("failed to get entry", zap.Int64("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to get entry"})
	}

	return c.JSON(fiber.Map{"entry": entry})
}

// handleListMemories returns all memories joined with their source entry content.
func (s *Server) handleListMemories(c *fiber.Ctx) error {
	memories, err := s.store.ListAllMemories(c.Context())
	if err != nil {
		s.logger.Error("failed to list memories", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to list memories"})
	}

	return c.JSON(fiber.Map{"memories": memories})
}

// handleCreateEntry routes a submission through the pipeline.
func (s *Server) handleCreateEntry(c *fiber.Ctx) error {
	var req createEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	deviceID := resolveDeviceID(c, req.DeviceID)

	routed, err := pipeline.ParseSubmission(req.Content, req.Options, req.Name, req.Sub, deviceID)
	if err != nil {
		var validation pipeline.ValidationError
		if errors.As(err, &validation) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: validation.Reason})
		}
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid submission"})
	}

	result, err := s.pipe.Process(c.Context(), routed)
	if err != nil {
		s.logger.Error("pipeline failed",
			zap.String("device_id", deviceID),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to process entry"})
	}

	return c.JSON(result)
}

// handleDeleteEntry deletes an entry by id and reports the affected count.
func (s *Server) handleDeleteEntry(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid entry id"})
	}

	changes, err := s.store.DeleteEntry(c.Context(), id)
	if err != nil {
		s.logger.Error("failed to delete entry", zap.Int64("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to delete entry"})
	}

	return c.JSON(fiber.Map{"message": "Entry deleted", "changes": changes})
}
