package server

import (
	"errors"
	"os"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/mrsingh-rishi/voice-scribe/store"
	"github.com/mrsingh-rishi/voice-scribe/stt"
)

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleClientConfig hands the embedded client its identity-provider
// bootstrap values, so the client needs no build-time configuration.
func (s *Server) handleClientConfig(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"supabaseUrl":     s.cfg.SupabaseURL,
		"supabaseAnonKey": s.cfg.SupabaseAnonKey,
	})
}

// handleTranscribe runs the upload pipeline: receive the file, forward
// it to the recognition service, persist the result, return it.
func (s *Server) handleTranscribe(c *fiber.Ctx) error {
	userID := c.Locals(userIDKey).(string)

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No audio file provided"})
	}

	// The upload goes through a scoped temp file that is removed on
	// every exit path, success or not.
	tmp, err := os.CreateTemp("", "voice-scribe-upload-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := c.SaveFile(fileHeader, tmpPath); err != nil {
		return err
	}
	audio, err := os.ReadFile(tmpPath)
	if err != nil {
		return err
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	text, err := s.stt.Transcribe(c.UserContext(), audio, mimeType)
	if err != nil {
		if errors.Is(err, stt.ErrNoSpeech) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No speech detected"})
		}
		// Upstream rejection and transport failures both mean the
		// recognition service did not give us a transcript.
		s.logger.Warn("transcription failed",
			zap.String("owner", userID),
			zap.String("mimeType", mimeType),
			zap.Error(err),
		)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "STT service failed"})
	}

	rec, err := s.store.Create(c.UserContext(), userID, text, mimeType)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"transcript": rec.Text, "id": rec.ID})
}

func (s *Server) handleHistory(c *fiber.Ctx) error {
	userID := c.Locals(userIDKey).(string)

	records, err := s.store.ListByOwner(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(records)
}

func (s *Server) handleDelete(c *fiber.Ctx) error {
	userID := c.Locals(userIDKey).(string)
	id := c.Params("id")

	if err := s.store.Delete(c.UserContext(), id, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
		}
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
