package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"codeberg.org/snonux/linguasphere/internal/flashcard"
	"codeberg.org/snonux/linguasphere/internal/session"
	"codeberg.org/snonux/linguasphere/internal/speech"
	"codeberg.org/snonux/linguasphere/internal/translation"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// statusFor maps core errors to an HTTP status and a stable error kind
func statusFor(err error) (int, string) {
	var (
		backendErr *translation.BackendError
		synthErr   *speech.SynthesisError
		persistErr *flashcard.PersistenceError
		indexErr   *flashcard.InvalidIndexError
	)

	switch {
	case errors.Is(err, translation.ErrUnsupportedOperation):
		return http.StatusBadRequest, "unsupported_operation"
	case errors.Is(err, translation.ErrInvalidRequest),
		errors.Is(err, session.ErrEmptyText),
		errors.Is(err, session.ErrUnknownLanguage):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, session.ErrNoPendingFlashcards):
		return http.StatusBadRequest, "no_pending_flashcards"
	case errors.As(err, &indexErr):
		return http.StatusBadRequest, "invalid_index"
	case errors.As(err, &backendErr):
		return http.StatusBadGateway, "translation_backend"
	case errors.As(err, &synthErr):
		if errors.Is(err, speech.ErrUnsupportedLanguage) || errors.Is(err, speech.ErrNoSpeakableText) {
			return http.StatusBadRequest, "speech_synthesis"
		}
		return http.StatusBadGateway, "speech_synthesis"
	case errors.As(err, &persistErr):
		return http.StatusInternalServerError, "persistence"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (s *Server) writeError(c echo.Context, err error) error {
	status, kind := statusFor(err)

	msg := err.Error()
	if kind == "internal" {
		msg = "internal error"
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("path", c.Path()),
			zap.String("kind", kind),
			zap.Error(err))
	}

	return c.JSON(status, errorResponse{Error: msg, Kind: kind})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg, Kind: "invalid_request"})
}
