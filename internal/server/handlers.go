package server

import (
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"codeberg.org/snonux/linguasphere/internal/flashcard"
	"codeberg.org/snonux/linguasphere/internal/language"
	"codeberg.org/snonux/linguasphere/internal/session"
	"codeberg.org/snonux/linguasphere/internal/translation"
)

type languageResponse struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type translateRequest struct {
	Text    string `json:"text"`
	Source  string `json:"source"`
	Target  string `json:"target"`
	Backend string `json:"backend"`
	Speak   bool   `json:"speak"`
}

type translateResponse struct {
	*session.Outcome
	AudioURL    string `json:"audio_url,omitempty"`
	SpeechError string `json:"speech_error,omitempty"`
}

type saveFlashcardsRequest struct {
	SourceText     string `json:"source_text"`
	TranslatedText string `json:"translated_text"`
	SourceLang     string `json:"source_lang"`
	TargetLang     string `json:"target_lang"`
}

type flashcardsResponse struct {
	Flashcards []flashcard.Flashcard `json:"flashcards"`
	Pending    []flashcard.Flashcard `json:"pending"`
}

type savedResponse struct {
	Saved int `json:"saved"`
}

func (s *Server) listLanguages(c echo.Context) error {
	prefix := strings.TrimSpace(c.QueryParam("prefix"))

	var names []string
	if prefix == "" {
		names = language.Names()
	} else {
		names = language.Suggest(prefix)
	}

	out := make([]languageResponse, 0, len(names))
	for _, name := range names {
		code, _ := language.ResolveCode(name)
		out = append(out, languageResponse{Name: name, Code: code})
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) translate(c echo.Context) error {
	var req translateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	backend := s.defaultBackend
	if req.Backend != "" {
		b, err := translation.ParseBackend(req.Backend)
		if err != nil {
			return badRequest(c, err.Error())
		}
		backend = b
	}

	ctx := c.Request().Context()

	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := s.session.Translate(ctx, req.Text, req.Source, req.Target, backend)
	if err != nil {
		return s.writeError(c, err)
	}

	resp := translateResponse{Outcome: out}
	if req.Speak {
		// a failed speech render does not fail the translation
		if _, err := s.session.SpeakLast(ctx, ""); err != nil {
			s.logger.Warn("speech output failed", zap.Error(err))
			resp.SpeechError = err.Error()
		} else {
			resp.AudioURL = "/api/audio"
		}
	}

	return c.JSON(http.StatusOK, resp)
}

func (s *Server) listFlashcards(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cards, err := s.session.ListFlashcards()
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, flashcardsResponse{
		Flashcards: cards,
		Pending:    s.session.Pending(),
	})
}

// saveFlashcards saves the pending cards, or generates and saves cards for
// the pair in the body when one is given
func (s *Server) saveFlashcards(c echo.Context) error {
	var req saveFlashcardsRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.SourceText != "" || req.TranslatedText != "" {
		cards, err := s.session.GenerateAndMaybeSaveFlashcards(req.SourceText, req.TranslatedText, req.SourceLang, req.TargetLang, true)
		if err != nil {
			return s.writeError(c, err)
		}
		return c.JSON(http.StatusCreated, savedResponse{Saved: len(cards)})
	}

	n := len(s.session.Pending())
	if err := s.session.SavePending(); err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, savedResponse{Saved: n})
}

func (s *Server) deleteFlashcard(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return badRequest(c, "flashcard index must be an integer")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.session.DeleteFlashcard(index); err != nil {
		return s.writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) audio(c echo.Context) error {
	s.mu.Lock()
	path := s.session.LastAudio()
	s.mu.Unlock()

	if path == "" {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "no audio rendered yet", Kind: "not_found"})
	}
	if _, err := os.Stat(path); err != nil {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "audio file is gone", Kind: "not_found"})
	}
	return c.File(path)
}
