package server

import (
	_ "embed"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alnah/go-titlegen/internal/apierr"
	"github.com/alnah/go-titlegen/internal/pipeline"
	"github.com/alnah/go-titlegen/internal/prompt"
)

//go:embed form.html
var formHTML []byte

// generateRequest is the POST /generate-titles payload.
type generateRequest struct {
	YouTubeURL string   `json:"youtube_url"`
	NumTitles  int      `json:"num_titles"`
	Languages  []string `json:"languages,omitempty"`
}

// generateResponse is the POST /generate-titles result. On failure
// Success is false and Error carries the user-facing message; a
// transcript that was fetched before the failure still reports its
// length.
type generateResponse struct {
	Success          bool     `json:"success"`
	Titles           []string `json:"titles,omitempty"`
	Analysis         string   `json:"analysis,omitempty"`
	Error            string   `json:"error,omitempty"`
	TranscriptLength int      `json:"transcript_length,omitempty"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(formHTML)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.healthy(); err != nil {
		writeJSON(w, http.StatusInternalServerError, healthResponse{
			Status:  "unhealthy",
			Message: err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "healthy",
		Message: "API configurée et prête à générer des titres",
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, generateResponse{
			Success: false,
			Error:   "Corps de requête JSON invalide.",
		})
		return
	}

	numTitles := req.NumTitles
	if numTitles == 0 {
		numTitles = prompt.DefaultTitles
	}
	numTitles = prompt.ClampCount(numTitles)

	result, transcriptLen, err := s.runner.FromURL(r.Context(), req.YouTubeURL, numTitles, req.Languages...)
	if err != nil {
		writeJSON(w, statusFor(err), generateResponse{
			Success:          false,
			Error:            pipeline.UserMessage(err),
			Analysis:         result.RawText,
			TranscriptLength: transcriptLen,
		})
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{
		Success:          true,
		Titles:           result.Titles,
		Analysis:         result.RawText,
		TranscriptLength: transcriptLen,
	})
}

// statusFor maps a pipeline error to an HTTP status. Domain failures
// stay 200 so API clients read success/error from the body; only a
// server misconfiguration is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apierr.ErrCredentialMissing):
		return http.StatusInternalServerError
	default:
		return http.StatusOK
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
