// Package pipeline composes the core into the two entry points the
// front-ends call: resolving a video reference into transcript text, and
// generating titles from source text. It also owns the mapping from
// error kinds to user-facing messages, so the REST API, the web form,
// and the console all speak with one voice.
package pipeline

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/alnah/go-titlegen/internal/apierr"
	"github.com/alnah/go-titlegen/internal/prompt"
	"github.com/alnah/go-titlegen/internal/titles"
	"github.com/alnah/go-titlegen/internal/transcript"
	"github.com/alnah/go-titlegen/internal/video"
)

// TitleGenerator is the generation side of the pipeline.
// *titles.Generator implements this.
type TitleGenerator interface {
	Generate(ctx context.Context, sourceText string, opts prompt.Options) (titles.Result, error)
}

// Pipeline wires a transcript provider and a title generator.
// Each request runs as one independent sequential pass; the pipeline
// holds no per-request state and is safe for concurrent use.
type Pipeline struct {
	provider  transcript.Provider
	generator TitleGenerator
}

// New creates a Pipeline.
func New(provider transcript.Provider, generator TitleGenerator) *Pipeline {
	return &Pipeline{provider: provider, generator: generator}
}

// ResolveTranscript parses the YouTube URL and fetches the transcript
// text. Without explicit prefs the provider's default language fallback
// applies.
func (p *Pipeline) ResolveTranscript(ctx context.Context, youtubeURL string, prefs ...string) (string, error) {
	id, err := video.Resolve(youtubeURL)
	if err != nil {
		return "", err
	}
	return p.provider.Fetch(ctx, id, prefs...)
}

// GenerateTitles generates titles from already-acquired source text.
func (p *Pipeline) GenerateTitles(ctx context.Context, sourceText string, opts prompt.Options) (titles.Result, error) {
	return p.generator.Generate(ctx, sourceText, opts)
}

// FromURL runs the complete workflow for one video URL: resolve, fetch,
// generate. transcriptLen is the character count of the fetched
// transcript, reported even when generation fails afterwards.
func (p *Pipeline) FromURL(ctx context.Context, youtubeURL string, numTitles int, prefs ...string) (result titles.Result, transcriptLen int, err error) {
	text, err := p.ResolveTranscript(ctx, youtubeURL, prefs...)
	if err != nil {
		return titles.Result{}, 0, err
	}
	transcriptLen = utf8.RuneCountInString(text)

	result, err = p.GenerateTitles(ctx, text, prompt.Options{
		NumTitles: numTitles,
		Kind:      prompt.SourceTranscript,
	})
	return result, transcriptLen, err
}

// UserMessage maps a core error to its user-facing message. Front-ends
// translate the sentinel into their medium (HTTP status, console line)
// but reuse this string instead of reinventing it.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, video.ErrInvalidReference):
		return "URL YouTube invalide. Formats acceptés : youtube.com/watch?v=..., youtu.be/..., youtube.com/embed/..."
	case errors.Is(err, transcript.ErrUnavailable):
		return "Transcription non disponible pour cette vidéo."
	case errors.Is(err, apierr.ErrCredentialMissing):
		return "Clé API non configurée. Vérifiez votre fichier .env."
	case errors.Is(err, apierr.ErrAuthFailed):
		return "Clé API invalide. Vérifiez votre configuration."
	case errors.Is(err, apierr.ErrQuotaExceeded):
		return "Quota API dépassé. Vérifiez votre facturation."
	case errors.Is(err, apierr.ErrRateLimit):
		return "Trop de requêtes. Réessayez dans quelques instants."
	case errors.Is(err, apierr.ErrTimeout), errors.Is(err, apierr.ErrTransport):
		return "Erreur de connexion au service. Réessayez."
	case errors.Is(err, titles.ErrNoTitles):
		return "Aucun titre n'a pu être extrait de la réponse du modèle."
	case errors.Is(err, context.Canceled):
		return "Opération annulée."
	default:
		return "Erreur interne."
	}
}
