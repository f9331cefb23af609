// Package prompt builds the LLM request payload for title generation.
//
// The built-in instruction set targets French YouTube titles and a
// strict numbered-list response format. An externally supplied override
// (see override.go) replaces the built-in instructions entirely; the
// override is trusted to specify tone, language, format and constraints
// on its own.
package prompt

import (
	"fmt"
	"strings"
)

// Title count bounds. Out-of-range requests are clamped, not rejected.
const (
	MinTitles     = 1
	MaxTitles     = 10
	DefaultTitles = 5
)

// Source text handling. Longer sources are cut at the cap with a
// visible marker: title generation works from the opening portion of a
// transcript, so the loss is deliberate.
const (
	sourceRuneLimit  = 3000
	truncationMarker = "..."
)

// SourceKind distinguishes what the source text is, which changes how
// the instructions describe it to the model.
type SourceKind int

const (
	// SourceTranscript is spoken-word caption text fetched from a video.
	SourceTranscript SourceKind = iota
	// SourceDescription is a free-text description typed by the user.
	SourceDescription
)

// label returns the French noun phrase used in the instructions.
func (k SourceKind) label() string {
	if k == SourceDescription {
		return "description de vidéo"
	}
	return "transcription de vidéo YouTube"
}

// Options holds validated generation parameters.
type Options struct {
	NumTitles int
	Kind      SourceKind
}

// ClampCount constrains a requested title count to [MinTitles, MaxTitles].
// Zero and negative values fall back to the minimum.
func ClampCount(n int) int {
	if n < MinTitles {
		return MinTitles
	}
	if n > MaxTitles {
		return MaxTitles
	}
	return n
}

// Prompt is the assembled LLM request payload.
type Prompt struct {
	// SystemInstructions is empty unless an override is in effect.
	SystemInstructions string
	UserMessage        string
	UsedOverride       bool
}

// Build assembles the prompt for the given source text and options.
// override, when non-empty, becomes the system instructions verbatim and
// the user message shrinks to the source text plus the target count.
// The count is re-clamped here regardless of what the caller validated.
func Build(sourceText string, opts Options, override string) Prompt {
	count := ClampCount(opts.NumTitles)
	text := Truncate(sourceText)
	label := opts.Kind.label()

	if override != "" {
		return Prompt{
			SystemInstructions: override,
			UserMessage: fmt.Sprintf("Voici une %s :\n\n%s\n\nGénère %d titres.",
				label, text, count),
			UsedOverride: true,
		}
	}

	return Prompt{
		UserMessage: fmt.Sprintf(builtinInstructions, label, count, text, count, count),
	}
}

// builtinInstructions is the default instruction set, filled with the
// source label, the target count, and the (possibly truncated) source
// text. Kept as close as possible to what the model reliably follows:
// exactly N lines, 1-based ordinals.
const builtinInstructions = `Analyse cette %s et génère %d propositions de titres optimisés.

Les titres doivent être :
- Accrocheurs et engageants
- Clairs sur le contenu de la vidéo
- Optimisés pour le référencement YouTube
- Entre 40 et 70 caractères idéalement
- En français

Texte source :
%s

Réponds UNIQUEMENT avec les %d titres, un par ligne, numérotés de 1 à %d.`

// Truncate cuts source text at the rune cap and appends the truncation
// marker. Text at or under the cap is returned unchanged.
func Truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= sourceRuneLimit {
		return text
	}
	return strings.TrimSpace(string(runes[:sourceRuneLimit])) + truncationMarker
}
