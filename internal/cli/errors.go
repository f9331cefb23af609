package cli

import "errors"

// CLI-specific sentinel errors.
// These are validation/usage errors that don't belong to domain packages.

var (
	// ErrUnsupportedProvider indicates an unknown LLM provider name.
	ErrUnsupportedProvider = errors.New("unsupported provider")

	// ErrNoSource indicates neither a YouTube URL nor a description was given.
	ErrNoSource = errors.New("no source: pass a YouTube URL or --description")
)
