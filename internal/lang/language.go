// Package lang handles caption language codes and fallback preferences.
//
// Transcript tracks are tagged with ISO 639-1 codes, sometimes with a
// regional suffix ("en-US") or an auto-generated marker ("fr (auto)").
// Matching is always done on the normalized base code.
package lang

import (
	"fmt"
	"strings"
)

// Any is the wildcard preference: the first available caption track wins,
// auto-generated tracks included.
const Any = ""

// DefaultPreference is the caption language fallback order: French first,
// then English, then whatever track the video has.
var DefaultPreference = []string{"fr", "en", Any}

// validLanguages contains ISO 639-1 codes for languages YouTube commonly
// captions. Not exhaustive; users can request additions.
var validLanguages = map[string]bool{
	"ar": true, // Arabic
	"de": true, // German
	"en": true, // English
	"es": true, // Spanish
	"fr": true, // French
	"hi": true, // Hindi
	"id": true, // Indonesian
	"it": true, // Italian
	"ja": true, // Japanese
	"ko": true, // Korean
	"nl": true, // Dutch
	"pl": true, // Polish
	"pt": true, // Portuguese
	"ru": true, // Russian
	"sv": true, // Swedish
	"th": true, // Thai
	"tr": true, // Turkish
	"uk": true, // Ukrainian
	"vi": true, // Vietnamese
	"zh": true, // Chinese
}

// Normalize normalizes a language code to lowercase with hyphen separator.
// Accepts: "pt-BR", "pt_BR", "PT-BR", "pt-br" -> "pt-br"
func Normalize(code string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(code), "_", "-"))
}

// Validate checks if the language code is valid.
// Accepts ISO 639-1 codes (e.g., "en", "fr") and locales (e.g., "pt-BR").
// The Any wildcard is valid. Returns ErrInvalid otherwise.
func Validate(code string) error {
	if code == Any {
		return nil
	}
	if !validLanguages[BaseCode(code)] {
		return fmt.Errorf("invalid language code %q (use ISO 639-1 codes like 'en', 'fr', 'pt-BR'): %w",
			code, ErrInvalid)
	}
	return nil
}

// BaseCode extracts the ISO 639-1 base language code from a locale.
// Caption tracks report regional variants; matching uses base codes only.
// Examples: "pt-BR" -> "pt", "zh-CN" -> "zh", "en" -> "en"
func BaseCode(code string) string {
	normalized := Normalize(code)
	// Auto-generated tracks may be tagged like "fr (auto)".
	if idx := strings.IndexAny(normalized, " ("); idx != -1 {
		normalized = strings.TrimSpace(normalized[:idx])
	}
	if idx := strings.Index(normalized, "-"); idx != -1 {
		return normalized[:idx]
	}
	return normalized
}

// Matches reports whether a track language code satisfies a preference.
// The Any preference matches every track.
func Matches(pref, trackCode string) bool {
	if pref == Any {
		return true
	}
	return BaseCode(pref) == BaseCode(trackCode)
}
