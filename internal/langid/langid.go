// Package langid classifies user text into the assistant's supported
// languages: English, Hindi, and Marathi.
package langid

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// Lang is an ISO-639-1 language code from the supported set.
type Lang string

const (
	LangEnglish Lang = "en"
	LangHindi   Lang = "hi"
	LangMarathi Lang = "mr"
)

// Supported reports whether code is one of the assistant's languages.
func Supported(code string) bool {
	switch Lang(code) {
	case LangEnglish, LangHindi, LangMarathi:
		return true
	}
	return false
}

// Detector wraps a statistical language classifier restricted to the
// supported set, with script-based fallbacks so Detect never fails.
type Detector struct {
	classifier lingua.LanguageDetector
}

func NewDetector() *Detector {
	classifier := lingua.NewLanguageDetectorBuilder().
		FromLanguages(lingua.English, lingua.Hindi, lingua.Marathi).
		Build()
	return &Detector{classifier: classifier}
}

// Detect returns the language of text. Empty or whitespace-only input is
// reported as English without consulting the classifier. Any classifier
// miss degrades to a script heuristic: Devanagari text is reported as
// Hindi, everything else as English.
func (d *Detector) Detect(text string) Lang {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return LangEnglish
	}
	if lang, ok := d.classifier.DetectLanguageOf(trimmed); ok {
		return normalize(strings.ToLower(lang.IsoCode639_1().String()), trimmed)
	}
	return scriptFallback(trimmed)
}

// normalize maps a raw classifier code onto the supported set.
func normalize(code, text string) Lang {
	if Supported(code) {
		return Lang(code)
	}
	// Regional variants such as "hi-IN" collapse to their primary subtag.
	primary, _, _ := strings.Cut(code, "-")
	switch primary {
	case "hi":
		return LangHindi
	case "mr":
		return LangMarathi
	}
	return scriptFallback(text)
}

func scriptFallback(text string) Lang {
	if ContainsDevanagari(text) {
		// Hindi is the default for Devanagari text the classifier could
		// not separate from Marathi.
		return LangHindi
	}
	return LangEnglish
}

// ContainsDevanagari reports whether text has any codepoint in the
// Devanagari block (U+0900..U+097F).
func ContainsDevanagari(text string) bool {
	for _, r := range text {
		if r >= 0x0900 && r <= 0x097F {
			return true
		}
	}
	return false
}
