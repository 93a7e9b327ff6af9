// Package textproc normalizes raw transcription output before it is
// inserted. Processing is deterministic: the same input and options
// always produce the same output.
package textproc

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/JagadeeshAjjada/speech-to-text-desktop-application/internal/types"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Options controls the processing pipeline.
type Options struct {
	AutoCapitalize bool
	AutoPunctuate  bool
	RemoveFillers  bool
	FillerWords    []string
	// TargetLanguage selects casing rules, e.g. "en" or "tr".
	// Empty falls back to und.
	TargetLanguage string
	// KeystrokeMaxChars decides the insertion style for the result.
	KeystrokeMaxChars int
}

var whitespaceRE = regexp.MustCompile(`\s+`)

// Process runs the pipeline over raw engine output. Filler removal
// never touches text inside double quotes; speakers quoting someone
// get the quote verbatim.
func Process(raw string, opts Options) types.ProcessedText {
	text := strings.TrimSpace(raw)
	text = whitespaceRE.ReplaceAllString(text, " ")

	if opts.RemoveFillers && len(opts.FillerWords) > 0 {
		text = removeFillers(text, opts.FillerWords)
	}
	if opts.AutoCapitalize {
		text = capitalizeSentences(text, opts.TargetLanguage)
	}
	if opts.AutoPunctuate {
		text = ensureTerminalPunctuation(text)
	}

	style := types.StyleKeystrokes
	if opts.KeystrokeMaxChars > 0 && utf8.RuneCountInString(text) > opts.KeystrokeMaxChars {
		style = types.StyleClipboard
	}
	return types.ProcessedText{Text: text, Style: style}
}

// removeFillers strips filler words and phrases outside quoted spans.
func removeFillers(text string, fillers []string) string {
	re := fillerPattern(fillers)
	if re == nil {
		return text
	}

	segments := strings.Split(text, `"`)
	for i := 0; i < len(segments); i += 2 {
		segments[i] = re.ReplaceAllString(segments[i], " ")
	}
	out := strings.Join(segments, `"`)

	out = whitespaceRE.ReplaceAllString(out, " ")
	out = strings.ReplaceAll(out, " ,", ",")
	out = strings.ReplaceAll(out, " .", ".")
	out = strings.ReplaceAll(out, " ?", "?")
	out = strings.ReplaceAll(out, " !", "!")
	return strings.TrimSpace(out)
}

// fillerPattern builds an alternation over the configured fillers.
// Multi-word phrases match across their internal spaces.
func fillerPattern(fillers []string) *regexp.Regexp {
	parts := make([]string, 0, len(fillers))
	for _, f := range fillers {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		parts = append(parts, regexp.QuoteMeta(f))
	}
	if len(parts) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(parts, "|") + `)\b,?`)
}

// capitalizeSentences upper-cases the first letter of the text and of
// every sentence following terminal punctuation, using the casing
// rules of the target language.
func capitalizeSentences(text, lang string) string {
	caser := cases.Upper(language.Make(lang))

	var b strings.Builder
	b.Grow(len(text))
	atStart := true
	for _, r := range text {
		switch {
		case atStart && unicode.IsLetter(r):
			b.WriteString(caser.String(string(r)))
			atStart = false
		case r == '.' || r == '!' || r == '?':
			b.WriteRune(r)
			atStart = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func ensureTerminalPunctuation(text string) string {
	if text == "" {
		return text
	}
	last, _ := utf8.DecodeLastRuneInString(text)
	switch last {
	case '.', '!', '?', ',', ':', ';':
		return text
	}
	return text + "."
}
