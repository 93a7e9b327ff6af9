package textproc

import (
	"testing"

	"github.com/JagadeeshAjjada/speech-to-text-desktop-application/internal/types"
)

var testFillers = []string{"um", "uh", "er", "ah", "hmm", "you know"}

func TestProcessRemovesFillers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"leading filler", "um, hello world", "hello world"},
		{"mid filler", "this is, uh, a test", "this is, a test"},
		{"phrase filler", "it was, you know, fine", "it was, fine"},
		{"case insensitive", "Um Hmm okay", "okay"},
		{"no fillers", "nothing to remove here", "nothing to remove here"},
		{"filler inside word kept", "umbrella era ahead", "umbrella era ahead"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Process(tt.in, Options{RemoveFillers: true, FillerWords: testFillers})
			if got.Text != tt.want {
				t.Fatalf("got %q, want %q", got.Text, tt.want)
			}
		})
	}
}

func TestProcessPreservesQuotedSpans(t *testing.T) {
	t.Parallel()

	in := `she said "um hello there" and, um, left`
	want := `she said "um hello there" and, left`
	got := Process(in, Options{RemoveFillers: true, FillerWords: testFillers})
	if got.Text != want {
		t.Fatalf("got %q, want %q", got.Text, want)
	}
}

func TestProcessCapitalizesSentences(t *testing.T) {
	t.Parallel()

	got := Process("hello world. how are you? fine! thanks", Options{AutoCapitalize: true, TargetLanguage: "en"})
	want := "Hello world. How are you? Fine! Thanks"
	if got.Text != want {
		t.Fatalf("got %q, want %q", got.Text, want)
	}
}

func TestProcessAddsTerminalPunctuation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"hello world", "hello world."},
		{"hello world.", "hello world."},
		{"really?", "really?"},
		{"", ""},
	}
	for _, tt := range tests {
		got := Process(tt.in, Options{AutoPunctuate: true})
		if got.Text != tt.want {
			t.Fatalf("Process(%q) = %q, want %q", tt.in, got.Text, tt.want)
		}
	}
}

func TestProcessNormalizesWhitespace(t *testing.T) {
	t.Parallel()

	got := Process("  hello \n\t world  ", Options{})
	if got.Text != "hello world" {
		t.Fatalf("got %q", got.Text)
	}
}

func TestProcessIsDeterministic(t *testing.T) {
	t.Parallel()

	opts := Options{
		AutoCapitalize: true,
		AutoPunctuate:  true,
		RemoveFillers:  true,
		FillerWords:    testFillers,
		TargetLanguage: "en",
	}
	in := "um, so this is, uh, the final draft"
	first := Process(in, opts)
	for i := 0; i < 5; i++ {
		if got := Process(in, opts); got != first {
			t.Fatalf("run %d diverged: %q vs %q", i, got.Text, first.Text)
		}
	}
}

func TestProcessInsertionStyle(t *testing.T) {
	t.Parallel()

	short := Process("hi", Options{KeystrokeMaxChars: 10})
	if short.Style != types.StyleKeystrokes {
		t.Fatalf("expected keystrokes for short text, got %v", short.Style)
	}

	long := Process("this is well past the threshold", Options{KeystrokeMaxChars: 10})
	if long.Style != types.StyleClipboard {
		t.Fatalf("expected clipboard for long text, got %v", long.Style)
	}

	unlimited := Process("this is well past the threshold", Options{})
	if unlimited.Style != types.StyleKeystrokes {
		t.Fatalf("expected keystrokes when no threshold is set, got %v", unlimited.Style)
	}
}

func TestDetectLanguage(t *testing.T) {
	t.Parallel()

	if got := DetectLanguage("the quick brown fox jumps over the lazy dog"); got != "en" {
		t.Fatalf("expected en, got %q", got)
	}
	if got := DetectLanguage("   "); got != "" {
		t.Fatalf("expected empty code for blank text, got %q", got)
	}
}
