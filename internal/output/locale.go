package output

import (
	"os"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Locale formats counts for summaries.
type Locale struct {
	printer *message.Printer
}

// DetectLocale resolves the user's locale from LC_ALL, LC_NUMERIC or LANG.
// Falls back to en-US if nothing is set or parseable.
func DetectLocale() Locale {
	raw := os.Getenv("LC_ALL")
	if raw == "" {
		raw = os.Getenv("LC_NUMERIC")
	}
	if raw == "" {
		raw = os.Getenv("LANG")
	}
	return NewLocale(raw)
}

// NewLocale creates a Locale from a POSIX locale string (e.g. "de_DE.UTF-8")
// or BCP 47 tag (e.g. "de-DE").
func NewLocale(raw string) Locale {
	if idx := strings.IndexByte(raw, '.'); idx != -1 {
		raw = raw[:idx]
	}
	raw = strings.ReplaceAll(raw, "_", "-")

	tag, _ := language.Parse(raw)
	if tag == language.Und {
		tag = language.AmericanEnglish
	}
	return Locale{printer: message.NewPrinter(tag)}
}

// CountSummary returns e.g. "1,204 places", "1 place", or "No places found".
func (l Locale) CountSummary(n int, noun string) string {
	if n == 0 {
		return "No " + noun + " found"
	}
	if n == 1 {
		noun = strings.TrimSuffix(noun, "s")
	}
	return l.printer.Sprintf("%d %s", n, noun)
}
