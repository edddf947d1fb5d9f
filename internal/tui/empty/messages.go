// Package empty provides empty and error state messages for TUI components.
package empty

import "strings"

// Message represents an empty state message with optional hints.
type Message struct {
	Title string
	Body  string
	Hints []string
}

// NoItems returns the empty state for a collection with zero records.
func NoItems(noun string) Message {
	if noun == "" {
		noun = "items"
	}
	return Message{
		Title: "No " + noun + " found",
		Body:  "The endpoint returned an empty " + noun + " list.",
		Hints: []string{
			"Press r to fetch again",
		},
	}
}

// FetchFailed returns the error state shown in place of the list.
func FetchFailed(noun, message string) Message {
	if noun == "" {
		noun = "items"
	}
	return Message{
		Title: "Could not load " + noun,
		Body:  message,
		Hints: []string{
			"Press r to try again",
			"Check the endpoint with: places config show",
		},
	}
}

// String renders the message as plain text.
func (m Message) String() string {
	var b strings.Builder
	b.WriteString(m.Title)
	if m.Body != "" {
		b.WriteString("\n")
		b.WriteString(m.Body)
	}
	for _, h := range m.Hints {
		b.WriteString("\n  ")
		b.WriteString(h)
	}
	return b.String()
}
