/*
Package faq renders the static FAQ catalog as a single chat message.

Categories are a fixed enumeration emitted in declared order; entries inside a category
are sorted by title regardless of the order the directory returns them in.
*/
package faq

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Category is one of the fixed FAQ sections.
type Category string

const (
	Registration  Category = "Registration"
	Programmes    Category = "Programmes"
	RevivalNights Category = "Revival Nights"
	Premises      Category = "Premises"
	Others        Category = "Others"
)

// Categories lists every category in display order.
var Categories = []Category{Registration, Programmes, RevivalNights, Premises, Others}

const (
	header = "Here are some *Frequently Asked Questions* for the camp:\n"
	footer = "\n\nIf you have any other questions, feel free to ask the bot! We'll get back to you as soon as possible."
)

// Entry is one question and its answer.
type Entry struct {
	Category Category
	Title    string
	Body     string
}

// Source is the read-only FAQ collaborator.
type Source interface {
	FindFAQs(ctx context.Context) ([]Entry, error)
}

// Renderer formats the catalog loaded from a Source.
type Renderer struct {
	src Source
}

func NewRenderer(src Source) *Renderer {
	return &Renderer{src: src}
}

// Render loads the catalog and formats it as a Markdown chat message.
func (r *Renderer) Render(ctx context.Context) (string, error) {
	entries, err := r.src.FindFAQs(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load faqs: %w", err)
	}
	return Format(entries), nil
}

// Format groups entries by category and renders them. Entries in unknown categories are skipped.
func Format(entries []Entry) string {
	grouped := make(map[Category][]Entry, len(Categories))
	for _, e := range entries {
		grouped[e.Category] = append(grouped[e.Category], e)
	}

	var sb strings.Builder
	sb.WriteString(header)

	for _, category := range Categories {
		items := grouped[category]
		sort.SliceStable(items, func(i, j int) bool { return items[i].Title < items[j].Title })

		fmt.Fprintf(&sb, "\n\n*%s*\n", category)
		for _, e := range items {
			fmt.Fprintf(&sb, "• %s - %s\n", e.Title, e.Body)
		}
	}

	sb.WriteString(footer)
	return sb.String()
}
