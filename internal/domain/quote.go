// Package domain contains core business entities and rules.
package domain

import "strings"

// CategoryAll is the sentinel filter value meaning "no category filter".
const CategoryAll = "all"

// Quote is a single stored quotation. Text doubles as the merge key during
// remote reconciliation, so two quotes with equal text are considered the
// same quote as far as sync is concerned.
type Quote struct {
	// Text is the quotation itself. Non-empty after trimming.
	Text string `json:"text"`

	// Category is the theme the quote is filed under. Non-empty after trimming.
	Category string `json:"category"`
}

// NewQuote builds a validated quote from raw user input.
// Both fields are trimmed; empty results fail validation.
func NewQuote(text, category string) (Quote, error) {
	q := Quote{
		Text:     strings.TrimSpace(text),
		Category: strings.TrimSpace(category),
	}

	if err := q.Validate(); err != nil {
		return Quote{}, err
	}

	return q, nil
}

// Validate reports whether the quote satisfies the store invariant:
// non-empty trimmed text and category.
func (q Quote) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return NewValidationError("text", "cannot be empty")
	}

	if strings.TrimSpace(q.Category) == "" {
		return NewValidationError("category", "cannot be empty")
	}

	return nil
}

// SeedQuotes returns the built-in quote set used on first run, before any
// durable state exists. The returned slice is a fresh copy each call.
func SeedQuotes() []Quote {
	return []Quote{
		{
			Text:     "The only limit to our realization of tomorrow is our doubts of today.",
			Category: "Motivation",
		},
		{
			Text:     "In the middle of difficulty lies opportunity.",
			Category: "Inspiration",
		},
		{
			Text:     "Success is not final, failure is not fatal: it is the courage to continue that counts.",
			Category: "Success",
		},
	}
}

// SyncReport summarizes one reconciliation pass against the remote feed.
type SyncReport struct {
	// Added is the number of remote quotes appended as new.
	Added int `json:"added"`

	// Overwritten is the number of local quotes replaced by their remote
	// counterpart (same text, remote category wins).
	Overwritten int `json:"overwritten"`
}

// Changed reports whether the pass mutated the store at all.
// An unchanged pass must not trigger a persistence write or a re-render.
func (r SyncReport) Changed() bool {
	return r.Added > 0 || r.Overwritten > 0
}
