// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as Quote and Article, along with
// their validation rules and domain-specific errors.
package entity

import "time"

// Article represents the readable content extracted from a news page.
// Text is the plain-text body; Excerpt is the short description the page
// advertises (meta description or first paragraph).
type Article struct {
	URL         string
	Title       string
	Text        string
	Excerpt     string
	Authors     []string
	PublishedAt *time.Time
}
