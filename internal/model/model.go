package model

import "strings"

type Feedback string

const (
	FeedbackNone    Feedback = ""
	FeedbackLike    Feedback = "like"
	FeedbackDislike Feedback = "dislike"
)

// ProjectSummary is the shape returned by the project listing endpoint.
type ProjectSummary struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	DocType string `json:"doc_type"`
}

// Project is a fully loaded project including its sections.
// The client holds at most one current project at a time and replaces it
// wholesale on every load; it is never partially merged.
type Project struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	DocType  string    `json:"doc_type"`
	Sections []Section `json:"sections"`
}

type Section struct {
	ID         int64    `json:"id"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Notes      string   `json:"notes"`
	Feedback   Feedback `json:"feedback"`
	OrderIndex int      `json:"order_index"`
}

// SectionUpdate is a partial update. Only non-nil fields are sent;
// the server leaves the rest untouched.
type SectionUpdate struct {
	Content  *string   `json:"content,omitempty"`
	Notes    *string   `json:"notes,omitempty"`
	Feedback *Feedback `json:"feedback,omitempty"`
}

// ParseSectionNames splits a comma-separated section list into an ordered
// sequence of names. Entries are trimmed and empty entries dropped.
func ParseSectionNames(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// ValidFeedback reports whether v is an accepted feedback value.
func ValidFeedback(v Feedback) bool {
	switch v {
	case FeedbackNone, FeedbackLike, FeedbackDislike:
		return true
	}
	return false
}
