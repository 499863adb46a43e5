// Package domain contains the feedback and report types and the keyword
// moderation heuristic.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fd1az/campus-rewards/internal/apperror"
)

// Kind separates general feedback from incident reports.
type Kind string

const (
	KindFeedback Kind = "feedback"
	KindReport   Kind = "report"
)

// ParseKind accepts "feedback" or "report", case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindFeedback, KindReport:
		return k, nil
	}
	return "", apperror.Validation(apperror.CodeInvalidKind, s)
}

// Submission is what the user filled in.
type Submission struct {
	Kind      Kind
	Category  string
	Title     string
	Message   string
	Location  string
	Anonymous bool
}

// Normalize trims every text field.
func (s Submission) Normalize() Submission {
	s.Category = strings.TrimSpace(s.Category)
	s.Title = strings.TrimSpace(s.Title)
	s.Message = strings.TrimSpace(s.Message)
	s.Location = strings.TrimSpace(s.Location)
	return s
}

// Validate checks required fields. Reports additionally need a title and
// a location.
func (s Submission) Validate() error {
	if _, err := ParseKind(string(s.Kind)); err != nil {
		return err
	}
	required := map[string]string{
		"category": s.Category,
		"message":  s.Message,
	}
	if s.Kind == KindReport {
		required["title"] = s.Title
		required["location"] = s.Location
	}
	for _, field := range []string{"category", "title", "message", "location"} {
		if v, ok := required[field]; ok && v == "" {
			return apperror.Validation(apperror.CodeRequiredField, field)
		}
	}
	return nil
}

// Contribution is a stored submission.
type Contribution struct {
	ID         uuid.UUID  `json:"id"`
	Kind       Kind       `json:"kind"`
	Category   string     `json:"category"`
	Title      string     `json:"title,omitempty"`
	Message    string     `json:"message"`
	Location   string     `json:"location,omitempty"`
	Anonymous  bool       `json:"anonymous"`
	Wallet     string     `json:"wallet,omitempty"`
	TxHash     string     `json:"txHash,omitempty"`
	Moderation Moderation `json:"moderation"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// NewContribution stamps a validated submission.
func NewContribution(s Submission, m Moderation, now time.Time) Contribution {
	return Contribution{
		ID:         uuid.New(),
		Kind:       s.Kind,
		Category:   s.Category,
		Title:      s.Title,
		Message:    s.Message,
		Location:   s.Location,
		Anonymous:  s.Anonymous,
		Moderation: m,
		CreatedAt:  now.UTC(),
	}
}

// Text is what moderation looks at.
func (s Submission) Text() string {
	return strings.TrimSpace(s.Title + " " + s.Message)
}
