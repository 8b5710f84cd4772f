// Package waitlist models waitlist intake records: an email, the time of
// submission, and the page or campaign the submission came from.
package waitlist

import (
	"fmt"
	"strings"
	"time"

	"github.com/truespec/truespec/reportstore"
)

// PartitionKey is the single partition all waitlist rows live in.
const PartitionKey = "waitlist"

const maxEmailLength = 254

// Entry is one waitlist submission.
type Entry struct {
	Email     string    `json:"email"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Normalize trims whitespace and lowercases the email address.
func Normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks the email has a plausible address shape. The check is
// deliberately loose: the intake endpoint rejects obvious garbage and
// leaves deliverability to the mailing pipeline.
func Validate(email string) error {
	if email == "" {
		return fmt.Errorf("waitlist: email is required")
	}
	if len(email) > maxEmailLength {
		return fmt.Errorf("waitlist: email exceeds %d characters", maxEmailLength)
	}

	at := strings.Index(email, "@")
	if at <= 0 || at != strings.LastIndex(email, "@") {
		return fmt.Errorf("waitlist: email must contain exactly one @")
	}

	domain := email[at+1:]
	if domain == "" || !strings.Contains(domain, ".") || strings.ContainsAny(email, " \t\n") {
		return fmt.Errorf("waitlist: email domain is malformed")
	}
	return nil
}

// Entity converts the entry into a storable row under the waitlist
// partition.
func (e Entry) Entity(rowKey string) reportstore.Entity {
	return reportstore.Entity{
		PartitionKey: PartitionKey,
		RowKey:       rowKey,
		Properties: map[string]any{
			"email":     e.Email,
			"source":    e.Source,
			"createdAt": e.CreatedAt.UTC().Format(time.RFC3339),
		},
	}
}

// FromEntity reconstructs an entry from a stored row. Missing or ill-typed
// properties read as zero values.
func FromEntity(entity reportstore.Entity) Entry {
	var entry Entry
	if email, ok := entity.Properties["email"].(string); ok {
		entry.Email = email
	}
	if source, ok := entity.Properties["source"].(string); ok {
		entry.Source = source
	}
	if raw, ok := entity.Properties["createdAt"].(string); ok {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			entry.CreatedAt = ts
		}
	}
	return entry
}
