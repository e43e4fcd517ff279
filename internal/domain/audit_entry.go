package domain

import "time"

// AuditEntry is an immutable history line for a customer record.
// Entries are only ever created; no update or delete path exists.
type AuditEntry struct {
	ID         string
	CustomerID string
	Text       string
	CreatedAt  time.Time
}
