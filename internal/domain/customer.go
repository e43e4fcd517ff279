package domain

import "time"

// Customer is a managed relationship record.
type Customer struct {
	ID         string
	Number     string
	Name       string
	Email      string
	Phone      *string
	Company    *string
	FollowUpOn *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
