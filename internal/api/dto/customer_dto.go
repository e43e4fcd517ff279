package dto

import "time"

// CustomerRequest is the create/update payload.
type CustomerRequest struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone"`
	Company *string `json:"company"`
}

// SetFollowUpRequest carries the new follow-up date; null clears it.
type SetFollowUpRequest struct {
	FollowUpOn *string `json:"follow_up_on"`
}

// CustomerResponse response.
type CustomerResponse struct {
	ID         string    `json:"id"`
	Number     string    `json:"number"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      *string   `json:"phone"`
	Company    *string   `json:"company"`
	FollowUpOn *string   `json:"follow_up_on"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AuditEntryResponse is one immutable history line.
type AuditEntryResponse struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
