package domain

import "time"

// Trip represents a shared expense pool for one journey. All expenses of a
// trip are denominated in the trip's single currency.
type Trip struct {
	TripID       string     `json:"tripID"` // Primary Key (UUID)
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	CurrencyCode string     `json:"currencyCode"` // Single currency for every expense of this trip
	StartDate    *time.Time `json:"startDate,omitempty"`
	EndDate      *time.Time `json:"endDate,omitempty"`
	IsActive     bool       `json:"isActive"`
	AuditFields
}

// ParticipantRole defines what a participant may do within a trip.
// The role is a write-authorization concern only; it never affects balance math.
type ParticipantRole string

const (
	RoleOwner  ParticipantRole = "OWNER"
	RoleEditor ParticipantRole = "EDITOR"
	RoleViewer ParticipantRole = "VIEWER"
)

// ParticipantStatus tracks the invitation lifecycle of a trip membership.
// Only ACTIVE participants take part in balance computation.
type ParticipantStatus string

const (
	ParticipantPending  ParticipantStatus = "PENDING"
	ParticipantActive   ParticipantStatus = "ACTIVE"
	ParticipantDeclined ParticipantStatus = "DECLINED"
	ParticipantRemoved  ParticipantStatus = "REMOVED"
)

// TripParticipant represents the membership of a User in a Trip.
type TripParticipant struct {
	UserID      string            `json:"userID"`
	DisplayName string            `json:"displayName"` // Resolved from the users table for presentation
	TripID      string            `json:"tripID"`
	Role        ParticipantRole   `json:"role"`
	Status      ParticipantStatus `json:"status"`
	JoinedAt    time.Time         `json:"joinedAt"`
}

// IsActive reports whether this participant counts for balance computation.
func (p TripParticipant) IsActive() bool {
	return p.Status == ParticipantActive
}
