package models

import "time"

// Trip represents a shared expense pool row.
type Trip struct {
	TripID       string     `json:"tripID"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	CurrencyCode string     `json:"currencyCode" db:"currency_code"`
	StartDate    *time.Time `json:"startDate,omitempty" db:"start_date"`
	EndDate      *time.Time `json:"endDate,omitempty" db:"end_date"`
	IsActive     bool       `json:"isActive" db:"is_active"`
	AuditFields
}

// ParticipantRole mirrors domain.ParticipantRole at the persistence layer.
type ParticipantRole string

const (
	RoleOwner  ParticipantRole = "OWNER"
	RoleEditor ParticipantRole = "EDITOR"
	RoleViewer ParticipantRole = "VIEWER"
)

// ParticipantStatus mirrors domain.ParticipantStatus at the persistence layer.
type ParticipantStatus string

const (
	ParticipantPending  ParticipantStatus = "PENDING"
	ParticipantActive   ParticipantStatus = "ACTIVE"
	ParticipantDeclined ParticipantStatus = "DECLINED"
	ParticipantRemoved  ParticipantStatus = "REMOVED"
)

// TripParticipant is the membership row joining users to trips.
type TripParticipant struct {
	UserID      string            `json:"userID" db:"user_id"`
	DisplayName string            `json:"displayName" db:"display_name"` // Joined from users, not a column
	TripID      string            `json:"tripID" db:"trip_id"`
	Role        ParticipantRole   `json:"role" db:"role"`
	Status      ParticipantStatus `json:"status" db:"status"`
	JoinedAt    time.Time         `json:"joinedAt" db:"joined_at"`
}
