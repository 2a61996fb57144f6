package dto

import (
	"time"

	"github.com/WayfareLabs/trip_split_app/internal/core/domain"
)

// --- Trip DTOs ---

// CreateTripRequest defines data for creating a new trip.
type CreateTripRequest struct {
	Name         string     `json:"name" binding:"required"`
	Description  string     `json:"description"`
	CurrencyCode string     `json:"currencyCode" binding:"required,iso4217"`
	StartDate    *time.Time `json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
}

// UpdateTripRequest defines data for updating trip details. Pointers
// distinguish omitted fields from zero values. The trip currency is fixed at
// creation and cannot be changed once expenses may reference it.
type UpdateTripRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
}

// TripResponse defines data returned for a trip.
type TripResponse struct {
	TripID        string     `json:"tripID"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	CurrencyCode  string     `json:"currencyCode"`
	StartDate     *time.Time `json:"startDate,omitempty"`
	EndDate       *time.Time `json:"endDate,omitempty"`
	IsActive      bool       `json:"isActive"`
	CreatedAt     time.Time  `json:"createdAt"`
	CreatedBy     string     `json:"createdBy"`
	LastUpdatedAt time.Time  `json:"lastUpdatedAt"`
	LastUpdatedBy string     `json:"lastUpdatedBy"`
}

// ToTripResponse converts domain.Trip to DTO.
func ToTripResponse(t *domain.Trip) TripResponse {
	return TripResponse{
		TripID:        t.TripID,
		Name:          t.Name,
		Description:   t.Description,
		CurrencyCode:  t.CurrencyCode,
		StartDate:     t.StartDate,
		EndDate:       t.EndDate,
		IsActive:      t.IsActive,
		CreatedAt:     t.CreatedAt,
		CreatedBy:     t.CreatedBy,
		LastUpdatedAt: t.LastUpdatedAt,
		LastUpdatedBy: t.LastUpdatedBy,
	}
}

// ListTripsResponse wraps a list of trips.
type ListTripsResponse struct {
	Trips []TripResponse `json:"trips"`
}

// ToListTripsResponse converts a slice of domain.Trip to DTO.
func ToListTripsResponse(ts []domain.Trip) ListTripsResponse {
	list := make([]TripResponse, len(ts))
	for i, t := range ts {
		list[i] = ToTripResponse(&t)
	}
	return ListTripsResponse{Trips: list}
}

// --- Trip Participant DTOs ---

// AddParticipantRequest defines data for inviting a user to a trip.
type AddParticipantRequest struct {
	UserID string                 `json:"userID" binding:"required"`
	Role   domain.ParticipantRole `json:"role" binding:"required,oneof=OWNER EDITOR VIEWER"`
}

// RespondToInviteRequest defines data for accepting or declining an invite.
// Accept is a pointer so that an explicit false survives binding.
type RespondToInviteRequest struct {
	Accept *bool `json:"accept" binding:"required"`
}

// UpdateParticipantRoleRequest defines data for changing a participant's role.
type UpdateParticipantRoleRequest struct {
	Role domain.ParticipantRole `json:"role" binding:"required,oneof=OWNER EDITOR VIEWER"`
}

// TripParticipantResponse defines data returned about a trip membership.
type TripParticipantResponse struct {
	UserID      string                   `json:"userID"`
	DisplayName string                   `json:"displayName"`
	TripID      string                   `json:"tripID"`
	Role        domain.ParticipantRole   `json:"role"`
	Status      domain.ParticipantStatus `json:"status"`
	JoinedAt    time.Time                `json:"joinedAt"`
}

// ToTripParticipantResponse converts domain.TripParticipant to DTO.
func ToTripParticipantResponse(p *domain.TripParticipant) TripParticipantResponse {
	return TripParticipantResponse{
		UserID:      p.UserID,
		DisplayName: p.DisplayName,
		TripID:      p.TripID,
		Role:        p.Role,
		Status:      p.Status,
		JoinedAt:    p.JoinedAt,
	}
}

// ToListTripParticipantsResponse converts domain participants to DTOs.
func ToListTripParticipantsResponse(ps []domain.TripParticipant) []TripParticipantResponse {
	list := make([]TripParticipantResponse, len(ps))
	for i, p := range ps {
		list[i] = ToTripParticipantResponse(&p)
	}
	return list
}
