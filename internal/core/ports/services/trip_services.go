package services

import (
	"context"

	"github.com/WayfareLabs/trip_split_app/internal/core/domain"
	"github.com/WayfareLabs/trip_split_app/internal/dto"
)

// TripReaderSvc defines read operations for trip data.
type TripReaderSvc interface {
	// GetTripByID retrieves a specific trip. The requesting user must be a
	// participant of the trip.
	GetTripByID(ctx context.Context, tripID string, requestingUserID string) (*domain.Trip, error)

	// ListUserTrips retrieves the trips a user participates in.
	ListUserTrips(ctx context.Context, userID string) ([]domain.Trip, error)

	// ListTripParticipants retrieves all memberships of a trip. Only trip
	// participants can access this data.
	ListTripParticipants(ctx context.Context, tripID string, requestingUserID string) ([]domain.TripParticipant, error)

	// ListActiveParticipants retrieves the trip roster restricted to ACTIVE
	// memberships, the set balance computation runs over.
	ListActiveParticipants(ctx context.Context, tripID string) ([]domain.TripParticipant, error)
}

// TripWriterSvc defines write operations for trip data.
type TripWriterSvc interface {
	// CreateTrip persists a new trip and enrolls the creator as its owner.
	CreateTrip(ctx context.Context, req dto.CreateTripRequest, creatorUserID string) (*domain.Trip, error)

	// UpdateTrip updates trip details.
	UpdateTrip(ctx context.Context, tripID string, req dto.UpdateTripRequest, requestingUserID string) (*domain.Trip, error)

	// DeactivateTrip marks a trip as inactive. Inactive trips reject new expenses.
	DeactivateTrip(ctx context.Context, tripID string, requestingUserID string) error

	// ActivateTrip marks a trip as active.
	ActivateTrip(ctx context.Context, tripID string, requestingUserID string) error
}

// TripMembershipSvc defines operations for the trip membership lifecycle.
type TripMembershipSvc interface {
	// AddParticipant invites a user to a trip with a given role. The new
	// membership starts in PENDING status.
	AddParticipant(ctx context.Context, addingUserID, targetUserID, tripID string, role domain.ParticipantRole) error

	// RespondToInvite moves the calling user's own PENDING membership to
	// ACTIVE or DECLINED.
	RespondToInvite(ctx context.Context, userID, tripID string, accept bool) error

	// RemoveParticipant marks a membership as REMOVED. Only trip owners can
	// remove participants; the expense history the participant appears in is
	// untouched.
	RemoveParticipant(ctx context.Context, requestingUserID, targetUserID, tripID string) error

	// UpdateParticipantRole changes a participant's role. Only trip owners
	// can change roles, and an owner cannot demote themself if they are the
	// last owner.
	UpdateParticipantRole(ctx context.Context, requestingUserID, targetUserID, tripID string, newRole domain.ParticipantRole) error
}

// TripAuthorizerSvc defines operations for trip authorization.
type TripAuthorizerSvc interface {
	// AuthorizeUserAction checks that a user holds at least the required
	// role on a trip with an ACTIVE membership.
	AuthorizeUserAction(ctx context.Context, userID, tripID string, requiredRole domain.ParticipantRole) error
}

// TripSvcFacade combines all trip-related service interfaces.
type TripSvcFacade interface {
	TripReaderSvc
	TripWriterSvc
	TripMembershipSvc
	TripAuthorizerSvc
}
