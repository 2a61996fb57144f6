package repositories

import (
	"context"

	"github.com/WayfareLabs/trip_split_app/internal/core/domain"
)

// TripReader defines read operations for trip data.
type TripReader interface {
	// FindTripByID retrieves a specific trip by its ID.
	FindTripByID(ctx context.Context, tripID string) (*domain.Trip, error)

	// ListTripsByUserID retrieves all trips a user participates in.
	ListTripsByUserID(ctx context.Context, userID string) ([]domain.Trip, error)
}

// TripWriter defines write operations for trip data.
type TripWriter interface {
	// SaveTrip persists a new trip.
	SaveTrip(ctx context.Context, trip domain.Trip) error

	// UpdateTrip updates an existing trip's details.
	UpdateTrip(ctx context.Context, trip domain.Trip) error
}

// TripMembershipManager defines operations for managing trip membership.
type TripMembershipManager interface {
	// AddParticipant inserts a membership row for a user on a trip.
	AddParticipant(ctx context.Context, participant domain.TripParticipant) error

	// FindParticipant retrieves a user's membership on a trip, regardless of status.
	FindParticipant(ctx context.Context, userID, tripID string) (*domain.TripParticipant, error)

	// ListParticipants retrieves all memberships of a trip with display names resolved.
	ListParticipants(ctx context.Context, tripID string) ([]domain.TripParticipant, error)

	// UpdateParticipant updates the role or status of an existing membership.
	UpdateParticipant(ctx context.Context, participant domain.TripParticipant) error
}

// TripRepositoryFacade combines all trip-related repository interfaces.
type TripRepositoryFacade interface {
	TripReader
	TripWriter
	TripMembershipManager
}

// TripRepositoryWithTx extends TripRepositoryFacade with transaction capabilities.
type TripRepositoryWithTx interface {
	TripRepositoryFacade
	TransactionManager
}
