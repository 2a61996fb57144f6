package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/WayfareLabs/trip_split_app/internal/apperrors"
	"github.com/WayfareLabs/trip_split_app/internal/core/domain"
	portsrepo "github.com/WayfareLabs/trip_split_app/internal/core/ports/repositories"
	portssvc "github.com/WayfareLabs/trip_split_app/internal/core/ports/services"
	"github.com/WayfareLabs/trip_split_app/internal/dto"
	"github.com/WayfareLabs/trip_split_app/internal/middleware"
)

// roleRank orders participant roles for authorization checks. A higher rank
// implies every permission of the ranks below it.
var roleRank = map[domain.ParticipantRole]int{
	domain.RoleViewer: 1,
	domain.RoleEditor: 2,
	domain.RoleOwner:  3,
}

// tripService handles business logic related to trips and memberships.
type tripService struct {
	tripRepo     portsrepo.TripRepositoryWithTx
	currencyRepo portsrepo.CurrencyRepositoryFacade
	userRepo     portsrepo.UserReader
}

// NewTripService creates a new trip service.
func NewTripService(tripRepo portsrepo.TripRepositoryWithTx, currencyRepo portsrepo.CurrencyRepositoryFacade, userRepo portsrepo.UserReader) portssvc.TripSvcFacade {
	return &tripService{
		tripRepo:     tripRepo,
		currencyRepo: currencyRepo,
		userRepo:     userRepo,
	}
}

var _ portssvc.TripSvcFacade = (*tripService)(nil)

// CreateTrip creates a new trip and enrolls the creator as its active owner.
func (s *tripService) CreateTrip(ctx context.Context, req dto.CreateTripRequest, creatorUserID string) (*domain.Trip, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.currencyRepo.FindCurrencyByCode(ctx, req.CurrencyCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Invalid trip currency code provided", slog.String("currency_code", req.CurrencyCode))
			return nil, fmt.Errorf("%w: currency code %s not found", apperrors.ErrValidation, req.CurrencyCode)
		}
		logger.Error("Failed to check currency code existence", slog.String("error", err.Error()), slog.String("currency_code", req.CurrencyCode))
		return nil, fmt.Errorf("failed to validate currency code: %w", err)
	}

	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, fmt.Errorf("%w: trip end date is before start date", apperrors.ErrValidation)
	}

	now := time.Now()
	newTripID := uuid.NewString()

	trip := domain.Trip{
		TripID:       newTripID,
		Name:         req.Name,
		Description:  req.Description,
		CurrencyCode: req.CurrencyCode,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.tripRepo.SaveTrip(ctx, trip); err != nil {
		logger.Error("Failed to save trip in repository", slog.String("error", err.Error()), slog.String("trip_name", req.Name))
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}

	// The creator joins immediately; there is no invitation step for them.
	membership := domain.TripParticipant{
		UserID:   creatorUserID,
		TripID:   newTripID,
		Role:     domain.RoleOwner,
		Status:   domain.ParticipantActive,
		JoinedAt: now,
	}
	if err := s.tripRepo.AddParticipant(ctx, membership); err != nil {
		logger.Error("Failed to enroll creator as owner of new trip", slog.String("error", err.Error()), slog.String("trip_id", newTripID), slog.String("user_id", creatorUserID))
		return nil, fmt.Errorf("failed to enroll trip creator: %w", err)
	}

	logger.Info("Trip created successfully", slog.String("trip_id", newTripID), slog.String("creator_user_id", creatorUserID))
	return &trip, nil
}

// GetTripByID retrieves a trip. The requesting user must be a participant.
func (s *tripService) GetTripByID(ctx context.Context, tripID string, requestingUserID string) (*domain.Trip, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.AuthorizeUserAction(ctx, requestingUserID, tripID, domain.RoleViewer); err != nil {
		return nil, err
	}

	trip, err := s.tripRepo.FindTripByID(ctx, tripID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find trip by ID in repository", slog.String("error", err.Error()), slog.String("trip_id", tripID))
		}
		return nil, err
	}
	return trip, nil
}

// ListUserTrips retrieves the trips a user participates in.
func (s *tripService) ListUserTrips(ctx context.Context, userID string) ([]domain.Trip, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	trips, err := s.tripRepo.ListTripsByUserID(ctx, userID)
	if err != nil {
		logger.Error("Failed to list trips for user from repository", slog.String("error", err.Error()), slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list trips for user %s: %w", userID, err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// ListTripParticipants retrieves all memberships of a trip.
func (s *tripService) ListTripParticipants(ctx context.Context, tripID string, requestingUserID string) ([]domain.TripParticipant, error) {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, tripID, domain.RoleViewer); err != nil {
		return nil, err
	}

	participants, err := s.tripRepo.ListParticipants(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants for trip %s: %w", tripID, err)
	}
	if participants == nil {
		return []domain.TripParticipant{}, nil
	}
	return participants, nil
}

// ListActiveParticipants retrieves the ACTIVE roster of a trip, the set
// balance computation runs over. No authorization check here; this is an
// internal service-to-service call and callers authorize first.
func (s *tripService) ListActiveParticipants(ctx context.Context, tripID string) ([]domain.TripParticipant, error) {
	participants, err := s.tripRepo.ListParticipants(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants for trip %s: %w", tripID, err)
	}

	active := make([]domain.TripParticipant, 0, len(participants))
	for _, p := range participants {
		if p.IsActive() {
			active = append(active, p)
		}
	}
	return active, nil
}

// UpdateTrip updates trip details. Only owners can change them.
func (s *tripService) UpdateTrip(ctx context.Context, tripID string, req dto.UpdateTripRequest, requestingUserID string) (*domain.Trip, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.AuthorizeUserAction(ctx, requestingUserID, tripID, domain.RoleOwner); err != nil {
		return nil, err
	}

	trip, err := s.tripRepo.FindTripByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		trip.Name = *req.Name
	}
	if req.Description != nil {
		trip.Description = *req.Description
	}
	if req.StartDate != nil {
		trip.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		trip.EndDate = req.EndDate
	}
	if trip.StartDate != nil && trip.EndDate != nil && trip.EndDate.Before(*trip.StartDate) {
		return nil, fmt.Errorf("%w: trip end date is before start date", apperrors.ErrValidation)
	}

	trip.LastUpdatedAt = time.Now()
	trip.LastUpdatedBy = requestingUserID

	if err := s.tripRepo.UpdateTrip(ctx, *trip); err != nil {
		logger.Error("Failed to update trip in repository", slog.String("error", err.Error()), slog.String("trip_id", tripID))
		return nil, fmt.Errorf("failed to update trip %s: %w", tripID, err)
	}

	logger.Info("Trip updated successfully", slog.String("trip_id", tripID))
	return trip, nil
}

// DeactivateTrip marks a trip as inactive. Inactive trips reject new expenses.
func (s *tripService) DeactivateTrip(ctx context.Context, tripID string, requestingUserID string) error {
	return s.setTripActive(ctx, tripID, requestingUserID, false)
}

// ActivateTrip marks a trip as active again.
func (s *tripService) ActivateTrip(ctx context.Context, tripID string, requestingUserID string) error {
	return s.setTripActive(ctx, tripID, requestingUserID, true)
}

func (s *tripService) setTripActive(ctx context.Context, tripID string, requestingUserID string, active bool) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.AuthorizeUserAction(ctx, requestingUserID, tripID, domain.RoleOwner); err != nil {
		return err
	}

	trip, err := s.tripRepo.FindTripByID(ctx, tripID)
	if err != nil {
		return err
	}
	if trip.IsActive == active {
		return nil
	}

	trip.IsActive = active
	trip.LastUpdatedAt = time.Now()
	trip.LastUpdatedBy = requestingUserID

	if err := s.tripRepo.UpdateTrip(ctx, *trip); err != nil {
		logger.Error("Failed to update trip active flag", slog.String("error", err.Error()), slog.String("trip_id", tripID))
		return fmt.Errorf("failed to update trip %s: %w", tripID, err)
	}

	logger.Info("Trip active flag changed", slog.String("trip_id", tripID), slog.Bool("is_active", active))
	return nil
}

// AddParticipant invites a user to a trip. The membership starts PENDING and
// only counts for balances once the user accepts.
func (s *tripService) AddParticipant(ctx context.Context, addingUserID, targetUserID, tripID string, role domain.ParticipantRole) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.AuthorizeUserAction(ctx, addingUserID, tripID, domain.RoleOwner); err != nil {
		return err
	}

	if _, err := s.userRepo.FindUserByID(ctx, targetUserID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: user %s not found", apperrors.ErrValidation, targetUserID)
		}
		return fmt.Errorf("failed to validate target user: %w", err)
	}

	existing, err := s.tripRepo.FindParticipant(ctx, targetUserID, tripID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to check existing membership: %w", err)
	}

	now := time.Now()
	if existing != nil {
		switch existing.Status {
		case domain.ParticipantActive, domain.ParticipantPending:
			return fmt.Errorf("%w: user %s is already on trip %s", apperrors.ErrConflict, targetUserID, tripID)
		case domain.ParticipantDeclined, domain.ParticipantRemoved:
			// Re-invite: reuse the row with a fresh role.
			existing.Role = role
			existing.Status = domain.ParticipantPending
			if err := s.tripRepo.UpdateParticipant(ctx, *existing); err != nil {
				logger.Error("Failed to re-invite participant", slog.String("error", err.Error()), slog.String("target_user_id", targetUserID), slog.String("trip_id", tripID))
				return fmt.Errorf("failed to re-invite user %s to trip %s: %w", targetUserID, tripID, err)
			}
			logger.Info("Participant re-invited", slog.String("target_user_id", targetUserID), slog.String("trip_id", tripID), slog.String("role", string(role)))
			return nil
		}
	}

	membership := domain.TripParticipant{
		UserID:   targetUserID,
		TripID:   tripID,
		Role:     role,
		Status:   domain.ParticipantPending,
		JoinedAt: now,
	}
	if err := s.tripRepo.AddParticipant(ctx, membership); err != nil {
		logger.Error("Failed to add participant in repository", slog.String("error", err.Error()), slog.String("target_user_id", targetUserID), slog.String("trip_id", tripID))
		return fmt.Errorf("failed to add user %s to trip %s: %w", targetUserID, tripID, err)
	}

	logger.Info("Participant invited", slog.String("target_user_id", targetUserID), slog.String("trip_id", tripID), slog.String("role", string(role)), slog.String("added_by_user_id", addingUserID))
	return nil
}

// RespondToInvite moves the caller's own PENDING membership to ACTIVE or DECLINED.
func (s *tripService) RespondToInvite(ctx context.Context, userID, tripID string, accept bool) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	membership, err := s.tripRepo.FindParticipant(ctx, userID, tripID)
	if err != nil {
		return err
	}
	if membership.Status != domain.ParticipantPending {
		return fmt.Errorf("%w: no pending invite for user %s on trip %s", apperrors.ErrConflict, userID, tripID)
	}

	if accept {
		membership.Status = domain.ParticipantActive
		membership.JoinedAt = time.Now()
	} else {
		membership.Status = domain.ParticipantDeclined
	}

	if err := s.tripRepo.UpdateParticipant(ctx, *membership); err != nil {
		logger.Error("Failed to update invite response", slog.String("error", err.Error()), slog.String("user_id", userID), slog.String("trip_id", tripID))
		return fmt.Errorf("failed to respond to invite: %w", err)
	}

	logger.Info("Invite response recorded", slog.String("user_id", userID), slog.String("trip_id", tripID), slog.Bool("accepted", accept))
	return nil
}

// RemoveParticipant marks a membership as REMOVED. The participant's expense
// history stays in the ledger; only future balance computation drops them.
func (s *tripService) RemoveParticipant(ctx context.Context, requestingUserID, targetUserID, tripID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.AuthorizeUserAction(ctx, requestingUserID, tripID, domain.RoleOwner); err != nil {
		return err
	}

	membership, err := s.tripRepo.FindParticipant(ctx, targetUserID, tripID)
	if err != nil {
		return err
	}

	if membership.Role == domain.RoleOwner && membership.IsActive() {
		owners, err := s.countActiveOwners(ctx, tripID)
		if err != nil {
			return err
		}
		if owners <= 1 {
			return fmt.Errorf("%w: cannot remove the last owner of trip %s", apperrors.ErrConflict, tripID)
		}
	}

	membership.Status = domain.ParticipantRemoved
	if err := s.tripRepo.UpdateParticipant(ctx, *membership); err != nil {
		logger.Error("Failed to remove participant", slog.String("error", err.Error()), slog.String("target_user_id", targetUserID), slog.String("trip_id", tripID))
		return fmt.Errorf("failed to remove user %s from trip %s: %w", targetUserID, tripID, err)
	}

	logger.Info("Participant removed", slog.String("target_user_id", targetUserID), slog.String("trip_id", tripID), slog.String("removed_by_user_id", requestingUserID))
	return nil
}

// UpdateParticipantRole changes a participant's role.
func (s *tripService) UpdateParticipantRole(ctx context.Context, requestingUserID, targetUserID, tripID string, newRole domain.ParticipantRole) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.AuthorizeUserAction(ctx, requestingUserID, tripID, domain.RoleOwner); err != nil {
		return err
	}

	membership, err := s.tripRepo.FindParticipant(ctx, targetUserID, tripID)
	if err != nil {
		return err
	}
	if membership.Role == newRole {
		return nil
	}

	if membership.Role == domain.RoleOwner && membership.IsActive() {
		owners, err := s.countActiveOwners(ctx, tripID)
		if err != nil {
			return err
		}
		if owners <= 1 {
			return fmt.Errorf("%w: cannot demote the last owner of trip %s", apperrors.ErrConflict, tripID)
		}
	}

	membership.Role = newRole
	if err := s.tripRepo.UpdateParticipant(ctx, *membership); err != nil {
		logger.Error("Failed to update participant role", slog.String("error", err.Error()), slog.String("target_user_id", targetUserID), slog.String("trip_id", tripID))
		return fmt.Errorf("failed to update role for user %s on trip %s: %w", targetUserID, tripID, err)
	}

	logger.Info("Participant role updated", slog.String("target_user_id", targetUserID), slog.String("trip_id", tripID), slog.String("new_role", string(newRole)))
	return nil
}

func (s *tripService) countActiveOwners(ctx context.Context, tripID string) (int, error) {
	participants, err := s.tripRepo.ListParticipants(ctx, tripID)
	if err != nil {
		return 0, fmt.Errorf("failed to count trip owners: %w", err)
	}
	count := 0
	for _, p := range participants {
		if p.Role == domain.RoleOwner && p.IsActive() {
			count++
		}
	}
	return count, nil
}

// AuthorizeUserAction checks that a user holds at least the required role on
// a trip with an ACTIVE membership. It returns apperrors.ErrNotFound when the
// user has no membership at all, so trip existence is not revealed, and
// apperrors.ErrForbidden when the membership exists but does not qualify.
func (s *tripService) AuthorizeUserAction(ctx context.Context, userID, tripID string, requiredRole domain.ParticipantRole) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	membership, err := s.tripRepo.FindParticipant(ctx, userID, tripID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Authorization failed: user is not a member of trip", slog.String("user_id", userID), slog.String("trip_id", tripID))
			return apperrors.ErrNotFound
		}
		logger.Error("Failed to check trip membership in repository", slog.String("error", err.Error()), slog.String("user_id", userID), slog.String("trip_id", tripID))
		return fmt.Errorf("failed to check authorization: %w", err)
	}

	if !membership.IsActive() {
		logger.Warn("Authorization failed: membership is not active", slog.String("user_id", userID), slog.String("trip_id", tripID), slog.String("status", string(membership.Status)))
		return apperrors.ErrForbidden
	}

	if roleRank[membership.Role] >= roleRank[requiredRole] {
		return nil
	}

	logger.Warn("Authorization failed: user lacks required role", slog.String("user_id", userID), slog.String("trip_id", tripID), slog.String("user_role", string(membership.Role)), slog.String("required_role", string(requiredRole)))
	return apperrors.ErrForbidden
}
