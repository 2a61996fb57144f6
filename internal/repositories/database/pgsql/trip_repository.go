package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/WayfareLabs/trip_split_app/internal/apperrors"
	"github.com/WayfareLabs/trip_split_app/internal/core/domain"
	portsrepo "github.com/WayfareLabs/trip_split_app/internal/core/ports/repositories"
	"github.com/WayfareLabs/trip_split_app/internal/models"
	"github.com/WayfareLabs/trip_split_app/internal/utils/mapping"
)

type PgxTripRepository struct {
	BaseRepository
}

func newPgxTripRepository(pool *pgxpool.Pool) portsrepo.TripRepositoryWithTx {
	return &PgxTripRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxTripRepository implements portsrepo.TripRepositoryWithTx
var _ portsrepo.TripRepositoryWithTx = (*PgxTripRepository)(nil)

const tripColumns = `trip_id, name, description, currency_code, start_date, end_date, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanTrip(row pgx.Row) (models.Trip, error) {
	var m models.Trip
	err := row.Scan(
		&m.TripID,
		&m.Name,
		&m.Description,
		&m.CurrencyCode,
		&m.StartDate,
		&m.EndDate,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxTripRepository) SaveTrip(ctx context.Context, trip domain.Trip) error {
	modelTrip := mapping.ToModelTrip(trip)
	query := `
		INSERT INTO trips (trip_id, name, description, currency_code, start_date, end_date, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelTrip.TripID,
		modelTrip.Name,
		modelTrip.Description,
		modelTrip.CurrencyCode,
		modelTrip.StartDate,
		modelTrip.EndDate,
		modelTrip.IsActive,
		modelTrip.CreatedAt,
		modelTrip.CreatedBy,
		modelTrip.LastUpdatedAt,
		modelTrip.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save trip %s: %w", modelTrip.TripID, err)
	}
	return nil
}

func (r *PgxTripRepository) FindTripByID(ctx context.Context, tripID string) (*domain.Trip, error) {
	query := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE trip_id = $1;
	`
	modelTrip, err := scanTrip(r.Pool.QueryRow(ctx, query, tripID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find trip by ID %s: %w", tripID, err)
	}

	domainTrip := mapping.ToDomainTrip(modelTrip)
	return &domainTrip, nil
}

// ListTripsByUserID returns trips the user has an ACTIVE or PENDING membership
// on, most recently created first.
func (r *PgxTripRepository) ListTripsByUserID(ctx context.Context, userID string) ([]domain.Trip, error) {
	query := `
		SELECT t.trip_id, t.name, t.description, t.currency_code, t.start_date, t.end_date, t.is_active, t.created_at, t.created_by, t.last_updated_at, t.last_updated_by
		FROM trips t
		JOIN trip_participants tp ON tp.trip_id = t.trip_id
		WHERE tp.user_id = $1 AND tp.status IN ('ACTIVE', 'PENDING')
		ORDER BY t.created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trips for user %s: %w", userID, err)
	}
	defer rows.Close()

	modelTrips := make([]models.Trip, 0)
	for rows.Next() {
		m, scanErr := scanTrip(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan trip row: %w", scanErr)
		}
		modelTrips = append(modelTrips, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trip rows: %w", err)
	}

	return mapping.ToDomainTripSlice(modelTrips), nil
}

func (r *PgxTripRepository) UpdateTrip(ctx context.Context, trip domain.Trip) error {
	modelTrip := mapping.ToModelTrip(trip)
	query := `
		UPDATE trips
		SET name = $2, description = $3, start_date = $4, end_date = $5, is_active = $6, last_updated_at = $7, last_updated_by = $8
		WHERE trip_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		modelTrip.TripID,
		modelTrip.Name,
		modelTrip.Description,
		modelTrip.StartDate,
		modelTrip.EndDate,
		modelTrip.IsActive,
		modelTrip.LastUpdatedAt,
		modelTrip.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update trip %s: %w", modelTrip.TripID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxTripRepository) AddParticipant(ctx context.Context, participant domain.TripParticipant) error {
	modelParticipant := mapping.ToModelTripParticipant(participant)
	query := `
		INSERT INTO trip_participants (user_id, trip_id, role, status, joined_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelParticipant.UserID,
		modelParticipant.TripID,
		modelParticipant.Role,
		modelParticipant.Status,
		modelParticipant.JoinedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return fmt.Errorf("%w: user %s is already on trip %s", apperrors.ErrConflict, modelParticipant.UserID, modelParticipant.TripID)
		}
		return fmt.Errorf("failed to add participant to trip %s: %w", modelParticipant.TripID, err)
	}
	return nil
}

func (r *PgxTripRepository) FindParticipant(ctx context.Context, userID, tripID string) (*domain.TripParticipant, error) {
	query := `
		SELECT tp.user_id, u.name, tp.trip_id, tp.role, tp.status, tp.joined_at
		FROM trip_participants tp
		JOIN users u ON u.user_id = tp.user_id
		WHERE tp.user_id = $1 AND tp.trip_id = $2;
	`
	var m models.TripParticipant
	err := r.Pool.QueryRow(ctx, query, userID, tripID).Scan(
		&m.UserID,
		&m.DisplayName,
		&m.TripID,
		&m.Role,
		&m.Status,
		&m.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find participant on trip %s: %w", tripID, err)
	}

	domainParticipant := mapping.ToDomainTripParticipant(m)
	return &domainParticipant, nil
}

func (r *PgxTripRepository) ListParticipants(ctx context.Context, tripID string) ([]domain.TripParticipant, error) {
	query := `
		SELECT tp.user_id, u.name, tp.trip_id, tp.role, tp.status, tp.joined_at
		FROM trip_participants tp
		JOIN users u ON u.user_id = tp.user_id
		WHERE tp.trip_id = $1
		ORDER BY tp.joined_at;
	`
	rows, err := r.Pool.Query(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants for trip %s: %w", tripID, err)
	}
	defer rows.Close()

	modelParticipants := make([]models.TripParticipant, 0)
	for rows.Next() {
		var m models.TripParticipant
		scanErr := rows.Scan(
			&m.UserID,
			&m.DisplayName,
			&m.TripID,
			&m.Role,
			&m.Status,
			&m.JoinedAt,
		)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", scanErr)
		}
		modelParticipants = append(modelParticipants, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participant rows: %w", err)
	}

	return mapping.ToDomainTripParticipantSlice(modelParticipants), nil
}

func (r *PgxTripRepository) UpdateParticipant(ctx context.Context, participant domain.TripParticipant) error {
	modelParticipant := mapping.ToModelTripParticipant(participant)
	query := `
		UPDATE trip_participants
		SET role = $3, status = $4, joined_at = $5
		WHERE user_id = $1 AND trip_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		modelParticipant.UserID,
		modelParticipant.TripID,
		modelParticipant.Role,
		modelParticipant.Status,
		modelParticipant.JoinedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update participant on trip %s: %w", modelParticipant.TripID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
