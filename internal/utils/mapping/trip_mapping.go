package mapping

import (
	"github.com/WayfareLabs/trip_split_app/internal/core/domain"
	"github.com/WayfareLabs/trip_split_app/internal/models"
)

// ToModelTrip converts a domain Trip to a model Trip.
func ToModelTrip(d domain.Trip) models.Trip {
	return models.Trip{
		TripID:       d.TripID,
		Name:         d.Name,
		Description:  d.Description,
		CurrencyCode: d.CurrencyCode,
		StartDate:    d.StartDate,
		EndDate:      d.EndDate,
		IsActive:     d.IsActive,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTrip converts a model Trip to a domain Trip.
func ToDomainTrip(m models.Trip) domain.Trip {
	return domain.Trip{
		TripID:       m.TripID,
		Name:         m.Name,
		Description:  m.Description,
		CurrencyCode: m.CurrencyCode,
		StartDate:    m.StartDate,
		EndDate:      m.EndDate,
		IsActive:     m.IsActive,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTripSlice converts a slice of model Trips to domain Trips.
func ToDomainTripSlice(ms []models.Trip) []domain.Trip {
	ds := make([]domain.Trip, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTrip(m)
	}
	return ds
}

// ToModelTripParticipant converts a domain TripParticipant to its model form.
func ToModelTripParticipant(d domain.TripParticipant) models.TripParticipant {
	return models.TripParticipant{
		UserID:      d.UserID,
		DisplayName: d.DisplayName,
		TripID:      d.TripID,
		Role:        models.ParticipantRole(d.Role),
		Status:      models.ParticipantStatus(d.Status),
		JoinedAt:    d.JoinedAt,
	}
}

// ToDomainTripParticipant converts a model TripParticipant to its domain form.
func ToDomainTripParticipant(m models.TripParticipant) domain.TripParticipant {
	return domain.TripParticipant{
		UserID:      m.UserID,
		DisplayName: m.DisplayName,
		TripID:      m.TripID,
		Role:        domain.ParticipantRole(m.Role),
		Status:      domain.ParticipantStatus(m.Status),
		JoinedAt:    m.JoinedAt,
	}
}

// ToDomainTripParticipantSlice converts model participants to domain participants.
func ToDomainTripParticipantSlice(ms []models.TripParticipant) []domain.TripParticipant {
	ds := make([]domain.TripParticipant, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTripParticipant(m)
	}
	return ds
}
