package services

import (
	"context"

	"github.com/WayfareLabs/trip_split_app/internal/core/domain"
)

// SettlementSvcFacade defines balance and settlement computation for a trip.
// Both operations read one consistent snapshot of the roster and ledger and
// are pure beyond that read, so repeated calls over unchanged data return
// identical results.
type SettlementSvcFacade interface {
	// ComputeBalances returns the net position of every active participant,
	// zero balances included, sorted by participant ID.
	ComputeBalances(ctx context.Context, tripID string, requestingUserID string) ([]domain.ParticipantBalance, error)

	// ComputeSettlementPlan returns the balances plus the suggested
	// transfers that settle them and the residual the transfers cannot
	// cancel.
	ComputeSettlementPlan(ctx context.Context, tripID string, requestingUserID string) (*domain.SettlementPlan, error)
}
