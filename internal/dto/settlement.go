package dto

import (
	"github.com/shopspring/decimal"

	"github.com/WayfareLabs/trip_split_app/internal/core/domain"
)

// ParticipantBalanceResponse is one participant's net position in the trip.
type ParticipantBalanceResponse struct {
	UserID      string          `json:"userID"`
	DisplayName string          `json:"displayName"`
	Balance     decimal.Decimal `json:"balance"`
}

// SettlementInstructionResponse is one suggested transfer.
type SettlementInstructionResponse struct {
	FromUserID string          `json:"fromUserID"`
	ToUserID   string          `json:"toUserID"`
	Amount     decimal.Decimal `json:"amount"`
}

// SettlementPlanResponse is the full settlement picture for a trip: every
// participant's balance, the transfers that settle them, and any residual the
// transfers cannot cancel.
type SettlementPlanResponse struct {
	CurrencyCode string                          `json:"currencyCode"`
	Balances     []ParticipantBalanceResponse    `json:"balances"`
	Settlements  []SettlementInstructionResponse `json:"settlements"`
	Residual     decimal.Decimal                 `json:"residual"`
}

// ToParticipantBalancesResponse converts domain balances to DTOs.
func ToParticipantBalancesResponse(balances []domain.ParticipantBalance) []ParticipantBalanceResponse {
	out := make([]ParticipantBalanceResponse, len(balances))
	for i, b := range balances {
		out[i] = ParticipantBalanceResponse{
			UserID:      b.UserID,
			DisplayName: b.DisplayName,
			Balance:     b.Balance,
		}
	}
	return out
}

// ToSettlementPlanResponse converts a domain.SettlementPlan to DTO.
func ToSettlementPlanResponse(plan *domain.SettlementPlan) SettlementPlanResponse {
	settlements := make([]SettlementInstructionResponse, len(plan.Settlements))
	for i, s := range plan.Settlements {
		settlements[i] = SettlementInstructionResponse{
			FromUserID: s.FromUserID,
			ToUserID:   s.ToUserID,
			Amount:     s.Amount,
		}
	}
	return SettlementPlanResponse{
		CurrencyCode: plan.CurrencyCode,
		Balances:     ToParticipantBalancesResponse(plan.Balances),
		Settlements:  settlements,
		Residual:     plan.Residual,
	}
}
