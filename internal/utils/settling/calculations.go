// Package settling holds the pure money math for group trips: equal-share
// split synthesis, balance aggregation, and the greedy settlement planner.
// Everything here is deterministic and side-effect free; services and tests
// share these functions so the semantics cannot drift apart.
package settling

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/WayfareLabs/trip_split_app/internal/core/domain"
)

// Epsilon is the tolerance below which a balance is treated as settled.
// One cent absorbs rounding noise without hiding real debt.
var Epsilon = decimal.New(1, -2) // 0.01

// EqualShares divides amount into n shares that sum to amount exactly.
// Each share is floor(amount/n) at cent precision; the residual cent(s) from
// the division go to the first share(s), so callers that pass participants in
// a stable sort order get deterministic output.
func EqualShares(amount decimal.Decimal, n int) []decimal.Decimal {
	if n <= 0 {
		return nil
	}
	base := amount.Div(decimal.NewFromInt(int64(n))).RoundDown(2)
	shares := make([]decimal.Decimal, n)
	for i := range shares {
		shares[i] = base
	}
	// Distribute the remainder one cent at a time, starting at the first share.
	remainder := amount.Sub(base.Mul(decimal.NewFromInt(int64(n))))
	cent := decimal.New(1, -2)
	for i := 0; remainder.IsPositive() && i < n; i++ {
		if remainder.LessThan(cent) {
			shares[i] = shares[i].Add(remainder)
			break
		}
		shares[i] = shares[i].Add(cent)
		remainder = remainder.Sub(cent)
	}
	return shares
}

// SumSplits returns the total of all split amounts.
func SumSplits(splits []domain.ExpenseSplit) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range splits {
		sum = sum.Add(s.Amount)
	}
	return sum
}

// AggregateBalances folds a trip's expense ledger into one signed balance per
// active participant. Every participant gets an entry, zero balances
// included. For each expense the payer is credited the full amount; every
// split not flagged settled-at-creation debits its participant. Because the
// payer's own split carries the flag, the payer is credited their entire
// outlay rather than only the amount fronted for others, so the balances do
// not generally sum to zero; the planner reports the leftover as a residual.
//
// Expenses referencing a payer or split participant outside the active roster
// still contribute to the roster members' balances; the outsider's share is
// ignored, matching a roster that shrank after the expense was recorded.
//
// The result is sorted by participant ID so repeated calls over the same
// snapshot are byte-identical.
func AggregateBalances(participants []domain.TripParticipant, ledger []domain.ExpenseWithSplits) []domain.ParticipantBalance {
	balances := make(map[string]decimal.Decimal, len(participants))
	names := make(map[string]string, len(participants))
	for _, p := range participants {
		if !p.IsActive() {
			continue
		}
		balances[p.UserID] = decimal.Zero
		names[p.UserID] = p.DisplayName
	}

	for _, entry := range ledger {
		if _, ok := balances[entry.Expense.PayerID]; ok {
			balances[entry.Expense.PayerID] = balances[entry.Expense.PayerID].Add(entry.Expense.Amount)
		}
		for _, split := range entry.Splits {
			if split.SettledAtCreation {
				continue
			}
			if _, ok := balances[split.UserID]; ok {
				balances[split.UserID] = balances[split.UserID].Sub(split.Amount)
			}
		}
	}

	result := make([]domain.ParticipantBalance, 0, len(balances))
	for userID, balance := range balances {
		result = append(result, domain.ParticipantBalance{
			UserID:      userID,
			DisplayName: names[userID],
			Balance:     balance,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UserID < result[j].UserID
	})
	return result
}

// PlanSettlements walks the balance list with a greedy two-cursor match and
// returns the transfers that drive every balance toward zero, plus the signed
// residual that could not be cancelled (positive: credit left unpaid,
// negative: debt left uncollected).
//
// Greedy matching is a deliberate approximation: the provably minimal number
// of transfers is an NP-hard partitioning problem, and largest-against-largest
// matching is close enough in practice for trip-sized groups.
func PlanSettlements(balances []domain.ParticipantBalance) ([]domain.SettlementInstruction, decimal.Decimal) {
	var creditors, debtors []domain.ParticipantBalance
	for _, b := range balances {
		switch {
		case b.Balance.GreaterThan(Epsilon):
			creditors = append(creditors, b)
		case b.Balance.LessThan(Epsilon.Neg()):
			debtors = append(debtors, b)
		}
	}

	// Largest creditor and most-negative debtor first; ties break on
	// participant ID so identical snapshots plan identically.
	sort.Slice(creditors, func(i, j int) bool {
		if !creditors[i].Balance.Equal(creditors[j].Balance) {
			return creditors[i].Balance.GreaterThan(creditors[j].Balance)
		}
		return creditors[i].UserID < creditors[j].UserID
	})
	sort.Slice(debtors, func(i, j int) bool {
		if !debtors[i].Balance.Equal(debtors[j].Balance) {
			return debtors[i].Balance.LessThan(debtors[j].Balance)
		}
		return debtors[i].UserID < debtors[j].UserID
	})

	instructions := []domain.SettlementInstruction{}
	ci, di := 0, 0
	for ci < len(creditors) && di < len(debtors) {
		credit := creditors[ci].Balance
		debt := debtors[di].Balance.Neg()

		amount := decimal.Min(credit, debt)
		if amount.GreaterThan(Epsilon) {
			instructions = append(instructions, domain.SettlementInstruction{
				FromUserID: debtors[di].UserID,
				ToUserID:   creditors[ci].UserID,
				Amount:     amount.Round(2),
			})
		}

		creditors[ci].Balance = credit.Sub(amount)
		debtors[di].Balance = debtors[di].Balance.Add(amount)

		if creditors[ci].Balance.LessThanOrEqual(Epsilon) {
			ci++
		}
		if debtors[di].Balance.Abs().LessThanOrEqual(Epsilon) {
			di++
		}
	}

	// One side is exhausted; whatever the other side still holds is the
	// residual the caller must surface instead of silently dropping.
	residual := decimal.Zero
	for ; ci < len(creditors); ci++ {
		residual = residual.Add(creditors[ci].Balance)
	}
	for ; di < len(debtors); di++ {
		residual = residual.Add(debtors[di].Balance)
	}
	if residual.Abs().LessThanOrEqual(Epsilon) {
		residual = decimal.Zero
	}
	return instructions, residual.Round(2)
}

// ApplyInstructions replays a settlement plan against a balance list and
// returns the remaining balances, keyed by participant ID. Used to verify
// that a plan actually settles what it claims to settle.
func ApplyInstructions(balances []domain.ParticipantBalance, instructions []domain.SettlementInstruction) map[string]decimal.Decimal {
	remaining := make(map[string]decimal.Decimal, len(balances))
	for _, b := range balances {
		remaining[b.UserID] = b.Balance
	}
	for _, instr := range instructions {
		remaining[instr.FromUserID] = remaining[instr.FromUserID].Add(instr.Amount)
		remaining[instr.ToUserID] = remaining[instr.ToUserID].Sub(instr.Amount)
	}
	return remaining
}
