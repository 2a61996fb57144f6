package settling_test

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WayfareLabs/trip_split_app/internal/core/domain"
	"github.com/WayfareLabs/trip_split_app/internal/utils/settling"
)

func activeParticipant(userID string) domain.TripParticipant {
	return domain.TripParticipant{
		UserID:   userID,
		TripID:   "trip-1",
		Role:     domain.RoleEditor,
		Status:   domain.ParticipantActive,
		JoinedAt: time.Now(),
	}
}

// expenseEqualSplit builds an expense paid by payerID, split equally across
// the given participants, with the payer's own split flagged settled.
func expenseEqualSplit(expenseID, payerID string, amount decimal.Decimal, userIDs []string) domain.ExpenseWithSplits {
	shares := settling.EqualShares(amount, len(userIDs))
	splits := make([]domain.ExpenseSplit, len(userIDs))
	for i, userID := range userIDs {
		splits[i] = domain.ExpenseSplit{
			SplitID:           fmt.Sprintf("%s-split-%d", expenseID, i),
			ExpenseID:         expenseID,
			UserID:            userID,
			Amount:            shares[i],
			SettledAtCreation: userID == payerID,
		}
	}
	return domain.ExpenseWithSplits{
		Expense: domain.Expense{
			ExpenseID:    expenseID,
			TripID:       "trip-1",
			Amount:       amount,
			CurrencyCode: "EUR",
			PayerID:      payerID,
		},
		Splits: splits,
	}
}

func TestEqualShares_SumsExactly(t *testing.T) {
	amounts := []string{"10.00", "0.01", "0.03", "100.00", "33.33", "99.99", "1234.56"}
	for _, amountStr := range amounts {
		amount := decimal.RequireFromString(amountStr)
		for n := 1; n <= 50; n++ {
			shares := settling.EqualShares(amount, n)
			require.Len(t, shares, n)

			sum := decimal.Zero
			for _, s := range shares {
				sum = sum.Add(s)
			}
			assert.True(t, sum.Equal(amount),
				"amount %s split %d ways sums to %s", amountStr, n, sum)

			// No two shares may differ by more than one cent.
			min, max := shares[0], shares[0]
			for _, s := range shares {
				min = decimal.Min(min, s)
				max = decimal.Max(max, s)
			}
			assert.True(t, max.Sub(min).LessThanOrEqual(decimal.New(1, -2)),
				"amount %s split %d ways is uneven: min %s max %s", amountStr, n, min, max)
		}
	}
}

func TestEqualShares_TenEuroThreeWays(t *testing.T) {
	shares := settling.EqualShares(decimal.RequireFromString("10.00"), 3)
	require.Len(t, shares, 3)
	// Residual cent goes to the first share.
	assert.Equal(t, "3.34", shares[0].StringFixed(2))
	assert.Equal(t, "3.33", shares[1].StringFixed(2))
	assert.Equal(t, "3.33", shares[2].StringFixed(2))
}

func TestEqualShares_InvalidCount(t *testing.T) {
	assert.Nil(t, settling.EqualShares(decimal.NewFromInt(10), 0))
	assert.Nil(t, settling.EqualShares(decimal.NewFromInt(10), -3))
}

func TestAggregateBalances_ZeroExpenses(t *testing.T) {
	participants := []domain.TripParticipant{
		activeParticipant("p1"), activeParticipant("p2"), activeParticipant("p3"),
	}

	balances := settling.AggregateBalances(participants, nil)

	require.Len(t, balances, 3)
	for i, expected := range []string{"p1", "p2", "p3"} {
		assert.Equal(t, expected, balances[i].UserID)
		assert.True(t, balances[i].Balance.IsZero())
	}
}

func TestAggregateBalances_SinglePayerThreeWaySplit(t *testing.T) {
	participants := []domain.TripParticipant{
		activeParticipant("a"), activeParticipant("b"), activeParticipant("c"),
	}
	ledger := []domain.ExpenseWithSplits{
		expenseEqualSplit("e1", "a", decimal.RequireFromString("30.00"), []string{"a", "b", "c"}),
	}

	balances := settling.AggregateBalances(participants, ledger)

	require.Len(t, balances, 3)
	// The payer's own split is flagged settled and never debited, so the
	// payer is credited the full outlay and the balances sum to +10.
	assert.Equal(t, "30.00", balances[0].Balance.StringFixed(2))
	assert.Equal(t, "-10.00", balances[1].Balance.StringFixed(2))
	assert.Equal(t, "-10.00", balances[2].Balance.StringFixed(2))
}

func TestAggregateBalances_ExcludesInactiveParticipants(t *testing.T) {
	pending := activeParticipant("p2")
	pending.Status = domain.ParticipantPending
	removed := activeParticipant("p3")
	removed.Status = domain.ParticipantRemoved
	participants := []domain.TripParticipant{activeParticipant("p1"), pending, removed}

	balances := settling.AggregateBalances(participants, nil)

	require.Len(t, balances, 1)
	assert.Equal(t, "p1", balances[0].UserID)
}

func TestAggregateBalances_OrderIndependent(t *testing.T) {
	participants := []domain.TripParticipant{
		activeParticipant("a"), activeParticipant("b"),
		activeParticipant("c"), activeParticipant("d"),
	}
	userIDs := []string{"a", "b", "c", "d"}
	ledger := []domain.ExpenseWithSplits{
		expenseEqualSplit("e1", "a", decimal.RequireFromString("100.00"), userIDs),
		expenseEqualSplit("e2", "b", decimal.RequireFromString("33.33"), userIDs),
		expenseEqualSplit("e3", "c", decimal.RequireFromString("7.01"), []string{"c", "d"}),
		expenseEqualSplit("e4", "d", decimal.RequireFromString("250.00"), []string{"a", "d"}),
	}

	reference := settling.AggregateBalances(participants, ledger)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]domain.ExpenseWithSplits, len(ledger))
		copy(shuffled, ledger)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got := settling.AggregateBalances(participants, shuffled)
		require.Len(t, got, len(reference))
		for j := range reference {
			assert.Equal(t, reference[j].UserID, got[j].UserID)
			assert.True(t, reference[j].Balance.Equal(got[j].Balance),
				"balance for %s differs: %s vs %s", reference[j].UserID, reference[j].Balance, got[j].Balance)
		}
	}
}

func TestPlanSettlements_SinglePayerThreeWaySplit(t *testing.T) {
	balances := []domain.ParticipantBalance{
		{UserID: "a", Balance: decimal.RequireFromString("30.00")},
		{UserID: "b", Balance: decimal.RequireFromString("-10.00")},
		{UserID: "c", Balance: decimal.RequireFromString("-10.00")},
	}

	instructions, residual := settling.PlanSettlements(balances)

	require.Len(t, instructions, 2)
	assert.Equal(t, "b", instructions[0].FromUserID)
	assert.Equal(t, "a", instructions[0].ToUserID)
	assert.Equal(t, "10.00", instructions[0].Amount.StringFixed(2))
	assert.Equal(t, "c", instructions[1].FromUserID)
	assert.Equal(t, "a", instructions[1].ToUserID)
	assert.Equal(t, "10.00", instructions[1].Amount.StringFixed(2))

	// Debtors exhausted with the payer's own share left over: the documented
	// non-zero-sum caveat shows up as a +10 residual, never dropped.
	assert.Equal(t, "10.00", residual.StringFixed(2))
}

func TestPlanSettlements_TwoExpenseNetting(t *testing.T) {
	// A pays 20 split evenly with B, then B pays 20 split evenly with A.
	// The aggregator nets before the planner runs, so the plan must not
	// contain two opposing 10.00 transfers.
	participants := []domain.TripParticipant{activeParticipant("a"), activeParticipant("b")}
	ledger := []domain.ExpenseWithSplits{
		expenseEqualSplit("e1", "a", decimal.RequireFromString("20.00"), []string{"a", "b"}),
		expenseEqualSplit("e2", "b", decimal.RequireFromString("20.00"), []string{"a", "b"}),
	}

	balances := settling.AggregateBalances(participants, ledger)
	instructions, residual := settling.PlanSettlements(balances)

	// a: +20 -10 = +10, b: +20 -10 = +10. Two creditors, no debtors.
	assert.Empty(t, instructions)
	assert.Equal(t, "20.00", residual.StringFixed(2))

	// Same scenario under zero-sum balances nets to nothing at all.
	even := []domain.ParticipantBalance{
		{UserID: "a", Balance: decimal.Zero},
		{UserID: "b", Balance: decimal.Zero},
	}
	instructions, residual = settling.PlanSettlements(even)
	assert.Empty(t, instructions)
	assert.True(t, residual.IsZero())
}

func TestPlanSettlements_DrivesBalancesToZero(t *testing.T) {
	balances := []domain.ParticipantBalance{
		{UserID: "a", Balance: decimal.RequireFromString("55.50")},
		{UserID: "b", Balance: decimal.RequireFromString("-20.25")},
		{UserID: "c", Balance: decimal.RequireFromString("-35.25")},
		{UserID: "d", Balance: decimal.Zero},
	}

	instructions, residual := settling.PlanSettlements(balances)

	assert.True(t, residual.IsZero())
	remaining := settling.ApplyInstructions(balances, instructions)
	for userID, balance := range remaining {
		assert.True(t, balance.Abs().LessThanOrEqual(settling.Epsilon),
			"participant %s left with %s", userID, balance)
	}
}

func TestPlanSettlements_ReportsResidualInsteadOfLooping(t *testing.T) {
	// Credit side outweighs the debt side; the walk must terminate once the
	// debtors are exhausted and report the leftover credit.
	balances := []domain.ParticipantBalance{
		{UserID: "a", Balance: decimal.RequireFromString("40.00")},
		{UserID: "b", Balance: decimal.RequireFromString("-15.00")},
	}

	instructions, residual := settling.PlanSettlements(balances)

	require.Len(t, instructions, 1)
	assert.Equal(t, "15.00", instructions[0].Amount.StringFixed(2))
	assert.Equal(t, "25.00", residual.StringFixed(2))
}

func TestPlanSettlements_SubCentBalancesIgnored(t *testing.T) {
	balances := []domain.ParticipantBalance{
		{UserID: "a", Balance: decimal.RequireFromString("0.009")},
		{UserID: "b", Balance: decimal.RequireFromString("-0.005")},
	}

	instructions, residual := settling.PlanSettlements(balances)

	assert.Empty(t, instructions)
	assert.True(t, residual.IsZero())
}

func TestPlanSettlements_Deterministic(t *testing.T) {
	// Equal balances tie-break on participant ID, so repeated runs over the
	// same input produce identical instruction order.
	build := func() []domain.ParticipantBalance {
		return []domain.ParticipantBalance{
			{UserID: "p4", Balance: decimal.RequireFromString("-10.00")},
			{UserID: "p2", Balance: decimal.RequireFromString("10.00")},
			{UserID: "p3", Balance: decimal.RequireFromString("-10.00")},
			{UserID: "p1", Balance: decimal.RequireFromString("10.00")},
		}
	}

	first, firstResidual := settling.PlanSettlements(build())
	for i := 0; i < 10; i++ {
		again, againResidual := settling.PlanSettlements(build())
		require.Equal(t, len(first), len(again))
		for j := range first {
			assert.Equal(t, first[j].FromUserID, again[j].FromUserID)
			assert.Equal(t, first[j].ToUserID, again[j].ToUserID)
			assert.True(t, first[j].Amount.Equal(again[j].Amount))
		}
		assert.True(t, firstResidual.Equal(againResidual))
	}

	require.Len(t, first, 2)
	assert.Equal(t, "p3", first[0].FromUserID)
	assert.Equal(t, "p1", first[0].ToUserID)
	assert.Equal(t, "p4", first[1].FromUserID)
	assert.Equal(t, "p2", first[1].ToUserID)
}
