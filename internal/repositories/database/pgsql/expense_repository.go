package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/WayfareLabs/trip_split_app/internal/apperrors"
	"github.com/WayfareLabs/trip_split_app/internal/core/domain"
	portsrepo "github.com/WayfareLabs/trip_split_app/internal/core/ports/repositories"
	"github.com/WayfareLabs/trip_split_app/internal/models"
	"github.com/WayfareLabs/trip_split_app/internal/utils/mapping"
	"github.com/WayfareLabs/trip_split_app/internal/utils/pagination"
)

type PgxExpenseRepository struct {
	BaseRepository
}

func newPgxExpenseRepository(pool *pgxpool.Pool) portsrepo.ExpenseRepositoryWithTx {
	return &PgxExpenseRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxExpenseRepository implements portsrepo.ExpenseRepositoryWithTx
var _ portsrepo.ExpenseRepositoryWithTx = (*PgxExpenseRepository)(nil)

const expenseColumns = `expense_id, trip_id, description, amount, currency_code, category, expense_date, payer_id, recorded_by, created_at, created_by, last_updated_at, last_updated_by`

const splitColumns = `split_id, expense_id, user_id, amount, settled_at_creation, created_at, created_by, last_updated_at, last_updated_by`

func scanExpense(row pgx.Row) (models.Expense, error) {
	var m models.Expense
	err := row.Scan(
		&m.ExpenseID,
		&m.TripID,
		&m.Description,
		&m.Amount,
		&m.CurrencyCode,
		&m.Category,
		&m.ExpenseDate,
		&m.PayerID,
		&m.RecordedBy,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanSplit(row pgx.Row) (models.ExpenseSplit, error) {
	var m models.ExpenseSplit
	err := row.Scan(
		&m.SplitID,
		&m.ExpenseID,
		&m.UserID,
		&m.Amount,
		&m.SettledAtCreation,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveExpenseWithSplits persists an expense and its splits atomically. The
// splits are batched into the same transaction as the expense row.
func (r *PgxExpenseRepository) SaveExpenseWithSplits(ctx context.Context, expense domain.Expense, splits []domain.ExpenseSplit) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // no-op once committed

	modelExpense := mapping.ToModelExpense(expense)
	expenseQuery := `
		INSERT INTO expenses (` + expenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, expenseQuery,
		modelExpense.ExpenseID,
		modelExpense.TripID,
		modelExpense.Description,
		modelExpense.Amount,
		modelExpense.CurrencyCode,
		modelExpense.Category,
		modelExpense.ExpenseDate,
		modelExpense.PayerID,
		modelExpense.RecordedBy,
		modelExpense.CreatedAt,
		modelExpense.CreatedBy,
		modelExpense.LastUpdatedAt,
		modelExpense.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense %s: %w", modelExpense.ExpenseID, err)
	}

	batch := &pgx.Batch{}
	splitQuery := `
		INSERT INTO expense_splits (` + splitColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	for _, split := range splits {
		modelSplit := mapping.ToModelExpenseSplit(split)
		batch.Queue(splitQuery,
			modelSplit.SplitID,
			modelSplit.ExpenseID,
			modelSplit.UserID,
			modelSplit.Amount,
			modelSplit.SettledAtCreation,
			modelSplit.CreatedAt,
			modelSplit.CreatedBy,
			modelSplit.LastUpdatedAt,
			modelSplit.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for range splits {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("failed to insert split for expense %s: %w", modelExpense.ExpenseID, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close split batch for expense %s: %w", modelExpense.ExpenseID, err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE expense_id = $1;
	`
	modelExpense, err := scanExpense(r.Pool.QueryRow(ctx, query, expenseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find expense by ID %s: %w", expenseID, err)
	}

	domainExpense := mapping.ToDomainExpense(modelExpense)
	return &domainExpense, nil
}

func (r *PgxExpenseRepository) FindSplitsByExpenseID(ctx context.Context, expenseID string) ([]domain.ExpenseSplit, error) {
	query := `
		SELECT ` + splitColumns + `
		FROM expense_splits
		WHERE expense_id = $1
		ORDER BY user_id;
	`
	rows, err := r.Pool.Query(ctx, query, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query splits for expense %s: %w", expenseID, err)
	}
	defer rows.Close()

	modelSplits := make([]models.ExpenseSplit, 0)
	for rows.Next() {
		m, scanErr := scanSplit(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan split row: %w", scanErr)
		}
		modelSplits = append(modelSplits, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating split rows: %w", err)
	}

	return mapping.ToDomainExpenseSplitSlice(modelSplits), nil
}

// ListExpensesByTrip retrieves a page of a trip's expenses using token-based
// pagination, newest expense date first with creation time as tie-breaker.
func (r *PgxExpenseRepository) ListExpensesByTrip(ctx context.Context, tripID string, limit int, nextToken *string) ([]domain.Expense, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to know whether a next page exists.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + expenseColumns + `
		FROM expenses
	`
	filterClause := `WHERE trip_id = $1`
	orderByClause := `ORDER BY expense_date DESC, created_at DESC`

	args := []interface{}{tripID}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		filterClause += ` AND (expense_date, created_at) < ($2, $3)`
		args = append(args, lastDate, lastCreatedAt)
	}

	query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query expenses for trip %s: %w", tripID, err)
	}
	defer rows.Close()

	modelExpenses := make([]models.Expense, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanExpense(rows)
		if scanErr != nil {
			return nil, nil, fmt.Errorf("failed to scan expense row: %w", scanErr)
		}
		modelExpenses = append(modelExpenses, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating expense rows: %w", err)
	}

	var nextTokenVal *string
	results := modelExpenses
	if len(modelExpenses) > limit {
		last := modelExpenses[limit-1]
		newToken := pagination.EncodeToken(last.ExpenseDate, last.CreatedAt)
		nextTokenVal = &newToken
		results = modelExpenses[:limit]
	}

	return mapping.ToDomainExpenseSlice(results), nextTokenVal, nil
}

// FindExpensesWithSplitsByTrip loads the trip's whole ledger in one
// transaction so balance computation sees a consistent snapshot.
func (r *PgxExpenseRepository) FindExpensesWithSplitsByTrip(ctx context.Context, tripID string) ([]domain.ExpenseWithSplits, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	expenseQuery := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE trip_id = $1
		ORDER BY expense_date, created_at;
	`
	rows, err := tx.Query(ctx, expenseQuery, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses for trip %s: %w", tripID, err)
	}

	modelExpenses := make([]models.Expense, 0)
	for rows.Next() {
		m, scanErr := scanExpense(rows)
		if scanErr != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense row: %w", scanErr)
		}
		modelExpenses = append(modelExpenses, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense rows: %w", err)
	}

	splitQuery := `
		SELECT s.split_id, s.expense_id, s.user_id, s.amount, s.settled_at_creation, s.created_at, s.created_by, s.last_updated_at, s.last_updated_by
		FROM expense_splits s
		JOIN expenses e ON e.expense_id = s.expense_id
		WHERE e.trip_id = $1;
	`
	splitRows, err := tx.Query(ctx, splitQuery, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to query splits for trip %s: %w", tripID, err)
	}

	splitsByExpense := make(map[string][]models.ExpenseSplit)
	for splitRows.Next() {
		m, scanErr := scanSplit(splitRows)
		if scanErr != nil {
			splitRows.Close()
			return nil, fmt.Errorf("failed to scan split row: %w", scanErr)
		}
		splitsByExpense[m.ExpenseID] = append(splitsByExpense[m.ExpenseID], m)
	}
	splitRows.Close()
	if err := splitRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating split rows: %w", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	ledger := make([]domain.ExpenseWithSplits, len(modelExpenses))
	for i, m := range modelExpenses {
		ledger[i] = domain.ExpenseWithSplits{
			Expense: mapping.ToDomainExpense(m),
			Splits:  mapping.ToDomainExpenseSplitSlice(splitsByExpense[m.ExpenseID]),
		}
	}
	return ledger, nil
}

func (r *PgxExpenseRepository) UpdateExpense(ctx context.Context, expense domain.Expense) error {
	modelExpense := mapping.ToModelExpense(expense)
	query := `
		UPDATE expenses
		SET description = $2, category = $3, expense_date = $4, last_updated_at = $5, last_updated_by = $6
		WHERE expense_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		modelExpense.ExpenseID,
		modelExpense.Description,
		modelExpense.Category,
		modelExpense.ExpenseDate,
		modelExpense.LastUpdatedAt,
		modelExpense.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense %s: %w", modelExpense.ExpenseID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteExpenseWithSplits removes an expense and its splits atomically.
func (r *PgxExpenseRepository) DeleteExpenseWithSplits(ctx context.Context, expenseID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM expense_splits WHERE expense_id = $1;`, expenseID); err != nil {
		return fmt.Errorf("failed to delete splits for expense %s: %w", expenseID, err)
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM expenses WHERE expense_id = $1;`, expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense %s: %w", expenseID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}
