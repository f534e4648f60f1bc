package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nimeshpahadi/betstream/internal/domain"
)

// batchColumns must match the Scan order in scanBatch.
const batchColumns = `id, completed, meta, account_id, created_at, updated_at`

// betColumns must match the Scan order in scanBet.
const betColumns = `pid, id, selection, stake, cost, status, batch_id`

// BatchRepo implements domain.BatchRepository backed by PostgreSQL.
type BatchRepo struct {
	pool *pgxpool.Pool
}

func NewBatchRepo(pool *pgxpool.Pool) *BatchRepo {
	return &BatchRepo{pool: pool}
}

func scanBatch(row pgx.Row) (*domain.Batch, error) {
	var (
		b    domain.Batch
		meta []byte
	)
	err := row.Scan(&b.ID, &b.Completed, &meta, &b.AccountID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.Meta = json.RawMessage(meta)
	return &b, nil
}

func scanBet(row pgx.Row) (*domain.Bet, error) {
	var b domain.Bet
	err := row.Scan(&b.PID, &b.ID, &b.Selection, &b.Stake, &b.Cost, &b.Status, &b.BatchID)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func normalizeMeta(meta json.RawMessage) []byte {
	if len(meta) == 0 {
		return []byte("{}")
	}
	return meta
}

func (r *BatchRepo) CreateWithBets(ctx context.Context, accountID int64, meta json.RawMessage, bets []domain.NewBet) (*domain.BatchWithBets, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if err := accountExists(ctx, tx, accountID); err != nil {
		return nil, err
	}

	batch, err := scanBatch(tx.QueryRow(ctx, `
		INSERT INTO batches (meta, account_id)
		VALUES ($1, $2)
		RETURNING `+batchColumns,
		normalizeMeta(meta), accountID))
	if err != nil {
		return nil, fmt.Errorf("failed to create batch: %w", err)
	}

	inserted, err := insertBets(ctx, tx, batch.ID, bets)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &domain.BatchWithBets{Batch: *batch, Bets: inserted}, nil
}

func (r *BatchRepo) ListByAccount(ctx context.Context, accountID int64) ([]domain.BatchWithBets, error) {
	if err := accountExists(ctx, r.pool, accountID); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+batchColumns+` FROM batches
		WHERE account_id = $1
		ORDER BY created_at DESC`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	defer rows.Close()

	batches := []domain.BatchWithBets{}
	batchIDs := []int64{}
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan batch: %w", err)
		}
		batches = append(batches, domain.BatchWithBets{Batch: *b, Bets: []domain.Bet{}})
		batchIDs = append(batchIDs, b.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batches: %w", err)
	}
	if len(batches) == 0 {
		return batches, nil
	}

	betRows, err := r.pool.Query(ctx, `
		SELECT `+betColumns+` FROM bets
		WHERE batch_id = ANY($1)
		ORDER BY pid`, batchIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list bets: %w", err)
	}
	defer betRows.Close()

	byBatch := make(map[int64]int, len(batches))
	for i, b := range batches {
		byBatch[b.ID] = i
	}
	for betRows.Next() {
		bet, err := scanBet(betRows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		i := byBatch[bet.BatchID]
		batches[i].Bets = append(batches[i].Bets, *bet)
	}
	if err := betRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bets: %w", err)
	}

	return batches, nil
}

func (r *BatchRepo) GetByID(ctx context.Context, accountID, batchID int64) (*domain.BatchWithBets, error) {
	batch, err := scanBatch(r.pool.QueryRow(ctx, `
		SELECT `+batchColumns+` FROM batches
		WHERE id = $1 AND account_id = $2`, batchID, accountID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get batch: %w", err)
	}

	bets, err := r.betsForBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	return &domain.BatchWithBets{Batch: *batch, Bets: bets}, nil
}

func (r *BatchRepo) ReplaceBets(ctx context.Context, accountID, batchID int64, meta json.RawMessage, bets []domain.NewBet) (*domain.BatchWithBets, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	var metaArg []byte
	if len(meta) > 0 {
		metaArg = meta
	}

	batch, err := scanBatch(tx.QueryRow(ctx, `
		UPDATE batches
		SET meta = COALESCE($3::jsonb, meta), updated_at = now()
		WHERE id = $2 AND account_id = $1 AND completed = FALSE
		RETURNING `+batchColumns,
		accountID, batchID, metaArg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, batchUpdateRefused(ctx, tx, accountID, batchID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update batch: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM bets WHERE batch_id = $1`, batchID); err != nil {
		return nil, fmt.Errorf("failed to clear bets: %w", err)
	}

	inserted, err := insertBets(ctx, tx, batchID, bets)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &domain.BatchWithBets{Batch: *batch, Bets: inserted}, nil
}

func (r *BatchRepo) Complete(ctx context.Context, accountID, batchID int64) (*domain.Batch, error) {
	batch, err := scanBatch(r.pool.QueryRow(ctx, `
		UPDATE batches
		SET completed = TRUE, updated_at = now()
		WHERE id = $2 AND account_id = $1 AND completed = FALSE
		RETURNING `+batchColumns,
		accountID, batchID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, batchUpdateRefused(ctx, r.pool, accountID, batchID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to complete batch: %w", err)
	}
	return batch, nil
}

func (r *BatchRepo) UpdateBetStatus(ctx context.Context, accountID, batchID, betID int64, status domain.BetStatus) (*domain.Bet, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	bet, err := scanBet(tx.QueryRow(ctx, `
		UPDATE bets
		SET status = $4
		FROM batches
		WHERE bets.batch_id = batches.id
		  AND batches.account_id = $1
		  AND batches.id = $2
		  AND bets.id = $3
		RETURNING bets.pid, bets.id, bets.selection, bets.stake, bets.cost, bets.status, bets.batch_id`,
		accountID, batchID, betID, status))
	if errors.Is(err, pgx.ErrNoRows) {
		var one int
		berr := tx.QueryRow(ctx,
			`SELECT 1 FROM batches WHERE id = $2 AND account_id = $1`,
			accountID, batchID).Scan(&one)
		if errors.Is(berr, pgx.ErrNoRows) {
			return nil, domain.ErrBatchNotFound
		}
		if berr != nil {
			return nil, fmt.Errorf("failed to check batch: %w", berr)
		}
		return nil, domain.ErrBetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update bet status: %w", err)
	}

	if _, err := tx.Exec(ctx, `UPDATE batches SET updated_at = now() WHERE id = $1`, batchID); err != nil {
		return nil, fmt.Errorf("failed to touch batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return bet, nil
}

func (r *BatchRepo) betsForBatch(ctx context.Context, batchID int64) ([]domain.Bet, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+betColumns+` FROM bets
		WHERE batch_id = $1
		ORDER BY pid`, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bets: %w", err)
	}
	defer rows.Close()

	bets := []domain.Bet{}
	for rows.Next() {
		bet, err := scanBet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, *bet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bets: %w", err)
	}
	return bets, nil
}

// querier is the subset of pgx shared by pgxpool.Pool and pgx.Tx.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func accountExists(ctx context.Context, q querier, accountID int64) error {
	var one int
	err := q.QueryRow(ctx, `SELECT 1 FROM accounts WHERE id = $1`, accountID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrAccountNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check account: %w", err)
	}
	return nil
}

// batchUpdateRefused explains why a guarded batch UPDATE matched no rows:
// the batch is gone, or it has already been completed.
func batchUpdateRefused(ctx context.Context, q querier, accountID, batchID int64) error {
	var completed bool
	err := q.QueryRow(ctx,
		`SELECT completed FROM batches WHERE id = $2 AND account_id = $1`,
		accountID, batchID).Scan(&completed)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrBatchNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check batch: %w", err)
	}
	if completed {
		return domain.ErrBatchCompleted
	}
	return domain.ErrBatchNotFound
}

func insertBets(ctx context.Context, tx pgx.Tx, batchID int64, bets []domain.NewBet) ([]domain.Bet, error) {
	inserted := make([]domain.Bet, 0, len(bets))
	for _, nb := range bets {
		bet, err := scanBet(tx.QueryRow(ctx, `
			INSERT INTO bets (id, selection, stake, cost, batch_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+betColumns,
			nb.ID, nb.Selection, nb.Stake, nb.Cost, batchID))
		if err != nil {
			return nil, fmt.Errorf("failed to insert bet %d: %w", nb.ID, err)
		}
		inserted = append(inserted, *bet)
	}
	return inserted, nil
}
