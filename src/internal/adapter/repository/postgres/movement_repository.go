package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/api-sage/brokerage-ledger/src/internal/domain"
	"github.com/api-sage/brokerage-ledger/src/internal/logger"
)

const movementColumns = `m.id_movement, m.reference, m.id_account, m.amount, t.type_description, m.movement_date_time`

type MovementRepository struct {
	db dbtx
}

func NewMovementRepository(db dbtx) *MovementRepository {
	return &MovementRepository{db: db}
}

func (r *MovementRepository) Create(ctx context.Context, movement domain.Movement) (domain.Movement, error) {
	if movement.Reference == "" {
		movement.Reference = uuid.NewString()
	}

	logger.Info("movement repository create", logger.Fields{
		"accountId": movement.AccountID,
		"type":      movement.Type,
		"amount":    movement.Amount.String(),
		"reference": movement.Reference,
	})

	const query = `
INSERT INTO movement (
	reference,
	id_account,
	amount,
	type_code
) VALUES ($1, $2, $3, $4)
RETURNING id_movement, movement_date_time`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		movement.Reference,
		movement.AccountID,
		movement.Amount,
		movement.Type.Code(),
	).Scan(&movement.ID, &movement.CreatedAt); err != nil {
		logger.Error("movement repository create failed", err, logger.Fields{
			"accountId": movement.AccountID,
			"reference": movement.Reference,
		})
		return domain.Movement{}, fmt.Errorf("create movement: %w", err)
	}

	return movement, nil
}

func (r *MovementRepository) ListByAccount(ctx context.Context, accountID int64) ([]domain.Movement, error) {
	const query = `
SELECT ` + movementColumns + `
FROM movement m
JOIN movement_type t ON t.type_code = m.type_code
WHERE m.id_account = $1
ORDER BY m.id_movement`

	return r.list(ctx, query, accountID)
}

func (r *MovementRepository) ListRecent(ctx context.Context, limit int) ([]domain.Movement, error) {
	const query = `
SELECT ` + movementColumns + `
FROM movement m
JOIN movement_type t ON t.type_code = m.type_code
ORDER BY m.movement_date_time DESC, m.id_movement DESC
LIMIT $1`

	return r.list(ctx, query, limit)
}

func (r *MovementRepository) list(ctx context.Context, query string, arg any) ([]domain.Movement, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		logger.Error("movement repository list failed", err, nil)
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	movements := make([]domain.Movement, 0)
	for rows.Next() {
		var (
			movement    domain.Movement
			description string
		)
		if err := rows.Scan(
			&movement.ID,
			&movement.Reference,
			&movement.AccountID,
			&movement.Amount,
			&description,
			&movement.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}

		movement.Type, err = domain.ParseMovementType(description)
		if err != nil {
			return nil, err
		}
		movements = append(movements, movement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movements: %w", err)
	}

	return movements, nil
}
