package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/escrow-backend/internal/models"
	"github.com/ignatzorin/escrow-backend/internal/pkg/apperror"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create сохраняет новый профиль. Повторная регистрация той же идентичности
// даёт ALREADY_EXISTS.
func (r *UserRepository) Create(ctx context.Context, p *models.UserProfile) error {
	query := `
		INSERT INTO user_profiles (id, owner_id, username, role, is_premium, reputation_score, total_transactions)
		VALUES ($1, $2, $3, $4, FALSE, $5, 0)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query, p.ID, p.OwnerID, p.Username, p.Role, p.ReputationScore).
		Scan(&p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.New(apperror.ErrCodeAlreadyExists, "профиль для этой идентичности уже существует")
		}
		return fmt.Errorf("user repository: create %w", err)
	}
	return nil
}

// GetByOwner возвращает профиль по идентичности владельца.
func (r *UserRepository) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*models.UserProfile, error) {
	var p models.UserProfile
	err := r.db.GetContext(ctx, &p, `SELECT * FROM user_profiles WHERE owner_id = $1`, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user repository: get by owner %w", err)
	}
	return &p, nil
}

// SetPremium включает премиум-флаг. Повторный вызов безвреден.
func (r *UserRepository) SetPremium(ctx context.Context, ownerID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE user_profiles SET is_premium = TRUE WHERE owner_id = $1`, ownerID)
	if err != nil {
		return fmt.Errorf("user repository: set premium %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("user repository: set premium rows affected %w", err)
	}
	if affected == 0 {
		return apperror.ErrProfileNotFound
	}
	return nil
}

// GetBalance возвращает баланс участника, создаёт нулевую запись если её нет.
func (r *UserRepository) GetBalance(ctx context.Context, userID uuid.UUID) (*models.UserBalance, error) {
	var balance models.UserBalance
	query := `
		INSERT INTO user_balances (user_id, available)
		VALUES ($1, 0)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW()
		RETURNING user_id, available, updated_at
	`
	if err := r.db.GetContext(ctx, &balance, query, userID); err != nil {
		return nil, fmt.Errorf("user repository: get balance %w", err)
	}
	return &balance, nil
}

// Deposit пополняет свободный баланс и пишет запись в журнал.
func (r *UserRepository) Deposit(ctx context.Context, userID uuid.UUID, amount int64, description string) (*models.Transaction, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO user_balances (user_id, available)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET available = user_balances.available + $2, updated_at = NOW()
	`, userID, amount)
	if err != nil {
		return nil, fmt.Errorf("user repository: deposit update balance %w", err)
	}

	var transaction models.Transaction
	err = tx.GetContext(ctx, &transaction, `
		INSERT INTO transactions (user_id, type, amount, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, escrow_id, type, amount, description, created_at
	`, userID, models.TransactionTypeDeposit, amount, description)
	if err != nil {
		return nil, fmt.Errorf("user repository: deposit create transaction %w", err)
	}

	return &transaction, tx.Commit()
}

// ListTransactions возвращает историю движений средств участника.
func (r *UserRepository) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.SelectContext(ctx, &transactions, `
		SELECT id, user_id, escrow_id, type, amount, description, created_at
		FROM transactions WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("user repository: list transactions %w", err)
	}
	return transactions, nil
}
