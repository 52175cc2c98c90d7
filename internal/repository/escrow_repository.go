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

// Payout — одно зачисление при распределении vault.
type Payout struct {
	UserID      uuid.UUID
	Amount      int64
	Type        string
	Description string
}

// DisputeResolution — обновление спора, выполняемое в той же транзакции,
// что и распределение средств.
type DisputeResolution struct {
	DisputeID  uuid.UUID
	Status     string
	AdminNotes *string
}

// SettleParams описывает терминальное распределение vault.
// Сумма выплат обязана в точности равняться депозиту: никакая единица не
// теряется и не дублируется.
type SettleParams struct {
	EscrowID            uuid.UUID
	FromStatus          string
	ToStatus            string
	Payouts             []Payout
	BumpCompletedOrders bool
	BumpTransactions    bool
	Dispute             *DisputeResolution
}

type EscrowRepository struct {
	db *sqlx.DB
}

func NewEscrowRepository(db *sqlx.DB) *EscrowRepository {
	return &EscrowRepository{db: db}
}

// Create атомарно создаёт escrow: списывает депозит со свободного баланса
// клиента, заводит vault с тем же остатком и инкрементирует счётчик заказов
// объявления. Любая ошибка откатывает всё целиком.
func (r *EscrowRepository) Create(ctx context.Context, e *models.Escrow, vaultID uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Блокируем баланс клиента и перепроверяем средства под локом.
	var balance models.UserBalance
	err = tx.GetContext(ctx, &balance,
		`SELECT user_id, available, updated_at FROM user_balances WHERE user_id = $1 FOR UPDATE`, e.ClientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.ErrInsufficientFunds
		}
		return fmt.Errorf("escrow repository: lock balance %w", err)
	}
	if balance.Available < e.DepositAmount {
		return apperror.ErrInsufficientFunds
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE user_balances SET available = available - $2, updated_at = NOW()
		WHERE user_id = $1
	`, e.ClientID, e.DepositAmount)
	if err != nil {
		return fmt.Errorf("escrow repository: debit client %w", err)
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO escrows (id, client_id, freelancer_id, listing_key, order_id, package_type,
			deposit_amount, status, standard_fee_bps, premium_fee_bps, referrer_id, has_dispute)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, FALSE)
		RETURNING created_at
	`, e.ID, e.ClientID, e.FreelancerID, e.ListingKey, e.OrderID, e.PackageType,
		e.DepositAmount, e.Status, e.StandardFeeBasisPoints, e.PremiumFeeBasisPoints, e.ReferrerID).
		Scan(&e.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.New(apperror.ErrCodeAlreadyExists, "сделка с таким заказом уже существует")
		}
		return fmt.Errorf("escrow repository: insert escrow %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO escrow_vaults (id, escrow_id, balance) VALUES ($1, $2, $3)
	`, vaultID, e.ID, e.DepositAmount)
	if err != nil {
		return fmt.Errorf("escrow repository: insert vault %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE listings SET total_orders = total_orders + 1 WHERE id = $1
	`, e.ListingKey)
	if err != nil {
		return fmt.Errorf("escrow repository: bump listing orders %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO transactions (user_id, escrow_id, type, amount, description)
		VALUES ($1, $2, $3, $4, 'Заморозка депозита по сделке')
	`, e.ClientID, e.ID, models.TransactionTypeEscrowHold, e.DepositAmount)
	if err != nil {
		return fmt.Errorf("escrow repository: hold transaction %w", err)
	}

	return tx.Commit()
}

// GetByKey возвращает сделку по выведенному ключу.
func (r *EscrowRepository) GetByKey(ctx context.Context, key uuid.UUID) (*models.Escrow, error) {
	var e models.Escrow
	err := r.db.GetContext(ctx, &e, `SELECT * FROM escrows WHERE id = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrEscrowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("escrow repository: get by key %w", err)
	}
	return &e, nil
}

// GetVault возвращает vault сделки.
func (r *EscrowRepository) GetVault(ctx context.Context, escrowID uuid.UUID) (*models.EscrowVault, error) {
	var v models.EscrowVault
	err := r.db.GetContext(ctx, &v, `SELECT * FROM escrow_vaults WHERE escrow_id = $1`, escrowID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrEscrowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("escrow repository: get vault %w", err)
	}
	return &v, nil
}

// Settle выполняет терминальное распределение vault одной транзакцией.
// Статус сделки и остаток vault перепроверяются под локом, поэтому гонка
// двух конкурирующих вызовов оставляет ровно одного победителя.
func (r *EscrowRepository) Settle(ctx context.Context, p SettleParams) (*models.Escrow, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var e models.Escrow
	err = tx.GetContext(ctx, &e, `SELECT * FROM escrows WHERE id = $1 FOR UPDATE`, p.EscrowID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrEscrowNotFound
		}
		return nil, fmt.Errorf("escrow repository: lock escrow %w", err)
	}
	if e.Status != p.FromStatus {
		return nil, apperror.New(apperror.ErrCodeInvalidState,
			fmt.Sprintf("сделка в статусе %s, ожидался %s", e.Status, p.FromStatus))
	}

	var vault models.EscrowVault
	err = tx.GetContext(ctx, &vault, `SELECT * FROM escrow_vaults WHERE escrow_id = $1 FOR UPDATE`, p.EscrowID)
	if err != nil {
		return nil, fmt.Errorf("escrow repository: lock vault %w", err)
	}

	var total int64
	for _, payout := range p.Payouts {
		total += payout.Amount
	}
	// Инвариант кастодии: выплаты разбивают депозит без остатка.
	if vault.Balance != e.DepositAmount || total != vault.Balance {
		return nil, fmt.Errorf("escrow repository: нарушение инварианта vault: остаток %d, депозит %d, выплаты %d",
			vault.Balance, e.DepositAmount, total)
	}

	for _, payout := range p.Payouts {
		if payout.Amount == 0 {
			continue
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO user_balances (user_id, available)
			VALUES ($1, $2)
			ON CONFLICT (user_id) DO UPDATE SET available = user_balances.available + $2, updated_at = NOW()
		`, payout.UserID, payout.Amount)
		if err != nil {
			return nil, fmt.Errorf("escrow repository: credit payout %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO transactions (user_id, escrow_id, type, amount, description)
			VALUES ($1, $2, $3, $4, $5)
		`, payout.UserID, e.ID, payout.Type, payout.Amount, payout.Description)
		if err != nil {
			return nil, fmt.Errorf("escrow repository: payout transaction %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, `UPDATE escrow_vaults SET balance = 0 WHERE escrow_id = $1`, p.EscrowID)
	if err != nil {
		return nil, fmt.Errorf("escrow repository: drain vault %w", err)
	}

	err = tx.GetContext(ctx, &e, `
		UPDATE escrows SET status = $2, completed_at = NOW() WHERE id = $1
		RETURNING *
	`, p.EscrowID, p.ToStatus)
	if err != nil {
		return nil, fmt.Errorf("escrow repository: update escrow status %w", err)
	}

	if p.BumpCompletedOrders {
		_, err = tx.ExecContext(ctx, `
			UPDATE listings SET completed_orders = completed_orders + 1 WHERE id = $1
		`, e.ListingKey)
		if err != nil {
			return nil, fmt.Errorf("escrow repository: bump completed orders %w", err)
		}
	}

	if p.BumpTransactions {
		_, err = tx.ExecContext(ctx, `
			UPDATE user_profiles SET total_transactions = total_transactions + 1
			WHERE owner_id IN ($1, $2)
		`, e.ClientID, e.FreelancerID)
		if err != nil {
			return nil, fmt.Errorf("escrow repository: bump transaction counters %w", err)
		}
	}

	if p.Dispute != nil {
		res, err := tx.ExecContext(ctx, `
			UPDATE disputes SET status = $2, admin_notes = $3, resolved_at = NOW()
			WHERE id = $1 AND status = $4
		`, p.Dispute.DisputeID, p.Dispute.Status, p.Dispute.AdminNotes, models.DisputeStatusOpen)
		if err != nil {
			return nil, fmt.Errorf("escrow repository: resolve dispute %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("escrow repository: resolve dispute rows affected %w", err)
		}
		if affected == 0 {
			return nil, apperror.New(apperror.ErrCodeInvalidState, "спор уже разрешён")
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &e, nil
}
