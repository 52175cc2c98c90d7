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

type DisputeRepository struct {
	db *sqlx.DB
}

func NewDisputeRepository(db *sqlx.DB) *DisputeRepository {
	return &DisputeRepository{db: db}
}

// Open атомарно открывает спор: вставляет запись и переводит escrow в
// disputed. Статус сделки перепроверяется под локом, второй спор по той же
// сделке невозможен.
func (r *DisputeRepository) Open(ctx context.Context, d *models.Dispute) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var e models.Escrow
	err = tx.GetContext(ctx, &e, `SELECT * FROM escrows WHERE id = $1 FOR UPDATE`, d.EscrowID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.ErrEscrowNotFound
		}
		return fmt.Errorf("dispute repository: lock escrow %w", err)
	}
	if e.HasDispute {
		return apperror.New(apperror.ErrCodeAlreadyExists, "по этой сделке уже открыт спор")
	}
	if e.Status != models.EscrowStatusActive {
		return apperror.New(apperror.ErrCodeInvalidState,
			fmt.Sprintf("спор открывается только по активной сделке, текущий статус %s", e.Status))
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO disputes (id, escrow_id, client_id, freelancer_id, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, d.ID, d.EscrowID, d.ClientID, d.FreelancerID, d.Reason, d.Status).
		Scan(&d.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.New(apperror.ErrCodeAlreadyExists, "по этой сделке уже открыт спор")
		}
		return fmt.Errorf("dispute repository: insert %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE escrows SET status = $2, has_dispute = TRUE WHERE id = $1
	`, d.EscrowID, models.EscrowStatusDisputed)
	if err != nil {
		return fmt.Errorf("dispute repository: mark escrow disputed %w", err)
	}

	return tx.Commit()
}

// GetByKey возвращает спор по выведенному ключу.
func (r *DisputeRepository) GetByKey(ctx context.Context, key uuid.UUID) (*models.Dispute, error) {
	var d models.Dispute
	err := r.db.GetContext(ctx, &d, `SELECT * FROM disputes WHERE id = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrDisputeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("dispute repository: get by key %w", err)
	}
	return &d, nil
}

// GetByEscrow возвращает спор по сделке.
func (r *DisputeRepository) GetByEscrow(ctx context.Context, escrowID uuid.UUID) (*models.Dispute, error) {
	var d models.Dispute
	err := r.db.GetContext(ctx, &d, `SELECT * FROM disputes WHERE escrow_id = $1`, escrowID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrDisputeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("dispute repository: get by escrow %w", err)
	}
	return &d, nil
}

// ListByUser возвращает споры, где участник — любая из сторон.
func (r *DisputeRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Dispute, error) {
	var disputes []models.Dispute
	err := r.db.SelectContext(ctx, &disputes, `
		SELECT * FROM disputes
		WHERE client_id = $1 OR freelancer_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("dispute repository: list by user %w", err)
	}
	return disputes, nil
}
