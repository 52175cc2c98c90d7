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

type ListingRepository struct {
	db *sqlx.DB
}

func NewListingRepository(db *sqlx.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

// Create сохраняет новое объявление. Коллизия ключа (фрилансер, listing_id)
// даёт ALREADY_EXISTS.
func (r *ListingRepository) Create(ctx context.Context, l *models.Listing) error {
	query := `
		INSERT INTO listings (id, freelancer_id, listing_id, title, description, category,
			standard_price, deluxe_price, premium_price, active, total_orders, completed_orders)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE, 0, 0)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		l.ID, l.FreelancerID, l.ListingID, l.Title, l.Description, l.Category,
		l.StandardPrice, l.DeluxePrice, l.PremiumPrice).
		Scan(&l.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.New(apperror.ErrCodeAlreadyExists, "объявление с таким идентификатором уже существует")
		}
		return fmt.Errorf("listing repository: create %w", err)
	}
	return nil
}

// GetByKey возвращает объявление по выведенному ключу.
func (r *ListingRepository) GetByKey(ctx context.Context, key uuid.UUID) (*models.Listing, error) {
	var l models.Listing
	err := r.db.GetContext(ctx, &l, `SELECT * FROM listings WHERE id = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("listing repository: get by key %w", err)
	}
	return &l, nil
}

// Update применяет частичное обновление: nil-поля не трогают колонки.
func (r *ListingRepository) Update(ctx context.Context, key uuid.UUID, upd models.ListingUpdate) (*models.Listing, error) {
	var l models.Listing
	query := `
		UPDATE listings SET
			title          = COALESCE($2, title),
			description    = COALESCE($3, description),
			category       = COALESCE($4, category),
			standard_price = COALESCE($5, standard_price),
			deluxe_price   = COALESCE($6, deluxe_price),
			premium_price  = COALESCE($7, premium_price),
			active         = COALESCE($8, active)
		WHERE id = $1
		RETURNING *
	`
	err := r.db.GetContext(ctx, &l, query, key,
		upd.Title, upd.Description, upd.Category,
		upd.StandardPrice, upd.DeluxePrice, upd.PremiumPrice, upd.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("listing repository: update %w", err)
	}
	return &l, nil
}

// ListByFreelancer возвращает объявления фрилансера.
func (r *ListingRepository) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID, limit, offset int) ([]models.Listing, error) {
	var listings []models.Listing
	err := r.db.SelectContext(ctx, &listings, `
		SELECT * FROM listings WHERE freelancer_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, freelancerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing repository: list by freelancer %w", err)
	}
	return listings, nil
}
