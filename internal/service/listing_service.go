package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/escrow-backend/internal/models"
	"github.com/ignatzorin/escrow-backend/internal/pkg/apperror"
	"github.com/ignatzorin/escrow-backend/internal/pkg/keys"
	"github.com/ignatzorin/escrow-backend/internal/validation"
)

type ListingRepository interface {
	Create(ctx context.Context, l *models.Listing) error
	GetByKey(ctx context.Context, key uuid.UUID) (*models.Listing, error)
	Update(ctx context.Context, key uuid.UUID, upd models.ListingUpdate) (*models.Listing, error)
	ListByFreelancer(ctx context.Context, freelancerID uuid.UUID, limit, offset int) ([]models.Listing, error)
}

// CreateListingInput — параметры нового объявления.
type CreateListingInput struct {
	ListingID     string
	Title         string
	Description   string
	Category      string
	StandardPrice int64
	DeluxePrice   *int64
	PremiumPrice  *int64
}

type ListingService struct {
	listings ListingRepository
	users    UserRepository
}

func NewListingService(listings ListingRepository, users UserRepository) *ListingService {
	return &ListingService{listings: listings, users: users}
}

// Create публикует объявление. Доступно только профилям с ролью freelancer.
func (s *ListingService) Create(ctx context.Context, callerID uuid.UUID, in CreateListingInput) (*models.Listing, error) {
	profile, err := s.users.GetByOwner(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if profile.Role != models.RoleFreelancer {
		return nil, apperror.New(apperror.ErrCodeUnauthorized, "создавать объявления может только фрилансер")
	}

	if err := validateListingFields(in); err != nil {
		return nil, err
	}

	listing := &models.Listing{
		ID:            keys.ListingKey(callerID, in.ListingID),
		FreelancerID:  callerID,
		ListingID:     in.ListingID,
		Title:         in.Title,
		Description:   in.Description,
		Category:      in.Category,
		StandardPrice: in.StandardPrice,
		DeluxePrice:   in.DeluxePrice,
		PremiumPrice:  in.PremiumPrice,
		Active:        true,
	}
	if err := s.listings.Create(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// Update применяет частичное обновление. Отсутствующее поле эквивалентно
// неотправленному: колонка не меняется. Деактивация — это active=false,
// объявления не удаляются.
func (s *ListingService) Update(ctx context.Context, callerID, freelancerID uuid.UUID, listingID string, upd models.ListingUpdate) (*models.Listing, error) {
	key := keys.ListingKey(freelancerID, listingID)

	listing, err := s.listings.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if listing.FreelancerID != callerID {
		return nil, apperror.New(apperror.ErrCodeUnauthorized, "объявление принадлежит другому фрилансеру")
	}

	if err := validateListingUpdate(upd); err != nil {
		return nil, err
	}

	return s.listings.Update(ctx, key, upd)
}

// Get возвращает объявление по естественным идентификаторам.
func (s *ListingService) Get(ctx context.Context, freelancerID uuid.UUID, listingID string) (*models.Listing, error) {
	return s.listings.GetByKey(ctx, keys.ListingKey(freelancerID, listingID))
}

// ListByFreelancer возвращает объявления фрилансера.
func (s *ListingService) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID, limit, offset int) ([]models.Listing, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.listings.ListByFreelancer(ctx, freelancerID, limit, offset)
}

func validateListingFields(in CreateListingInput) error {
	if err := validation.ValidateLength(in.ListingID, "listing_id", 64); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInvalidInput, err.Error())
	}
	if err := validation.ValidateLength(in.Title, "title", validation.MaxTitleLength); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInvalidInput, err.Error())
	}
	if err := validation.ValidateLength(in.Description, "description", validation.MaxDescriptionLength); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInvalidInput, err.Error())
	}
	if err := validation.ValidateLength(in.Category, "category", validation.MaxCategoryLength); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInvalidInput, err.Error())
	}
	if err := validation.ValidatePrice(in.StandardPrice, "standard_price"); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInvalidInput, err.Error())
	}
	if in.DeluxePrice != nil {
		if err := validation.ValidatePrice(*in.DeluxePrice, "deluxe_price"); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeInvalidInput, err.Error())
		}
	}
	if in.PremiumPrice != nil {
		if err := validation.ValidatePrice(*in.PremiumPrice, "premium_price"); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeInvalidInput, err.Error())
		}
	}
	return nil
}

func validateListingUpdate(upd models.ListingUpdate) error {
	if upd.Title != nil {
		if err := validation.ValidateLength(*upd.Title, "title", validation.MaxTitleLength); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeInvalidInput, err.Error())
		}
	}
	if upd.Description != nil {
		if err := validation.ValidateLength(*upd.Description, "description", validation.MaxDescriptionLength); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeInvalidInput, err.Error())
		}
	}
	if upd.Category != nil {
		if err := validation.ValidateLength(*upd.Category, "category", validation.MaxCategoryLength); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeInvalidInput, err.Error())
		}
	}
	if upd.StandardPrice != nil {
		if err := validation.ValidatePrice(*upd.StandardPrice, "standard_price"); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeInvalidInput, err.Error())
		}
	}
	if upd.DeluxePrice != nil {
		if err := validation.ValidatePrice(*upd.DeluxePrice, "deluxe_price"); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeInvalidInput, err.Error())
		}
	}
	if upd.PremiumPrice != nil {
		if err := validation.ValidatePrice(*upd.PremiumPrice, "premium_price"); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeInvalidInput, err.Error())
		}
	}
	return nil
}
