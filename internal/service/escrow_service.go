package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/escrow-backend/internal/config"
	"github.com/ignatzorin/escrow-backend/internal/models"
	"github.com/ignatzorin/escrow-backend/internal/pkg/apperror"
	"github.com/ignatzorin/escrow-backend/internal/pkg/keys"
	"github.com/ignatzorin/escrow-backend/internal/repository"
	"github.com/ignatzorin/escrow-backend/internal/validation"
)

type EscrowRepository interface {
	Create(ctx context.Context, e *models.Escrow, vaultID uuid.UUID) error
	GetByKey(ctx context.Context, key uuid.UUID) (*models.Escrow, error)
	GetVault(ctx context.Context, escrowID uuid.UUID) (*models.EscrowVault, error)
	Settle(ctx context.Context, p repository.SettleParams) (*models.Escrow, error)
}

// CreateEscrowInput — параметры новой сделки.
type CreateEscrowInput struct {
	FreelancerID uuid.UUID
	ListingID    string
	OrderID      string
	PackageType  string
	ReferrerID   *uuid.UUID
}

type EscrowService struct {
	escrows  EscrowRepository
	users    UserRepository
	listings ListingRepository
	cfg      *config.Config
	events   EventPublisher
}

func NewEscrowService(escrows EscrowRepository, users UserRepository, listings ListingRepository, cfg *config.Config, events EventPublisher) *EscrowService {
	return &EscrowService{escrows: escrows, users: users, listings: listings, cfg: cfg, events: events}
}

// Create открывает сделку: депозит по цене выбранного тарифа атомарно
// уходит со свободного баланса клиента в vault. Текущие ставки комиссии
// фиксируются в записи сделки — последующие изменения конфигурации
// открытых сделок не касаются.
func (s *EscrowService) Create(ctx context.Context, callerID uuid.UUID, in CreateEscrowInput) (*models.Escrow, error) {
	if err := validation.ValidateLength(in.OrderID, "order_id", 64); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInvalidInput, err.Error())
	}
	if _, ok := models.ValidPackages[in.PackageType]; !ok {
		return nil, apperror.New(apperror.ErrCodeInvalidInput, "неизвестный тариф: "+in.PackageType)
	}

	// Обе стороны должны быть зарегистрированы.
	if _, err := s.users.GetByOwner(ctx, callerID); err != nil {
		return nil, err
	}
	freelancerProfile, err := s.users.GetByOwner(ctx, in.FreelancerID)
	if err != nil {
		return nil, err
	}
	if freelancerProfile.Role != models.RoleFreelancer {
		return nil, apperror.New(apperror.ErrCodeInvalidInput, "указанный исполнитель не является фрилансером")
	}

	listing, err := s.listings.GetByKey(ctx, keys.ListingKey(in.FreelancerID, in.ListingID))
	if err != nil {
		return nil, err
	}
	if !listing.Active {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "объявление деактивировано")
	}

	price, ok := listing.PriceFor(in.PackageType)
	if !ok {
		return nil, apperror.New(apperror.ErrCodeInvalidTier, "выбранный тариф не предлагается этим объявлением")
	}

	escrowKey := keys.EscrowKey(callerID, in.FreelancerID, in.OrderID)
	escrow := &models.Escrow{
		ID:                     escrowKey,
		ClientID:               callerID,
		FreelancerID:           in.FreelancerID,
		ListingKey:             listing.ID,
		OrderID:                in.OrderID,
		PackageType:            in.PackageType,
		DepositAmount:          price,
		Status:                 models.EscrowStatusActive,
		StandardFeeBasisPoints: s.cfg.FeeStandardBps,
		PremiumFeeBasisPoints:  s.cfg.FeePremiumBps,
		ReferrerID:             in.ReferrerID,
	}

	if err := s.escrows.Create(ctx, escrow, keys.VaultKey(escrowKey)); err != nil {
		return nil, err
	}

	notify(s.events, EventEscrowCreated, escrow, escrow.ClientID, escrow.FreelancerID)
	return escrow, nil
}

// ApproveAndRelease одобряет работу и распределяет vault: комиссия
// площадке (с опциональной долей реферера), остальное фрилансеру.
// Какая из двух зафиксированных ставок применяется, решает премиум-флаг
// клиента, прочитанный в момент вызова.
func (s *EscrowService) ApproveAndRelease(ctx context.Context, callerID, escrowKey uuid.UUID) (*models.Escrow, error) {
	escrow, err := s.escrows.GetByKey(ctx, escrowKey)
	if err != nil {
		return nil, err
	}
	if escrow.ClientID != callerID {
		return nil, apperror.New(apperror.ErrCodeUnauthorized, "одобрить работу может только клиент сделки")
	}
	if escrow.Status != models.EscrowStatusActive {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "сделка уже завершена или в споре")
	}

	clientProfile, err := s.users.GetByOwner(ctx, callerID)
	if err != nil {
		return nil, err
	}

	rate := escrow.StandardFeeBasisPoints
	if clientProfile.IsPremium {
		rate = escrow.PremiumFeeBasisPoints
	}

	dist := ReleaseDistribution(escrow.DepositAmount, rate, escrow.ReferrerID != nil)
	payouts := []repository.Payout{
		{UserID: escrow.FreelancerID, Amount: dist.FreelancerAmount, Type: models.TransactionTypeEscrowRelease, Description: "Оплата за выполненный заказ"},
		{UserID: s.cfg.FeeCollectorID, Amount: dist.PlatformFee, Type: models.TransactionTypeFee, Description: "Комиссия площадки"},
	}
	if escrow.ReferrerID != nil && dist.ReferralFee > 0 {
		payouts = append(payouts, repository.Payout{
			UserID: *escrow.ReferrerID, Amount: dist.ReferralFee,
			Type: models.TransactionTypeReferralFee, Description: "Реферальное вознаграждение",
		})
	}

	settled, err := s.escrows.Settle(ctx, repository.SettleParams{
		EscrowID:            escrowKey,
		FromStatus:          models.EscrowStatusActive,
		ToStatus:            models.EscrowStatusCompleted,
		Payouts:             payouts,
		BumpCompletedOrders: true,
		BumpTransactions:    true,
	})
	if err != nil {
		return nil, err
	}

	notify(s.events, EventEscrowReleased, settled, settled.ClientID, settled.FreelancerID)
	return settled, nil
}

// Get возвращает сделку по выведенному ключу.
func (s *EscrowService) Get(ctx context.Context, escrowKey uuid.UUID) (*models.Escrow, error) {
	return s.escrows.GetByKey(ctx, escrowKey)
}

// GetVault возвращает хранилище сделки.
func (s *EscrowService) GetVault(ctx context.Context, escrowKey uuid.UUID) (*models.EscrowVault, error) {
	return s.escrows.GetVault(ctx, escrowKey)
}
