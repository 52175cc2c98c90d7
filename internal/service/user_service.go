package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/escrow-backend/internal/models"
	"github.com/ignatzorin/escrow-backend/internal/pkg/apperror"
	"github.com/ignatzorin/escrow-backend/internal/pkg/keys"
	"github.com/ignatzorin/escrow-backend/internal/validation"
)

type UserRepository interface {
	Create(ctx context.Context, p *models.UserProfile) error
	GetByOwner(ctx context.Context, ownerID uuid.UUID) (*models.UserProfile, error)
	SetPremium(ctx context.Context, ownerID uuid.UUID) error
	GetBalance(ctx context.Context, userID uuid.UUID) (*models.UserBalance, error)
	Deposit(ctx context.Context, userID uuid.UUID, amount int64, description string) (*models.Transaction, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Transaction, error)
}

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Register создаёт профиль для вызывающей идентичности. Роль фиксируется
// навсегда, репутация стартует с нейтральных 50.
func (s *UserService) Register(ctx context.Context, ownerID uuid.UUID, username, role string) (*models.UserProfile, error) {
	if err := validation.ValidateLength(username, "username", validation.MaxUsernameLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInvalidInput, err.Error())
	}
	if _, ok := models.ValidRoles[role]; !ok {
		return nil, apperror.New(apperror.ErrCodeInvalidInput, "роль должна быть client или freelancer")
	}

	profile := &models.UserProfile{
		ID:              keys.UserProfileKey(ownerID),
		OwnerID:         ownerID,
		Username:        username,
		Role:            role,
		ReputationScore: models.InitialReputationScore,
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// UpgradeToPremium включает премиум-статус. Вызов на уже премиальном
// профиле — идемпотентный no-op, а не ошибка.
func (s *UserService) UpgradeToPremium(ctx context.Context, ownerID uuid.UUID) (*models.UserProfile, error) {
	if err := s.repo.SetPremium(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.repo.GetByOwner(ctx, ownerID)
}

// GetProfile возвращает профиль по идентичности владельца.
func (s *UserService) GetProfile(ctx context.Context, ownerID uuid.UUID) (*models.UserProfile, error) {
	return s.repo.GetByOwner(ctx, ownerID)
}

// GetBalance возвращает свободный баланс участника.
func (s *UserService) GetBalance(ctx context.Context, userID uuid.UUID) (*models.UserBalance, error) {
	return s.repo.GetBalance(ctx, userID)
}

// Deposit пополняет свободный баланс.
func (s *UserService) Deposit(ctx context.Context, userID uuid.UUID, amount int64) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, apperror.New(apperror.ErrCodeInvalidInput, "сумма должна быть положительной")
	}
	return s.repo.Deposit(ctx, userID, amount, "Пополнение баланса")
}

// ListTransactions возвращает историю движений средств.
func (s *UserService) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListTransactions(ctx, userID, limit, offset)
}
