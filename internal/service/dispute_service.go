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

type DisputeRepository interface {
	Open(ctx context.Context, d *models.Dispute) error
	GetByKey(ctx context.Context, key uuid.UUID) (*models.Dispute, error)
	GetByEscrow(ctx context.Context, escrowID uuid.UUID) (*models.Dispute, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Dispute, error)
}

// ResolveDisputeInput — решение арбитра.
// SplitPercentToClient обязателен только для resolved_split.
type ResolveDisputeInput struct {
	Outcome              string
	AdminNotes           *string
	SplitPercentToClient *int64
}

type DisputeService struct {
	disputes DisputeRepository
	escrows  EscrowRepository
	users    UserRepository
	cfg      *config.Config
	events   EventPublisher
}

func NewDisputeService(disputes DisputeRepository, escrows EscrowRepository, users UserRepository, cfg *config.Config, events EventPublisher) *DisputeService {
	return &DisputeService{disputes: disputes, escrows: escrows, users: users, cfg: cfg, events: events}
}

// Open открывает спор по активной сделке. Доступно обеим сторонам сделки;
// vault остаётся замороженным до решения арбитра.
func (s *DisputeService) Open(ctx context.Context, callerID, escrowKey uuid.UUID, reason string) (*models.Dispute, error) {
	if err := validation.ValidateLength(reason, "reason", validation.MaxReasonLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInvalidInput, err.Error())
	}

	escrow, err := s.escrows.GetByKey(ctx, escrowKey)
	if err != nil {
		return nil, err
	}
	if callerID != escrow.ClientID && callerID != escrow.FreelancerID {
		return nil, apperror.New(apperror.ErrCodeUnauthorized, "спор может открыть только сторона сделки")
	}
	// Репозиторий перепроверит то же самое под локом; здесь отсекаем
	// заведомо невозможные переходы до открытия транзакции.
	if escrow.HasDispute {
		return nil, apperror.New(apperror.ErrCodeAlreadyExists, "по этой сделке уже открыт спор")
	}
	if escrow.Status != models.EscrowStatusActive {
		return nil, apperror.New(apperror.ErrCodeInvalidState,
			"спор открывается только по активной сделке, текущий статус "+escrow.Status)
	}

	dispute := &models.Dispute{
		ID:           keys.DisputeKey(escrowKey),
		EscrowID:     escrowKey,
		ClientID:     escrow.ClientID,
		FreelancerID: escrow.FreelancerID,
		Reason:       reason,
		Status:       models.DisputeStatusOpen,
	}
	if err := s.disputes.Open(ctx, dispute); err != nil {
		return nil, err
	}

	notify(s.events, EventDisputeOpened, dispute, dispute.ClientID, dispute.FreelancerID)
	return dispute, nil
}

// Resolve закрывает спор и распределяет vault по исходу. Доступно только
// сконфигурированным арбитрам — по равенству идентичности, не через роль
// в профиле. Полный возврат клиенту завершает сделку статусом refunded,
// остальные исходы — completed.
func (s *DisputeService) Resolve(ctx context.Context, callerID, disputeKey uuid.UUID, in ResolveDisputeInput) (*models.Dispute, error) {
	if !s.cfg.IsAdmin(callerID) {
		return nil, apperror.New(apperror.ErrCodeUnauthorized, "разрешать споры может только арбитр")
	}

	if _, ok := models.ValidResolutions[in.Outcome]; !ok {
		return nil, apperror.New(apperror.ErrCodeInvalidInput, "недопустимый исход спора: "+in.Outcome)
	}
	if in.AdminNotes != nil {
		if err := validation.ValidateOptionalLength(*in.AdminNotes, "admin_notes", validation.MaxAdminNotesLength); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeInvalidInput, err.Error())
		}
	}

	dispute, err := s.disputes.GetByKey(ctx, disputeKey)
	if err != nil {
		return nil, err
	}
	if dispute.Status != models.DisputeStatusOpen {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "спор уже разрешён")
	}

	escrow, err := s.escrows.GetByKey(ctx, dispute.EscrowID)
	if err != nil {
		return nil, err
	}

	var (
		dist     Distribution
		toStatus string
	)
	switch in.Outcome {
	case models.DisputeStatusResolvedForClient:
		// Полный возврат не зависит от ставки, профиль клиента не нужен.
		dist = RefundDistribution(escrow.DepositAmount)
		toStatus = models.EscrowStatusRefunded
	case models.DisputeStatusResolvedForFreelancer:
		rate, err := s.feeRate(ctx, escrow)
		if err != nil {
			return nil, err
		}
		// Распределение как при обычном одобрении, но без реферальной доли.
		dist = ReleaseDistribution(escrow.DepositAmount, rate, false)
		toStatus = models.EscrowStatusCompleted
	case models.DisputeStatusResolvedSplit:
		if in.SplitPercentToClient == nil {
			return nil, apperror.New(apperror.ErrCodeInvalidInput, "для раздела требуется процент клиента")
		}
		pct := *in.SplitPercentToClient
		if pct < 0 || pct > 100 {
			return nil, apperror.New(apperror.ErrCodeInvalidInput, "процент клиента должен быть в диапазоне 0..100")
		}
		rate, err := s.feeRate(ctx, escrow)
		if err != nil {
			return nil, err
		}
		dist = SplitDistribution(escrow.DepositAmount, pct, rate)
		toStatus = models.EscrowStatusCompleted
	}

	payouts := buildResolutionPayouts(escrow, dist, s.cfg.FeeCollectorID)

	if _, err := s.escrows.Settle(ctx, repository.SettleParams{
		EscrowID:   escrow.ID,
		FromStatus: models.EscrowStatusDisputed,
		ToStatus:   toStatus,
		Payouts:    payouts,
		Dispute: &repository.DisputeResolution{
			DisputeID:  dispute.ID,
			Status:     in.Outcome,
			AdminNotes: in.AdminNotes,
		},
	}); err != nil {
		return nil, err
	}

	resolved, err := s.disputes.GetByKey(ctx, disputeKey)
	if err != nil {
		return nil, err
	}

	notify(s.events, EventDisputeResolved, resolved, resolved.ClientID, resolved.FreelancerID)
	return resolved, nil
}

// Get возвращает спор по выведенному ключу.
func (s *DisputeService) Get(ctx context.Context, disputeKey uuid.UUID) (*models.Dispute, error) {
	return s.disputes.GetByKey(ctx, disputeKey)
}

// GetByEscrow возвращает спор по сделке.
func (s *DisputeService) GetByEscrow(ctx context.Context, escrowKey uuid.UUID) (*models.Dispute, error) {
	return s.disputes.GetByEscrow(ctx, escrowKey)
}

// ListByUser возвращает споры участника.
func (s *DisputeService) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Dispute, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.disputes.ListByUser(ctx, userID, limit, offset)
}

// feeRate выбирает одну из двух зафиксированных в сделке ставок по
// премиум-флагу клиента, прочитанному в момент вызова.
func (s *DisputeService) feeRate(ctx context.Context, escrow *models.Escrow) (int64, error) {
	clientProfile, err := s.users.GetByOwner(ctx, escrow.ClientID)
	if err != nil {
		return 0, err
	}
	if clientProfile.IsPremium {
		return escrow.PremiumFeeBasisPoints, nil
	}
	return escrow.StandardFeeBasisPoints, nil
}

// buildResolutionPayouts переводит распределение в выплаты, опуская нулевые доли.
func buildResolutionPayouts(escrow *models.Escrow, dist Distribution, feeCollectorID uuid.UUID) []repository.Payout {
	payouts := make([]repository.Payout, 0, 3)
	if dist.ClientAmount > 0 {
		payouts = append(payouts, repository.Payout{
			UserID: escrow.ClientID, Amount: dist.ClientAmount,
			Type: models.TransactionTypeEscrowRefund, Description: "Возврат по решению арбитра",
		})
	}
	if dist.FreelancerAmount > 0 {
		payouts = append(payouts, repository.Payout{
			UserID: escrow.FreelancerID, Amount: dist.FreelancerAmount,
			Type: models.TransactionTypeEscrowRelease, Description: "Выплата по решению арбитра",
		})
	}
	if dist.PlatformFee > 0 {
		payouts = append(payouts, repository.Payout{
			UserID: feeCollectorID, Amount: dist.PlatformFee,
			Type: models.TransactionTypeFee, Description: "Комиссия площадки",
		})
	}
	return payouts
}
