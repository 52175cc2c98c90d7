package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/escrow-backend/internal/config"
	"github.com/ignatzorin/escrow-backend/internal/models"
	"github.com/ignatzorin/escrow-backend/internal/pkg/apperror"
	"github.com/ignatzorin/escrow-backend/internal/pkg/keys"
	"github.com/ignatzorin/escrow-backend/internal/repository"
)

func adminConfig(adminID uuid.UUID) *config.Config {
	cfg := testConfig()
	cfg.AdminIDs = []uuid.UUID{adminID}
	return cfg
}

func TestDisputeService_Open_ByFreelancer(t *testing.T) {
	disputes := new(mockDisputeRepo)
	escrows := new(mockEscrowRepo)
	events := new(recordingPublisher)
	svc := NewDisputeService(disputes, escrows, new(mockUserRepo), testConfig(), events)
	ctx := context.Background()

	clientID := uuid.New()
	freelancerID := uuid.New()
	escrowKey := uuid.New()

	escrows.On("GetByKey", ctx, escrowKey).Return(&models.Escrow{
		ID: escrowKey, ClientID: clientID, FreelancerID: freelancerID,
		Status: models.EscrowStatusActive,
	}, nil)
	disputes.On("Open", ctx, mock.AnythingOfType("*models.Dispute")).Return(nil)

	dispute, err := svc.Open(ctx, freelancerID, escrowKey, "Клиент не выходит на связь")
	assert.NoError(t, err)
	assert.Equal(t, keys.DisputeKey(escrowKey), dispute.ID)
	assert.Equal(t, models.DisputeStatusOpen, dispute.Status)
	assert.Len(t, events.events, 2)
	assert.Equal(t, EventDisputeOpened, events.events[0].Event)
	disputes.AssertExpectations(t)
}

func TestDisputeService_Open_ThirdPartyForbidden(t *testing.T) {
	disputes := new(mockDisputeRepo)
	escrows := new(mockEscrowRepo)
	svc := NewDisputeService(disputes, escrows, new(mockUserRepo), testConfig(), nil)
	ctx := context.Background()

	escrowKey := uuid.New()
	escrows.On("GetByKey", ctx, escrowKey).Return(&models.Escrow{
		ID: escrowKey, ClientID: uuid.New(), FreelancerID: uuid.New(),
		Status: models.EscrowStatusActive,
	}, nil)

	_, err := svc.Open(ctx, uuid.New(), escrowKey, "причина")
	assert.True(t, apperror.IsUnauthorized(err))
	disputes.AssertNotCalled(t, "Open")
}

func TestDisputeService_Open_ReasonBounds(t *testing.T) {
	svc := NewDisputeService(new(mockDisputeRepo), new(mockEscrowRepo), new(mockUserRepo), testConfig(), nil)

	_, err := svc.Open(context.Background(), uuid.New(), uuid.New(), "")
	assert.True(t, apperror.Is(err, apperror.ErrCodeInvalidInput))

	_, err = svc.Open(context.Background(), uuid.New(), uuid.New(), strings.Repeat("а", 501))
	assert.True(t, apperror.Is(err, apperror.ErrCodeInvalidInput))
}

func TestDisputeService_Open_CompletedEscrow(t *testing.T) {
	disputes := new(mockDisputeRepo)
	escrows := new(mockEscrowRepo)
	svc := NewDisputeService(disputes, escrows, new(mockUserRepo), testConfig(), nil)
	ctx := context.Background()

	clientID := uuid.New()
	escrowKey := uuid.New()
	escrows.On("GetByKey", ctx, escrowKey).Return(&models.Escrow{
		ID: escrowKey, ClientID: clientID, FreelancerID: uuid.New(),
		Status: models.EscrowStatusCompleted,
	}, nil)

	_, err := svc.Open(ctx, clientID, escrowKey, "работа не устроила")
	assert.True(t, apperror.IsInvalidState(err))
	disputes.AssertNotCalled(t, "Open")
}

func TestDisputeService_Open_SecondDispute(t *testing.T) {
	disputes := new(mockDisputeRepo)
	escrows := new(mockEscrowRepo)
	svc := NewDisputeService(disputes, escrows, new(mockUserRepo), testConfig(), nil)
	ctx := context.Background()

	clientID := uuid.New()
	escrowKey := uuid.New()
	escrows.On("GetByKey", ctx, escrowKey).Return(&models.Escrow{
		ID: escrowKey, ClientID: clientID, FreelancerID: uuid.New(),
		Status: models.EscrowStatusDisputed, HasDispute: true,
	}, nil)

	_, err := svc.Open(ctx, clientID, escrowKey, "повторная претензия")
	assert.True(t, apperror.IsAlreadyExists(err))
	disputes.AssertNotCalled(t, "Open")
}

func TestDisputeService_Resolve_NotAdmin(t *testing.T) {
	svc := NewDisputeService(new(mockDisputeRepo), new(mockEscrowRepo), new(mockUserRepo), adminConfig(uuid.New()), nil)

	_, err := svc.Resolve(context.Background(), uuid.New(), uuid.New(), ResolveDisputeInput{
		Outcome: models.DisputeStatusResolvedForClient,
	})
	assert.True(t, apperror.IsUnauthorized(err))
}

func TestDisputeService_Resolve_InvalidOutcome(t *testing.T) {
	adminID := uuid.New()
	svc := NewDisputeService(new(mockDisputeRepo), new(mockEscrowRepo), new(mockUserRepo), adminConfig(adminID), nil)

	_, err := svc.Resolve(context.Background(), adminID, uuid.New(), ResolveDisputeInput{Outcome: "open"})
	assert.True(t, apperror.Is(err, apperror.ErrCodeInvalidInput))
}

func TestDisputeService_Resolve_ForClient_Refunds(t *testing.T) {
	disputes := new(mockDisputeRepo)
	escrows := new(mockEscrowRepo)
	users := new(mockUserRepo)
	adminID := uuid.New()
	events := new(recordingPublisher)
	svc := NewDisputeService(disputes, escrows, users, adminConfig(adminID), events)
	ctx := context.Background()

	clientID := uuid.New()
	freelancerID := uuid.New()
	escrowKey := uuid.New()
	disputeKey := keys.DisputeKey(escrowKey)

	open := &models.Dispute{
		ID: disputeKey, EscrowID: escrowKey, ClientID: clientID, FreelancerID: freelancerID,
		Status: models.DisputeStatusOpen,
	}
	resolved := &models.Dispute{
		ID: disputeKey, EscrowID: escrowKey, ClientID: clientID, FreelancerID: freelancerID,
		Status: models.DisputeStatusResolvedForClient,
	}

	disputes.On("GetByKey", ctx, disputeKey).Return(open, nil).Once()
	escrows.On("GetByKey", ctx, escrowKey).Return(&models.Escrow{
		ID: escrowKey, ClientID: clientID, FreelancerID: freelancerID,
		DepositAmount: 1_000_000, Status: models.EscrowStatusDisputed,
		StandardFeeBasisPoints: 500, PremiumFeeBasisPoints: 750,
	}, nil)
	escrows.On("Settle", ctx, mock.MatchedBy(func(p repository.SettleParams) bool {
		// Полный возврат без комиссии; сделка закрывается статусом refunded,
		// счётчики заказов и сделок не растут.
		return p.FromStatus == models.EscrowStatusDisputed &&
			p.ToStatus == models.EscrowStatusRefunded &&
			!p.BumpCompletedOrders && !p.BumpTransactions &&
			len(p.Payouts) == 1 &&
			p.Payouts[0].UserID == clientID && p.Payouts[0].Amount == 1_000_000 &&
			p.Dispute != nil && p.Dispute.Status == models.DisputeStatusResolvedForClient
	})).Return(&models.Escrow{ID: escrowKey, Status: models.EscrowStatusRefunded}, nil)
	disputes.On("GetByKey", ctx, disputeKey).Return(resolved, nil).Once()

	got, err := svc.Resolve(ctx, adminID, disputeKey, ResolveDisputeInput{
		Outcome: models.DisputeStatusResolvedForClient,
	})
	assert.NoError(t, err)
	assert.Equal(t, models.DisputeStatusResolvedForClient, got.Status)
	assert.Len(t, events.events, 2)
	assert.Equal(t, EventDisputeResolved, events.events[0].Event)
	// Ставка для полного возврата не нужна, профиль клиента не читается.
	users.AssertNotCalled(t, "GetByOwner")
	escrows.AssertExpectations(t)
}

func TestDisputeService_Resolve_ForClient_MissingProfileHarmless(t *testing.T) {
	disputes := new(mockDisputeRepo)
	escrows := new(mockEscrowRepo)
	users := new(mockUserRepo)
	adminID := uuid.New()
	svc := NewDisputeService(disputes, escrows, users, adminConfig(adminID), nil)
	ctx := context.Background()

	clientID := uuid.New()
	escrowKey := uuid.New()
	disputeKey := keys.DisputeKey(escrowKey)

	disputes.On("GetByKey", ctx, disputeKey).Return(&models.Dispute{
		ID: disputeKey, EscrowID: escrowKey, ClientID: clientID, Status: models.DisputeStatusOpen,
	}, nil)
	escrows.On("GetByKey", ctx, escrowKey).Return(&models.Escrow{
		ID: escrowKey, ClientID: clientID, FreelancerID: uuid.New(),
		DepositAmount: 1_000_000, Status: models.EscrowStatusDisputed,
	}, nil)
	// Профиль клиента недоступен, но полный возврат от него не зависит.
	users.On("GetByOwner", ctx, clientID).Return(nil, apperror.ErrProfileNotFound)
	escrows.On("Settle", ctx, mock.Anything).Return(&models.Escrow{
		ID: escrowKey, Status: models.EscrowStatusRefunded,
	}, nil)

	_, err := svc.Resolve(ctx, adminID, disputeKey, ResolveDisputeInput{
		Outcome: models.DisputeStatusResolvedForClient,
	})
	assert.NoError(t, err)
}

func TestDisputeService_Resolve_ForFreelancer_NoReferralShare(t *testing.T) {
	disputes := new(mockDisputeRepo)
	escrows := new(mockEscrowRepo)
	users := new(mockUserRepo)
	adminID := uuid.New()
	cfg := adminConfig(adminID)
	svc := NewDisputeService(disputes, escrows, users, cfg, nil)
	ctx := context.Background()

	clientID := uuid.New()
	freelancerID := uuid.New()
	referrerID := uuid.New()
	escrowKey := uuid.New()
	disputeKey := keys.DisputeKey(escrowKey)

	open := &models.Dispute{ID: disputeKey, EscrowID: escrowKey, ClientID: clientID, FreelancerID: freelancerID, Status: models.DisputeStatusOpen}

	disputes.On("GetByKey", ctx, disputeKey).Return(open, nil)
	escrows.On("GetByKey", ctx, escrowKey).Return(&models.Escrow{
		ID: escrowKey, ClientID: clientID, FreelancerID: freelancerID,
		DepositAmount: 1_000_000, Status: models.EscrowStatusDisputed,
		StandardFeeBasisPoints: 500, PremiumFeeBasisPoints: 750,
		ReferrerID: &referrerID,
	}, nil)
	// Премиум-флаг клиента читается в момент решения.
	users.On("GetByOwner", ctx, clientID).Return(&models.UserProfile{OwnerID: clientID, IsPremium: true}, nil)
	escrows.On("Settle", ctx, mock.MatchedBy(func(p repository.SettleParams) bool {
		// При арбитражной выплате реферер не участвует: вся комиссия площадке.
		return p.ToStatus == models.EscrowStatusCompleted &&
			len(p.Payouts) == 2 &&
			p.Payouts[0].UserID == freelancerID && p.Payouts[0].Amount == 925_000 &&
			p.Payouts[1].UserID == cfg.FeeCollectorID && p.Payouts[1].Amount == 75_000
	})).Return(&models.Escrow{ID: escrowKey, Status: models.EscrowStatusCompleted}, nil)

	_, err := svc.Resolve(ctx, adminID, disputeKey, ResolveDisputeInput{
		Outcome: models.DisputeStatusResolvedForFreelancer,
	})
	assert.NoError(t, err)
	escrows.AssertExpectations(t)
}

func TestDisputeService_Resolve_Split(t *testing.T) {
	disputes := new(mockDisputeRepo)
	escrows := new(mockEscrowRepo)
	users := new(mockUserRepo)
	adminID := uuid.New()
	svc := NewDisputeService(disputes, escrows, users, adminConfig(adminID), nil)
	ctx := context.Background()

	clientID := uuid.New()
	freelancerID := uuid.New()
	escrowKey := uuid.New()
	disputeKey := keys.DisputeKey(escrowKey)

	disputes.On("GetByKey", ctx, disputeKey).Return(&models.Dispute{
		ID: disputeKey, EscrowID: escrowKey, ClientID: clientID, FreelancerID: freelancerID,
		Status: models.DisputeStatusOpen,
	}, nil)
	escrows.On("GetByKey", ctx, escrowKey).Return(&models.Escrow{
		ID: escrowKey, ClientID: clientID, FreelancerID: freelancerID,
		DepositAmount: 1_000_000, Status: models.EscrowStatusDisputed,
		StandardFeeBasisPoints: 500, PremiumFeeBasisPoints: 750,
	}, nil)
	users.On("GetByOwner", ctx, clientID).Return(&models.UserProfile{OwnerID: clientID}, nil)
	escrows.On("Settle", ctx, mock.MatchedBy(func(p repository.SettleParams) bool {
		return len(p.Payouts) == 3 &&
			p.Payouts[0].UserID == clientID && p.Payouts[0].Amount == 500_000 &&
			p.Payouts[1].UserID == freelancerID && p.Payouts[1].Amount == 475_000 &&
			p.Payouts[2].Amount == 25_000
	})).Return(&models.Escrow{ID: escrowKey, Status: models.EscrowStatusCompleted}, nil)

	_, err := svc.Resolve(ctx, adminID, disputeKey, ResolveDisputeInput{
		Outcome:              models.DisputeStatusResolvedSplit,
		SplitPercentToClient: int64Ptr(50),
	})
	assert.NoError(t, err)
	escrows.AssertExpectations(t)
}

func TestDisputeService_Resolve_SplitRequiresPercent(t *testing.T) {
	disputes := new(mockDisputeRepo)
	escrows := new(mockEscrowRepo)
	users := new(mockUserRepo)
	adminID := uuid.New()
	svc := NewDisputeService(disputes, escrows, users, adminConfig(adminID), nil)
	ctx := context.Background()

	clientID := uuid.New()
	escrowKey := uuid.New()
	disputeKey := keys.DisputeKey(escrowKey)

	disputes.On("GetByKey", ctx, disputeKey).Return(&models.Dispute{
		ID: disputeKey, EscrowID: escrowKey, ClientID: clientID, Status: models.DisputeStatusOpen,
	}, nil)
	escrows.On("GetByKey", ctx, escrowKey).Return(&models.Escrow{
		ID: escrowKey, ClientID: clientID, DepositAmount: 1_000_000,
		Status: models.EscrowStatusDisputed,
	}, nil)

	_, err := svc.Resolve(ctx, adminID, disputeKey, ResolveDisputeInput{
		Outcome: models.DisputeStatusResolvedSplit,
	})
	assert.True(t, apperror.Is(err, apperror.ErrCodeInvalidInput))

	_, err = svc.Resolve(ctx, adminID, disputeKey, ResolveDisputeInput{
		Outcome:              models.DisputeStatusResolvedSplit,
		SplitPercentToClient: int64Ptr(101),
	})
	assert.True(t, apperror.Is(err, apperror.ErrCodeInvalidInput))
	escrows.AssertNotCalled(t, "Settle")
}

func TestDisputeService_Resolve_AlreadyResolved(t *testing.T) {
	disputes := new(mockDisputeRepo)
	escrows := new(mockEscrowRepo)
	adminID := uuid.New()
	svc := NewDisputeService(disputes, escrows, new(mockUserRepo), adminConfig(adminID), nil)
	ctx := context.Background()

	disputeKey := uuid.New()
	disputes.On("GetByKey", ctx, disputeKey).Return(&models.Dispute{
		ID: disputeKey, Status: models.DisputeStatusResolvedForClient,
	}, nil)

	_, err := svc.Resolve(ctx, adminID, disputeKey, ResolveDisputeInput{
		Outcome: models.DisputeStatusResolvedForFreelancer,
	})
	assert.True(t, apperror.IsInvalidState(err))
	escrows.AssertNotCalled(t, "Settle")
}
