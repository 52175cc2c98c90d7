package models

import (
	"time"

	"github.com/google/uuid"
)

// Статусы escrow. Переходы монотонны: active -> disputed -> completed,
// active -> completed, active/disputed -> refunded. Из терминального
// статуса выхода нет.
const (
	EscrowStatusActive    = "active"
	EscrowStatusDisputed  = "disputed"
	EscrowStatusCompleted = "completed"
	EscrowStatusRefunded  = "refunded"
)

// Тарифные пакеты объявления.
const (
	PackageStandard = "standard"
	PackageDeluxe   = "deluxe"
	PackagePremium  = "premium"
)

// ValidPackages список валидных тарифов.
var ValidPackages = map[string]struct{}{
	PackageStandard: {},
	PackageDeluxe:   {},
	PackagePremium:  {},
}

// Типы записей в журнале транзакций.
const (
	TransactionTypeDeposit       = "deposit"
	TransactionTypeEscrowHold    = "escrow_hold"
	TransactionTypeEscrowRelease = "escrow_release"
	TransactionTypeEscrowRefund  = "escrow_refund"
	TransactionTypeFee           = "fee"
	TransactionTypeReferralFee   = "referral_fee"
)

// Escrow представляет кастодиальную запись одного заказа.
// Ставки комиссии фиксируются при создании и не меняются задним числом;
// какая из двух ставок применится, решает премиум-флаг клиента в момент
// выплаты.
type Escrow struct {
	ID                     uuid.UUID  `db:"id" json:"id"`
	ClientID               uuid.UUID  `db:"client_id" json:"client_id"`
	FreelancerID           uuid.UUID  `db:"freelancer_id" json:"freelancer_id"`
	ListingKey             uuid.UUID  `db:"listing_key" json:"listing_key"`
	OrderID                string     `db:"order_id" json:"order_id"`
	PackageType            string     `db:"package_type" json:"package_type"`
	DepositAmount          int64      `db:"deposit_amount" json:"deposit_amount"`
	Status                 string     `db:"status" json:"status"`
	StandardFeeBasisPoints int64      `db:"standard_fee_bps" json:"standard_fee_bps"`
	PremiumFeeBasisPoints  int64      `db:"premium_fee_bps" json:"premium_fee_bps"`
	ReferrerID             *uuid.UUID `db:"referrer_id" json:"referrer_id,omitempty"`
	HasDispute             bool       `db:"has_dispute" json:"has_dispute"`
	CreatedAt              time.Time  `db:"created_at" json:"created_at"`
	CompletedAt            *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}

// IsTerminal сообщает, достигла ли сделка терминального статуса.
func (e *Escrow) IsTerminal() bool {
	return e.Status == EscrowStatusCompleted || e.Status == EscrowStatusRefunded
}

// EscrowVault — счёт-хранилище, привязанный 1:1 к escrow.
// Баланс равен депозиту, пока сделка активна или в споре, и нулю после
// терминального статуса.
type EscrowVault struct {
	ID        uuid.UUID `db:"id" json:"id"`
	EscrowID  uuid.UUID `db:"escrow_id" json:"escrow_id"`
	Balance   int64     `db:"balance" json:"balance"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Transaction — запись журнала движения средств.
type Transaction struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	UserID      uuid.UUID  `db:"user_id" json:"user_id"`
	EscrowID    *uuid.UUID `db:"escrow_id" json:"escrow_id,omitempty"`
	Type        string     `db:"type" json:"type"`
	Amount      int64      `db:"amount" json:"amount"`
	Description *string    `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}
