package models

import (
	"time"

	"github.com/google/uuid"
)

// Роли пользователей. Роль фиксируется при регистрации и не меняется.
const (
	RoleClient     = "client"
	RoleFreelancer = "freelancer"
)

// ValidRoles список валидных ролей.
var ValidRoles = map[string]struct{}{
	RoleClient:     {},
	RoleFreelancer: {},
}

// InitialReputationScore — репутация нового профиля, нейтральные 50 из 100.
const InitialReputationScore = 50

// UserProfile описывает профиль участника площадки.
// ID детерминированно выводится из идентичности владельца (см. pkg/keys).
type UserProfile struct {
	ID                uuid.UUID `db:"id" json:"id"`
	OwnerID           uuid.UUID `db:"owner_id" json:"owner_id"`
	Username          string    `db:"username" json:"username"`
	Role              string    `db:"role" json:"role"`
	IsPremium         bool      `db:"is_premium" json:"is_premium"`
	ReputationScore   int       `db:"reputation_score" json:"reputation_score"`
	TotalTransactions int64     `db:"total_transactions" json:"total_transactions"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

// UserBalance представляет свободный баланс участника в условных единицах.
// Средства, внесённые в escrow, на балансе не отражаются — они лежат в vault сделки.
type UserBalance struct {
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Available int64     `db:"available" json:"available"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
