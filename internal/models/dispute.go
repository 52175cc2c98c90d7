package models

import (
	"time"

	"github.com/google/uuid"
)

// Статусы спора. Open — единственный нетерминальный.
const (
	DisputeStatusOpen                  = "open"
	DisputeStatusResolvedForClient     = "resolved_for_client"
	DisputeStatusResolvedForFreelancer = "resolved_for_freelancer"
	DisputeStatusResolvedSplit         = "resolved_split"
)

// ValidResolutions — допустимые исходы resolveDispute.
var ValidResolutions = map[string]struct{}{
	DisputeStatusResolvedForClient:     {},
	DisputeStatusResolvedForFreelancer: {},
	DisputeStatusResolvedSplit:         {},
}

// Dispute — арбитражное дело, открытое против escrow. Не более одного
// спора на сделку; разрешается ровно один раз и только арбитром.
type Dispute struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	EscrowID     uuid.UUID  `db:"escrow_id" json:"escrow_id"`
	ClientID     uuid.UUID  `db:"client_id" json:"client_id"`
	FreelancerID uuid.UUID  `db:"freelancer_id" json:"freelancer_id"`
	Reason       string     `db:"reason" json:"reason"`
	Status       string     `db:"status" json:"status"`
	AdminNotes   *string    `db:"admin_notes" json:"admin_notes,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	ResolvedAt   *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`
}
