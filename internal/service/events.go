package service

import "github.com/google/uuid"

// События, отправляемые сторонам сделки.
const (
	EventEscrowCreated   = "escrow.created"
	EventEscrowReleased  = "escrow.released"
	EventDisputeOpened   = "dispute.opened"
	EventDisputeResolved = "dispute.resolved"
)

// EventPublisher доставляет событие конкретному участнику. Доставка —
// best effort и не входит в кастодиальный контракт.
type EventPublisher interface {
	Publish(userID uuid.UUID, event string, data any)
}

// notify отправляет событие всем перечисленным участникам, если издатель задан.
func notify(pub EventPublisher, event string, data any, userIDs ...uuid.UUID) {
	if pub == nil {
		return
	}
	for _, id := range userIDs {
		pub.Publish(id, event, data)
	}
}
