// Package events publishes domain events to the marketplace event bus.
package events

import (
	"context"
	"time"
)

// Event names
const (
	PenaltyApplied             = "penalty.applied"
	CooldownApplied            = "cooldown.applied"
	WalletTransactionCompleted = "wallet.transaction.completed"
	WalletRefundProcessed      = "wallet.refund.processed"
)

// Event is a named payload. Key groups related events (seller or user id)
// so consumers see them in order.
type Event struct {
	Name       string      `json:"event"`
	Key        string      `json:"key"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// Publisher delivers events to consumers outside the service.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}
