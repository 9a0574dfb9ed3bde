// Package events provides the fire-and-forget event publication capability.
// Events are diagnostic breadcrumbs and integration hooks; they are never
// required for correctness, so publishers must not fail the operation.
package events

import "context"

// Topics published by the engine.
const (
	TopicInit          = "init"
	TopicPackageSet    = "pkg_set"
	TopicPurchase      = "purchase_created"
	TopicGrant         = "grant"
	TopicStart         = "start"
	TopicPause         = "pause"
	TopicOrderStart    = "order_start"
	TopicOrderPause    = "order_pause"
	TopicPurchaseDebug = "dbg"
)

// Publisher emits an event on topic with an arbitrary payload.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any)
}

// Multi fans an event out to several publishers in order.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, topic string, payload any) {
	for _, p := range m {
		p.Publish(ctx, topic, payload)
	}
}
