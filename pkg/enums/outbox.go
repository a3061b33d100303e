package enums

// OutboxEventType names the order lifecycle events emitted through the
// transactional outbox.
type OutboxEventType string

const (
	OutboxEventOrderPlaced         OutboxEventType = "order.placed"
	OutboxEventOrderStatusChanged  OutboxEventType = "order.status_changed"
	OutboxEventOrderPaymentChanged OutboxEventType = "order.payment_changed"
	OutboxEventOrderAssigned       OutboxEventType = "order.assigned"
)

type OutboxAggregateType string

const (
	OutboxAggregateOrder OutboxAggregateType = "order"
)
