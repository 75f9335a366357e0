package queue

// DeliveryOutcome describes what happened to a delivery after its handler ran.
type DeliveryOutcome string

const (
	DeliveryAcked    DeliveryOutcome = "acked"
	DeliveryUnacked  DeliveryOutcome = "unacked"
	DeliveryRequeued DeliveryOutcome = "requeued"
	DeliveryRejected DeliveryOutcome = "rejected"
)

// Metrics receives broker client measurements. Implementations must be safe for concurrent use.
type Metrics interface {
	RecordPublish(queue Name, success bool)
	RecordDelivery(queue Name, outcome DeliveryOutcome)
	RecordConnectionState(state State)
	RecordConnectionAttempt(success bool)
}

type nopMetrics struct{}

func (nopMetrics) RecordPublish(Name, bool) {}

func (nopMetrics) RecordDelivery(Name, DeliveryOutcome) {}

func (nopMetrics) RecordConnectionState(State) {}

func (nopMetrics) RecordConnectionAttempt(bool) {}
