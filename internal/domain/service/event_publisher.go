package service

import "context"

// Event types published by the ledger and the registry.
const (
	EventDeviceRegistered = "device.registered"
	EventDeviceStolen     = "device.stolen"
	EventTheftReportFiled = "theft_report.filed"
)

// EventPublisher delivers domain events to downstream consumers.
type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType string, data interface{}) error
}
