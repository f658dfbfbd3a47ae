package dto

// Event is the envelope published to and consumed from the message bus.
type Event struct {
	Event    EventDetails  `json:"event"`
	Metadata EventMetadata `json:"metadata"`
}

type EventDetails struct {
	Id        string      `json:"id"`
	Tenant    string      `json:"tenant"`
	EntityId  string      `json:"entityId"`
	EventType string      `json:"eventType"`
	Data      interface{} `json:"data"`
}

type EventMetadata struct {
	UberTraceId string `json:"uber-trace-id"`
	AppSource   string `json:"appSource"`
	Timestamp   string `json:"timestamp"`
}

// CallTranscriptionReceived carries a finished call arriving over the bus
// instead of the provider webhook.
type CallTranscriptionReceived struct {
	CallTranscriptionPayload
}

// MaintenanceStatusChanged notifies stakeholders that a maintenance report
// moved to a new status.
type MaintenanceStatusChanged struct {
	MaintenanceID string `json:"maintenanceId"`
	Status        string `json:"status"`
	TechnicianID  string `json:"technicianId"`
	LaundryID     string `json:"laundryId"`
}
