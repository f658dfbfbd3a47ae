package enum

type EventSource string

const (
	SourceCallTranscription EventSource = "call_transcription"
	SourcePayment           EventSource = "payment"
	SourceMaintenance       EventSource = "maintenance"
)

func (t EventSource) String() string {
	return string(t)
}

func DecodeEventSource(s string) EventSource {
	switch s {
	case SourceCallTranscription.String():
		return SourceCallTranscription
	case SourcePayment.String():
		return SourcePayment
	case SourceMaintenance.String():
		return SourceMaintenance
	default:
		return ""
	}
}

type EventStatus string

const (
	EventStatusPending   EventStatus = "pending"
	EventStatusProcessed EventStatus = "processed"
	EventStatusFailed    EventStatus = "failed"
)

func (t EventStatus) String() string {
	return string(t)
}

// IsTerminal reports whether the status admits no further transitions.
func (t EventStatus) IsTerminal() bool {
	return t == EventStatusProcessed || t == EventStatusFailed
}
