package dto

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/laundryos/washstack/internal/models"
)

// CallTranscriptionPayload is what the call-transcription provider posts
// when a support call ends.
type CallTranscriptionPayload struct {
	Type           string  `json:"type"`
	CallID         string  `json:"call_id"`
	Transcript     string  `json:"transcript"`
	Duration       int     `json:"duration"`
	CallerNumber   string  `json:"caller_number"`
	MachineID      string  `json:"machine_id"`
	MachineLabel   string  `json:"machine_label"`
	LaundryID      string  `json:"laundry_id"`
	LaundryAddress string  `json:"laundry_address"`
	Analysis       JSONRaw `json:"analysis,omitempty"`
}

// JSONRaw keeps the nested analysis blob opaque on ingestion.
type JSONRaw map[string]interface{}

// PaymentPayload is posted by the payment gateway per transaction.
type PaymentPayload struct {
	TransactionID string  `json:"transaction_id"`
	Status        string  `json:"status"`
	Amount        float64 `json:"amount"`
	MachineID     string  `json:"machine_id"`
	LaundryID     string  `json:"laundry_id"`
}

// MaintenancePayload is posted by the maintenance system on report updates.
type MaintenancePayload struct {
	MaintenanceID string `json:"maintenance_id"`
	Type          string `json:"type"`
	Status        string `json:"status"`
	TechnicianID  string `json:"technician_id"`
	LaundryID     string `json:"laundry_id"`
}

// DecodeEventData unmarshals the jsonb payload of a persisted event into the
// source-specific payload struct.
func DecodeEventData[T any](data models.JSONMap) (T, error) {
	var decoded T

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return decoded, errors.Wrap(err, "failed to marshal event data")
	}

	if err := json.Unmarshal(jsonBytes, &decoded); err != nil {
		return decoded, errors.Wrap(err, "failed to unmarshal event data")
	}

	return decoded, nil
}

// EncodeEventData converts a payload struct back into the jsonb map shape.
func EncodeEventData(payload any) (models.JSONMap, error) {
	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal payload")
	}

	var data models.JSONMap
	if err := json.Unmarshal(jsonBytes, &data); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal payload")
	}

	return data, nil
}
