package interfaces

import (
	"context"

	"github.com/laundryos/washstack/dto"
)

// CallClassifier turns a raw transcript into a structured classification via
// the LLM completion transport. Pure transform, no side effects.
type CallClassifier interface {
	ClassifyTranscript(ctx context.Context, transcript string) (*dto.CallClassification, error)
}
