package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/laundryos/washstack/dto"
	"github.com/laundryos/washstack/interfaces"
	"github.com/laundryos/washstack/internal/config"
	washstack_errors "github.com/laundryos/washstack/internal/errors"
	"github.com/laundryos/washstack/internal/tracing"
)

const classificationPrompt = `You are the triage assistant for a laundromat operations platform.
Analyze the support call transcript and respond with a single JSON object, nothing else, with exactly these fields:
- "category": one of "information_request", "technical_issue", "critical_incident", "payment_terminal"
- "severity": one of "normal", "medium", "urgent", "critical"
- "requiresTechnician": boolean
- "clientMood": one of "calm", "frustrated", "angry"
- "machineImpact": one of "single_machine", "multiple_machines"
- "summary": one short sentence in French summarizing the problem
- "recommendedActions": ordered array of short action strings in French
- "estimatedRevenueLoss": estimated daily revenue loss in euros as a number, 0 if none`

type aiService struct {
	cfg        *config.OpenAIConfig
	httpClient *http.Client
}

func NewAIService(cfg *config.OpenAIConfig) interfaces.CallClassifier {
	return &aiService{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

type chatCompletionRequest struct {
	Model          string              `json:"model"`
	Messages       []chatMessage       `json:"messages"`
	ResponseFormat *chatResponseFormat `json:"response_format,omitempty"`
	Temperature    float64             `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponseFormat struct {
	Type string `json:"type"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (s *aiService) ClassifyTranscript(ctx context.Context, transcript string) (*dto.CallClassification, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "aiService.ClassifyTranscript")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	if transcript == "" {
		err := errors.New("transcript is empty")
		tracing.TraceErr(span, err)
		return nil, err
	}

	payload, err := json.Marshal(chatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: classificationPrompt},
			{Role: "user", Content: transcript},
		},
		ResponseFormat: &chatResponseFormat{Type: "json_object"},
		Temperature:    0,
	})
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "failed to marshal payload")
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.cfg.Url+"/v1/chat/completions", bytes.NewBuffer(payload))
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "failed to create request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.ApiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "completion request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "unable to read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("completion request failed with status code %d: %s", resp.StatusCode, string(body))
		tracing.TraceErr(span, err)
		return nil, err
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "failed to unmarshal completion response")
	}
	if len(completion.Choices) == 0 {
		err := errors.Wrap(washstack_errors.ErrClassificationShape, "completion has no choices")
		tracing.TraceErr(span, err)
		return nil, err
	}

	// The completion content is untrusted text. Parse strictly; a malformed
	// shape propagates to the queue's retry policy instead of being defaulted.
	var classification dto.CallClassification
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &classification); err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(washstack_errors.ErrClassificationShape, err.Error())
	}
	if err := classification.Validate(); err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(washstack_errors.ErrClassificationShape, err.Error())
	}
	tracing.LogObjectAsJson(span, "classification", classification)

	return &classification, nil
}
