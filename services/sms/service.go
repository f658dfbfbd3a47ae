package sms

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/laundryos/washstack/interfaces"
	"github.com/laundryos/washstack/internal/config"
	"github.com/laundryos/washstack/internal/tracing"
)

type smsService struct {
	cfg        *config.TwilioConfig
	httpClient *http.Client
}

func NewSMSService(cfg *config.TwilioConfig) interfaces.SMSSender {
	return &smsService{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

func (s *smsService) Send(ctx context.Context, phoneNumber, message string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "smsService.Send")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("to", phoneNumber)

	if phoneNumber == "" {
		err := errors.New("phone number is empty")
		tracing.TraceErr(span, err)
		return err
	}

	form := url.Values{}
	form.Set("To", phoneNumber)
	form.Set("From", s.cfg.FromNumber)
	form.Set("Body", message)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.cfg.Url, s.cfg.AccountSID)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		tracing.TraceErr(span, err)
		return errors.Wrap(err, "failed to create request")
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.cfg.AccountSID, s.cfg.AuthToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		tracing.TraceErr(span, err)
		return errors.Wrap(err, "sms request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		tracing.TraceErr(span, err)
		return errors.Wrap(err, "unable to read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("sms request failed with status code %d: %s", resp.StatusCode, string(body))
		tracing.TraceErr(span, err)
		return err
	}

	return nil
}
