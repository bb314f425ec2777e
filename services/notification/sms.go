package notification

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SMSService sends the caller-facing text messages.
type SMSService interface {
	SendConfirmation(ctx context.Context, phone, name, date, timeOfDay string) error
	SendReminder(ctx context.Context, phone, name, date, timeOfDay string) error
}

const twilioAPIBase = "https://api.twilio.com/2010-04-01"

// TwilioSMSService is a thin client for the Twilio Messages endpoint.
type TwilioSMSService struct {
	AccountSID string
	AuthToken  string
	From       string
	HTTPClient *http.Client
	BaseURL    string
}

func NewTwilioSMSService(accountSID, authToken, from string) *TwilioSMSService {
	return &TwilioSMSService{
		AccountSID: accountSID,
		AuthToken:  authToken,
		From:       from,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		BaseURL:    twilioAPIBase,
	}
}

func (s *TwilioSMSService) SendConfirmation(ctx context.Context, phone, name, date, timeOfDay string) error {
	body := fmt.Sprintf("Hallo %s, Ihr Termin am %s um %s Uhr ist gebucht.", name, date, timeOfDay)
	return s.send(ctx, phone, body)
}

func (s *TwilioSMSService) SendReminder(ctx context.Context, phone, name, date, timeOfDay string) error {
	body := fmt.Sprintf("Hallo %s, zur Erinnerung: Ihr Termin am %s um %s Uhr.", name, date, timeOfDay)
	return s.send(ctx, phone, body)
}

func (s *TwilioSMSService) send(ctx context.Context, to, body string) error {
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", s.From)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", s.BaseURL, s.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.SetBasicAuth(s.AccountSID, s.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("send sms to %s: %w", to, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sms to %s rejected with status %d: %s", to, resp.StatusCode, detail)
	}
	return nil
}
