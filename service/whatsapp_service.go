package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"booknest-backend/config"
	"booknest-backend/pkg/logger"
)

// DispatchErrorKind classifies provider failures into explicit categories so
// callers never have to substring-match human-readable messages.
type DispatchErrorKind int

const (
	DispatchErrorUnknown DispatchErrorKind = iota
	DispatchErrorCredentials
	DispatchErrorRateLimit
	DispatchErrorChannelNotConfigured
	DispatchErrorValidation
)

// DispatchError is a classified messaging-provider failure. Message retains
// the raw provider text as a diagnostic payload only.
type DispatchError struct {
	Kind    DispatchErrorKind
	Status  int
	Message string
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("whatsapp dispatch failed (status %d): %s", e.Status, e.Message)
}

// WhatsAppService sends OTP codes through a templated WhatsApp message API
type WhatsAppService interface {
	SendOTP(phoneNumber, code string) (string, error)
}

// whatsAppService implements WhatsAppService interface
type whatsAppService struct {
	cfg    *config.Config
	client *http.Client
	logger *logger.Logger
}

// NewWhatsAppService creates a new WhatsApp dispatcher instance
func NewWhatsAppService(cfg *config.Config, logger *logger.Logger) WhatsAppService {
	return &whatsAppService{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.WhatsApp.Timeout,
		},
		logger: logger,
	}
}

// templateMessage is the provider request payload
type templateMessage struct {
	APIKey         string   `json:"apiKey"`
	CampaignName   string   `json:"campaignName"`
	Destination    string   `json:"destination"`
	UserName       string   `json:"userName"`
	TemplateParams []string `json:"templateParams"`
}

// providerResponse is the provider response payload; ErrorMessage is set on failures
type providerResponse struct {
	MessageID    string `json:"messageId"`
	Status       string `json:"status"`
	ErrorMessage string `json:"errorMessage"`
}

// SendOTP dispatches a templated OTP message and returns the provider message id
func (s *whatsAppService) SendOTP(phoneNumber, code string) (string, error) {
	if s.cfg.WhatsApp.APIKey == "" {
		return "", &DispatchError{
			Kind:    DispatchErrorCredentials,
			Message: "messaging API key is not configured",
		}
	}

	payload := templateMessage{
		APIKey:         s.cfg.WhatsApp.APIKey,
		CampaignName:   s.cfg.WhatsApp.TemplateName,
		Destination:    phoneNumber,
		UserName:       "BookNest",
		TemplateParams: []string{code},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal provider payload: %w", err)
	}

	url := strings.TrimRight(s.cfg.WhatsApp.BaseURL, "/") + "/campaign/t1/api/v2"
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create provider request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach messaging provider: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read provider response: %w", err)
	}

	var parsed providerResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		// Non-JSON body; fall back to the raw text for classification
		parsed = providerResponse{ErrorMessage: strings.TrimSpace(string(respBody))}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		dispatchErr := classifyProviderError(resp.StatusCode, parsed.ErrorMessage)
		s.logger.Errorw("WhatsApp dispatch failed",
			"phone_number", phoneNumber,
			"status", resp.StatusCode,
			"provider_message", parsed.ErrorMessage,
			"kind", dispatchErr.Kind,
		)
		return "", dispatchErr
	}

	s.logger.Infow("OTP dispatched via WhatsApp", "phone_number", phoneNumber, "message_id", parsed.MessageID)
	return parsed.MessageID, nil
}

// classifyProviderError maps an HTTP status and provider message onto a
// DispatchErrorKind. The message inspection happens only here, at the
// provider boundary.
func classifyProviderError(status int, message string) *DispatchError {
	kind := DispatchErrorUnknown
	lower := strings.ToLower(message)

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = DispatchErrorCredentials
	case status == http.StatusTooManyRequests:
		kind = DispatchErrorRateLimit
	case strings.Contains(lower, "channel"):
		kind = DispatchErrorChannelNotConfigured
	case status == http.StatusBadRequest:
		kind = DispatchErrorValidation
	}

	return &DispatchError{
		Kind:    kind,
		Status:  status,
		Message: message,
	}
}
