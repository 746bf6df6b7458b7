package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// WhatsAppProvider defines the interface for WhatsApp API providers
type WhatsAppProvider interface {
	SendTemplateMessage(phone, templateName string, params []string) error
	GetName() string
}

// AiSensyService implements WhatsAppProvider via AiSensy
type AiSensyService struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewAiSensyService creates a new AiSensy WhatsApp service
func NewAiSensyService(apiKey string) *AiSensyService {
	return &AiSensyService{
		apiKey:  apiKey,
		baseURL: "https://backend.aisensy.com/campaign/t1/api/v2",
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// SendTemplateMessage sends a template message via AiSensy
func (s *AiSensyService) SendTemplateMessage(phone, templateName string, params []string) error {
	payload := map[string]interface{}{
		"apiKey":         s.apiKey,
		"campaignName":   templateName,
		"destination":    formatPhoneNumber(phone),
		"userName":       "Tenant",
		"templateParams": params,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", s.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("AiSensy API error: %s", string(body))
	}
	return nil
}

// GetName returns the provider name
func (s *AiSensyService) GetName() string {
	return "AiSensy"
}

// formatPhoneNumber ensures the +55 country code prefix for the API
func formatPhoneNumber(phone string) string {
	digits := strings.TrimPrefix(phone, "+")
	if !strings.HasPrefix(digits, "55") {
		digits = "55" + digits
	}
	return digits
}

// ReminderSender sends rent reminders through whichever provider is
// configured. A nil provider disables reminders without breaking callers.
type ReminderSender struct {
	provider WhatsAppProvider
	template string
}

func NewReminderSender(provider WhatsAppProvider, template string) *ReminderSender {
	if template == "" {
		template = "rent_overdue_reminder"
	}
	return &ReminderSender{provider: provider, template: template}
}

// SendOverdueReminder notifies a payer that rent for a unit is overdue.
func (r *ReminderSender) SendOverdueReminder(phone, unitCode string, amount float64, dueDate time.Time) {
	if r == nil || r.provider == nil {
		return
	}
	params := []string{
		unitCode,
		fmt.Sprintf("%.2f", amount),
		dueDate.Format("02/01/2006"),
	}
	if err := r.provider.SendTemplateMessage(phone, r.template, params); err != nil {
		log.Printf("[Notify] failed to send overdue reminder to %s via %s: %v", phone, r.provider.GetName(), err)
	}
}
