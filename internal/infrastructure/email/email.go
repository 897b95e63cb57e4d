// Package email renders and sends customer notifications.
package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// Template names
const (
	TemplateCustomerRegistration   = "email_template_customer.html"
	TemplatePasswordResetRequest   = "email_template_password_reset_request_customer.html"
	TemplatePasswordResetConfirmed = "email_template_password_reset_customer.html"
	TemplateOrderConfirmation      = "email_template_checkout.html"
	TemplateOrderStatusUpdate      = "email_template_order_status.html"
	TemplateContact                = "email_template_contact.html"
	TemplateDownloadAvailable      = "email_template_checkout_download.html"
)

// Model keys shared by every template
const (
	KeyStoreName         = "EMAIL_STORE_NAME"
	KeyStoreURL          = "EMAIL_STORE_URL"
	KeyStoreEmail        = "EMAIL_STORE_EMAIL"
	KeyCustomerFirstName = "EMAIL_CUSTOMER_FIRSTNAME"
	KeyCustomerLastName  = "EMAIL_CUSTOMER_LASTNAME"
	KeyCustomerEmail     = "EMAIL_CUSTOMER_EMAIL"
	KeyResetLink         = "EMAIL_RESET_LINK"
	KeyOrderNumber       = "EMAIL_ORDER_NUMBER"
	KeyOrderStatus       = "EMAIL_ORDER_STATUS"
	KeyOrderComments     = "EMAIL_ORDER_COMMENTS"
	KeyOrderTotal        = "EMAIL_ORDER_TOTAL"
	KeyDownloadLink      = "EMAIL_DOWNLOAD_LINK"
	KeyContactMessage    = "EMAIL_CONTACT_MESSAGE"
	KeyFooterCopyright   = "EMAIL_FOOTER_COPYRIGHT"
)

//go:embed templates/*.html
var defaultTemplates embed.FS

// Email is an outgoing message
type Email struct {
	From     string
	To       []string
	Subject  string
	Template string
	Model    map[string]any
	// Body is filled by Render when empty
	Body string
}

// Sender delivers messages
type Sender interface {
	Send(ctx context.Context, msg Email) error
}

// Renderer executes named templates. A file with the same name in the
// override directory replaces the embedded default.
type Renderer struct {
	dir   string
	mu    sync.RWMutex
	cache map[string]*template.Template
}

// NewRenderer creates a renderer; dir may be empty
func NewRenderer(dir string) *Renderer {
	return &Renderer{dir: dir, cache: make(map[string]*template.Template)}
}

func (r *Renderer) lookup(name string) (*template.Template, error) {
	r.mu.RLock()
	t, ok := r.cache[name]
	r.mu.RUnlock()
	if ok {
		return t, nil
	}

	var err error
	if r.dir != "" {
		path := filepath.Join(r.dir, filepath.Base(name))
		if _, statErr := os.Stat(path); statErr == nil {
			t, err = template.ParseFiles(path)
		}
	}
	if t == nil && err == nil {
		t, err = template.ParseFS(defaultTemplates, "templates/"+filepath.Base(name))
	}
	if err != nil {
		return nil, fmt.Errorf("load email template %s: %w", name, err)
	}

	r.mu.Lock()
	r.cache[name] = t
	r.mu.Unlock()
	return t, nil
}

// Render executes template name with model
func (r *Renderer) Render(name string, model map[string]any) (string, error) {
	t, err := r.lookup(name)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, model); err != nil {
		return "", fmt.Errorf("render email template %s: %w", name, err)
	}
	return buf.String(), nil
}

// Service renders a message body when needed and hands it to the sender
type Service struct {
	renderer *Renderer
	sender   Sender
	from     string
	logger   *zap.Logger
}

// NewService creates an email service
func NewService(renderer *Renderer, sender Sender, from string, logger *zap.Logger) *Service {
	return &Service{renderer: renderer, sender: sender, from: from, logger: logger}
}

// Send renders msg.Template into msg.Body and sends it
func (s *Service) Send(ctx context.Context, msg Email) error {
	if msg.From == "" {
		msg.From = s.from
	}
	if msg.Body == "" && msg.Template != "" {
		body, err := s.renderer.Render(msg.Template, msg.Model)
		if err != nil {
			return err
		}
		msg.Body = body
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		s.logger.Error("Failed to send email",
			zap.String("template", msg.Template),
			zap.Strings("to", msg.To),
			zap.Error(err),
		)
		return err
	}
	return nil
}
