// Package captcha verifies Google reCAPTCHA v2 responses.
package captcha

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/salesmanager/backend/internal/domain/shared"
	"github.com/salesmanager/backend/internal/infrastructure/config"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// DefaultVerifyURL is Google's siteverify endpoint
const DefaultVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// maxResponseBytes bounds the siteverify body that is read
const maxResponseBytes = 64 << 10

// Verifier checks captcha response tokens
type Verifier interface {
	Verify(ctx context.Context, response, remoteIP string) (bool, error)
}

// Observer is notified of every verification outcome
type Observer func(ctx context.Context, success bool)

// RecaptchaVerifier posts tokens to the siteverify endpoint
type RecaptchaVerifier struct {
	secret    string
	verifyURL string
	client    *http.Client
	logger    *zap.Logger
	replay    redis.UniversalClient
	replayTTL time.Duration
	observe   Observer
}

// Option configures a RecaptchaVerifier
type Option func(*RecaptchaVerifier)

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(v *RecaptchaVerifier) { v.client = c }
}

// WithReplayGuard rejects tokens already accepted within ttl
func WithReplayGuard(rdb redis.UniversalClient, ttl time.Duration) Option {
	return func(v *RecaptchaVerifier) {
		v.replay = rdb
		v.replayTTL = ttl
	}
}

// WithObserver registers an outcome callback, typically a metric
func WithObserver(o Observer) Option {
	return func(v *RecaptchaVerifier) { v.observe = o }
}

// NewRecaptchaVerifier creates a verifier from configuration
func NewRecaptchaVerifier(cfg config.CaptchaConfig, logger *zap.Logger, opts ...Option) *RecaptchaVerifier {
	verifyURL := cfg.VerifyURL
	if verifyURL == "" {
		verifyURL = DefaultVerifyURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	v := &RecaptchaVerifier{
		secret:    cfg.Secret,
		verifyURL: verifyURL,
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
		replayTTL: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify returns whether the token was accepted. An empty token is refused
// without calling the endpoint.
func (v *RecaptchaVerifier) Verify(ctx context.Context, response, remoteIP string) (bool, error) {
	response = strings.TrimSpace(response)
	if response == "" {
		return false, nil
	}

	ok, err := v.siteverify(ctx, response, remoteIP)
	if err != nil {
		return false, err
	}
	if ok && v.replay != nil {
		sum := sha256.Sum256([]byte(response))
		fresh, err := v.replay.SetNX(ctx, "captcha:used:"+hex.EncodeToString(sum[:]), 1, v.replayTTL).Result()
		if err != nil {
			return false, shared.WrapDomainError("INTEGRATION_ERROR", "captcha replay check failed", err)
		}
		if !fresh {
			v.logger.Warn("Captcha token replayed", zap.String("remote_ip", remoteIP))
			ok = false
		}
	}
	if v.observe != nil {
		v.observe(ctx, ok)
	}
	return ok, nil
}

func (v *RecaptchaVerifier) siteverify(ctx context.Context, response, remoteIP string) (bool, error) {
	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", response)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("build captcha request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return false, shared.WrapDomainError("INTEGRATION_ERROR", "captcha verification request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return false, shared.WrapDomainError("INTEGRATION_ERROR", "captcha verification response unreadable", err)
	}
	if resp.StatusCode != http.StatusOK {
		return false, shared.WrapDomainError("INTEGRATION_ERROR",
			fmt.Sprintf("captcha verification returned status %d", resp.StatusCode), shared.ErrIntegration)
	}
	if !gjson.ValidBytes(body) {
		return false, shared.WrapDomainError("INTEGRATION_ERROR", "captcha verification returned malformed JSON", shared.ErrIntegration)
	}

	result := gjson.ParseBytes(body)
	success := result.Get("success")
	if !success.Exists() {
		return false, shared.WrapDomainError("INTEGRATION_ERROR", "captcha verification response has no success field", shared.ErrIntegration)
	}
	if !success.Bool() {
		var codes []string
		for _, c := range result.Get("error-codes").Array() {
			codes = append(codes, c.String())
		}
		v.logger.Info("Captcha rejected", zap.Strings("error_codes", codes))
	}
	return success.Bool(), nil
}

// Disabled accepts every token. It is used when captcha is turned off.
type Disabled struct{}

// Verify always succeeds
func (Disabled) Verify(context.Context, string, string) (bool, error) {
	return true, nil
}
