package services

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"agency-admin-server/config"
)

// RecaptchaService verifies reCAPTCHA tokens against Google's siteverify
// endpoint. Verification gates public form submission synchronously; every
// other outbound call in this codebase is fire-and-forget.
type RecaptchaService struct {
	client    *http.Client
	secret    string
	verifyURL string
}

type recaptchaResponse struct {
	Success    bool     `json:"success"`
	Score      float64  `json:"score"`
	ErrorCodes []string `json:"error-codes"`
}

// NewRecaptchaService creates the verification service. An empty secret
// disables verification (useful in development).
func NewRecaptchaService() *RecaptchaService {
	return &RecaptchaService{
		client:    &http.Client{Timeout: 10 * time.Second},
		secret:    config.AppConfig.Recaptcha.Secret,
		verifyURL: config.AppConfig.Recaptcha.VerifyURL,
	}
}

// Enabled reports whether a secret is configured
func (s *RecaptchaService) Enabled() bool {
	return s.secret != ""
}

// Verify checks a client token. Returns true when verification is disabled.
func (s *RecaptchaService) Verify(token, remoteIP string) (bool, error) {
	if !s.Enabled() {
		return true, nil
	}
	if token == "" {
		return false, nil
	}

	form := url.Values{}
	form.Set("secret", s.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	resp, err := s.client.Post(s.verifyURL, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		log.Printf("❌ reCAPTCHA request failed: %v", err)
		return false, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, err
	}

	if resp.StatusCode >= 400 {
		return false, fmt.Errorf("recaptcha verify failed: %s", resp.Status)
	}

	var result recaptchaResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return false, err
	}

	if !result.Success {
		log.Printf("🚫 reCAPTCHA rejected token: %v", result.ErrorCodes)
	}
	return result.Success, nil
}
