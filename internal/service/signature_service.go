package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// HMACSignatureService implements ports.SignatureService using HMAC-SHA256.
// Reused for both outbound webhook payload signing and inbound
// Authorize.net webhook verification.
type HMACSignatureService struct{}

// NewHMACSignatureService creates a new HMAC-SHA256 signature service.
func NewHMACSignatureService() *HMACSignatureService {
	return &HMACSignatureService{}
}

// Sign computes "sha256=" + hex(hmac_sha256(secretKey, payload)), the
// X-Webhook-Signature header format clients verify against.
func (s *HMACSignatureService) Sign(secretKey string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// Verify checks if signature matches Sign(secretKey, payload) using
// constant-time comparison to prevent timing attacks.
func (s *HMACSignatureService) Verify(secretKey string, payload []byte, signature string) bool {
	expected := s.Sign(secretKey, payload)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// CanonicalizeJSON produces the canonical payload signed/verified: UTF-8
// JSON with object keys in sorted order. encoding/json already
// serializes map[string]any keys in sorted order, so round-tripping any
// value through a generic map achieves the same canonical form regardless
// of the input's original field order.
func (s *HMACSignatureService) CanonicalizeJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling payload: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("normalizing payload: %w", err)
	}
	canonical, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("re-marshaling payload: %w", err)
	}
	return canonical, nil
}
