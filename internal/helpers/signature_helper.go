package helpers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// CertificateSigner issues the tokens that make public certificate links
// unguessable. A token binds a participant id to its email.
type CertificateSigner struct {
	SecretKey string
}

func NewCertificateSigner(secretKey string) *CertificateSigner {
	return &CertificateSigner{SecretKey: secretKey}
}

func (s *CertificateSigner) GenerateSignature(participantID uuid.UUID, email string) string {
	component := "Participant-Id:" + participantID.String() + "\n" +
		"Email:" + strings.ToLower(strings.TrimSpace(email))

	mac := hmac.New(sha256.New, []byte(s.SecretKey))
	mac.Write([]byte(component))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (s *CertificateSigner) Verify(participantID uuid.UUID, email, signature string) bool {
	expected := s.GenerateSignature(participantID, email)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Link returns the public path serving the participant's certificate in the
// given format, signed for its email.
func (s *CertificateSigner) Link(participantID uuid.UUID, email, format string) string {
	token := s.GenerateSignature(participantID, email)
	return fmt.Sprintf("/v1/certificates/%s/%s?token=%s", participantID, format, url.QueryEscape(token))
}
