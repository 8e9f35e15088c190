package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"

	"gatherly/internal/domain"
)

// DefaultInviteTokenLength is the raw token length used when callers have no
// reason to pick another one.
const DefaultInviteTokenLength = 48

var inviteTokenAlphabet = []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789")

type inviteTokenService struct{}

// NewInviteTokenService returns an InviteTokenService backed by crypto/rand
// and SHA256. Raw tokens use a URL-safe alphanumeric alphabet so they can be
// embedded in links without encoding.
func NewInviteTokenService() domain.InviteTokenService {
	return &inviteTokenService{}
}

func (s *inviteTokenService) GenerateRawToken(length int) (string, error) {
	if length < 1 {
		length = DefaultInviteTokenLength
	}
	b := make([]rune, length)
	max := big.NewInt(int64(len(inviteTokenAlphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate token: %w", err)
		}
		b[i] = inviteTokenAlphabet[n.Int64()]
	}
	return string(b), nil
}

// HashToken returns the hex-encoded SHA256 digest of the raw token. Only the
// digest is ever persisted or compared.
func (s *inviteTokenService) HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
