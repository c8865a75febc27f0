package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrUnknownKey = errors.New("security: unknown api key")

// APIKeyVerifier checks presented admin API keys against the configured
// bcrypt hashes. Keys are never stored in clear.
type APIKeyVerifier struct {
	Hashes []string
}

func (v APIKeyVerifier) Verify(key string) error {
	if key == "" {
		return ErrUnknownKey
	}
	for _, hash := range v.Hashes {
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) == nil {
			return nil
		}
	}
	return ErrUnknownKey
}

// HashKey produces a bcrypt hash for a new API key; used by provisioning
// tooling and tests.
func HashKey(key string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
