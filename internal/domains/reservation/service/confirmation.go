package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	confirmationCodeLength = 6
	// No 0/O/1/I: codes are read back over the phone.
	confirmationCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// NewConfirmationCode generates a short human-readable code the customer
// quotes when asking about their reservation. Uniqueness among confirmed
// reservations is enforced by the store, not here.
func NewConfirmationCode() (string, error) {
	code := make([]byte, confirmationCodeLength)
	alphabetSize := big.NewInt(int64(len(confirmationCodeAlphabet)))

	for i := range code {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("failed to generate confirmation code: %w", err)
		}

		code[i] = confirmationCodeAlphabet[n.Int64()]
	}

	return string(code), nil
}
