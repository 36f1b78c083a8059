package id

import (
	"crypto/rand"
	"math/big"
)

const (
	applicationPrefix   = "ALT-"
	applicationAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	applicationLength   = 8
)

// NewApplicationID returns a loan application reference like "ALT-7Q2K9ZPA".
func NewApplicationID() string {
	out := make([]byte, 0, len(applicationPrefix)+applicationLength)
	out = append(out, applicationPrefix...)
	max := big.NewInt(int64(len(applicationAlphabet)))
	for i := 0; i < applicationLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand does not fail on supported platforms
			n = big.NewInt(0)
		}
		out = append(out, applicationAlphabet[n.Int64()])
	}
	return string(out)
}
