package utils

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// GenerateOTP creates a numeric OTP of the given length.
func GenerateOTP(length int) string {
	if length <= 0 {
		length = 6
	}

	var sb strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			n = big.NewInt(int64(i % 10))
		}
		sb.WriteString(n.String())
	}

	return sb.String()
}
