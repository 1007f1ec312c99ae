package security

import (
	"fmt"

	"bitwise74/auth-api/pkg/util"
)

// 32 bytes, 64 hex characters
const verificationTokenSize = 32

// MakeVerificationToken returns a new random token used to confirm that the
// registering user owns their email address.
func MakeVerificationToken() (string, error) {
	token, err := util.GenerateToken(verificationTokenSize)
	if err != nil {
		return "", fmt.Errorf("failed to generate verification token, %w", err)
	}

	return token, nil
}
