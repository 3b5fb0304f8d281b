package storeauth

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"

	goerrors "github.com/goliatone/go-errors"
)

// GenerateVerificationCode returns the short hex challenge mailed out
// during signup, e.g. "a3f09c".
func GenerateVerificationCode() (string, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate verification code")
	}

	return hex.EncodeToString(buf), nil
}

// GenerateRecoveryCode returns the five digit challenge mailed out during
// password recovery. The first digit is never zero.
func GenerateRecoveryCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(90000))
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate recovery code")
	}

	code := n.Int64() + 10000

	return big.NewInt(code).String(), nil
}
