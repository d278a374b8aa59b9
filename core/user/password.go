package user

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// Password hashing schemes
const (
	HasherSHA256 = "sha256"
	HasherBcrypt = "bcrypt"
)

var ErrUnknownHasher = errors.New("unknown password hasher")

// HashPassword digests pwd with the named scheme. An empty scheme means sha256.
func HashPassword(pwd, scheme string) (string, error) {
	switch scheme {
	case "", HasherSHA256:
		return sha256Hex(pwd), nil
	case HasherBcrypt:
		hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
		if err != nil {
			return "", errors.Wrap(err, "generating bcrypt hash")
		}
		return string(hash), nil
	default:
		return "", errors.Wrap(ErrUnknownHasher, scheme)
	}
}

// CheckPassword reports whether pwd matches hash. The scheme is read off the stored hash.
func CheckPassword(hash, pwd string) bool {
	if hash == "" {
		return false
	}
	if isBcrypt(hash) {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pwd)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(strings.ToLower(hash)), []byte(sha256Hex(pwd))) == 1
}

func sha256Hex(pwd string) string {
	sum := sha256.Sum256([]byte(pwd))
	return hex.EncodeToString(sum[:])
}

func isBcrypt(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") || strings.HasPrefix(hash, "$2b$") || strings.HasPrefix(hash, "$2y$")
}
