package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

// HashPassword creates a bcrypt hash. All newly registered users get this
// scheme.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash verifies a password against a stored hash. Rows migrated
// from the previous Python deployment carry werkzeug-style
// "pbkdf2:sha256:<iterations>$<salt>$<hexdigest>" hashes; everything else is
// bcrypt.
func CheckPasswordHash(password, hash string) bool {
	if strings.HasPrefix(hash, "pbkdf2:") {
		return checkWerkzeugHash(password, hash)
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// ValidatePassword enforces minimal password strength.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters long")
	}
	return nil
}

func checkWerkzeugHash(password, hash string) bool {
	parts := strings.SplitN(hash, "$", 3)
	if len(parts) != 3 {
		return false
	}

	method := strings.Split(parts[0], ":")
	if len(method) < 2 || method[0] != "pbkdf2" || method[1] != "sha256" {
		return false
	}

	// werkzeug's historical default when no iteration count is encoded.
	iterations := 260000
	if len(method) == 3 {
		n, err := strconv.Atoi(method[2])
		if err != nil {
			return false
		}
		iterations = n
	}

	salt, digest := parts[1], parts[2]
	derived := pbkdf2.Key([]byte(password), []byte(salt), iterations, sha256.Size, sha256.New)
	expected := hex.EncodeToString(derived)

	return subtle.ConstantTimeCompare([]byte(expected), []byte(digest)) == 1
}
