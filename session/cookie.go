package session

import (
	"crypto/sha256"
	"encoding/base64"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
)

// CookieKey derives the 32 byte, base64 encoded key encryptcookie expects
// from a free-form secret.
func CookieKey(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// EncryptCookies seals the session cookie with a key derived from secret.
func EncryptCookies(secret string) fiber.Handler {
	return encryptcookie.New(encryptcookie.Config{
		Key: CookieKey(secret),
	})
}
