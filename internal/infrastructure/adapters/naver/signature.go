package naver

import (
	"encoding/base64"
	"fmt"
	"strconv"

	"golang.org/x/crypto/blowfish"
)

// bcrypt's base64 variant: same bit layout as standard base64, different
// alphabet, no padding.
var bcryptEncoding = base64.NewEncoding(
	"./ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789",
).WithPadding(base64.NoPadding)

// magicText is the 192-bit bcrypt constant encrypted 64 times per block to
// produce the hash payload.
var magicText = []byte("OrpheanBeholderScryDoubt")

const (
	encodedSaltLen = 22
	minSaltCost    = 4
	maxSaltCost    = 31
)

// hashWithSalt runs the bcrypt key derivation over password with a caller
// supplied modular-crypt salt string ("$2a$NN$" plus 22 salt characters).
// The commerce API center issues the application secret in exactly this form
// and verifies the signature server side, so the salt cannot be random; the
// bcrypt package only exposes random-salt hashing, hence this routine on its
// underlying blowfish primitive. The result is a standard bcrypt hash string
// that bcrypt.CompareHashAndPassword accepts.
func hashWithSalt(password []byte, salt string) (string, error) {
	minor, cost, encodedSalt, err := parseSalt(salt)
	if err != nil {
		return "", err
	}
	csalt, err := bcryptEncoding.DecodeString(encodedSalt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrConfigSecretNotSalt, err)
	}

	// Versions 2a and up hash the trailing NUL along with the password.
	key := make([]byte, 0, len(password)+1)
	key = append(key, password...)
	key = append(key, 0)

	c, err := blowfish.NewSaltedCipher(key, csalt)
	if err != nil {
		return "", fmt.Errorf("naver: bcrypt setup: %w", err)
	}
	for i := 0; i < 1<<uint(cost); i++ {
		blowfish.ExpandKey(key, c)
		blowfish.ExpandKey(csalt, c)
	}

	ctext := make([]byte, len(magicText))
	copy(ctext, magicText)
	for i := 0; i < len(ctext); i += 8 {
		for j := 0; j < 64; j++ {
			c.Encrypt(ctext[i:i+8], ctext[i:i+8])
		}
	}

	// The final block's last byte is dropped, as every bcrypt does.
	return fmt.Sprintf("$2%c$%02d$%s%s", minor, cost, encodedSalt,
		bcryptEncoding.EncodeToString(ctext[:len(ctext)-1])), nil
}

// parseSalt splits "$2a$NN$<22 chars>" into minor version, cost and the
// encoded salt payload.
func parseSalt(salt string) (byte, int, string, error) {
	if len(salt) < 4 || salt[0] != '$' || salt[1] != '2' {
		return 0, 0, "", ErrConfigSecretNotSalt
	}
	n := 2
	minor := byte(0)
	if salt[n] != '$' {
		minor = salt[n]
		n++
	}
	if minor != 'a' && minor != 'b' && minor != 'y' {
		return 0, 0, "", ErrConfigSecretNotSalt
	}
	if len(salt) < n+4+encodedSaltLen || salt[n] != '$' || salt[n+3] != '$' {
		return 0, 0, "", ErrConfigSecretNotSalt
	}
	cost, err := strconv.Atoi(salt[n+1 : n+3])
	if err != nil || cost < minSaltCost || cost > maxSaltCost {
		return 0, 0, "", ErrConfigSecretNotSalt
	}
	return minor, cost, salt[n+4 : n+4+encodedSaltLen], nil
}
