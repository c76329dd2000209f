package common

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

func GetUUID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// Base58 alphabet, no 0/O/I/l to keep slugs readable over the phone.
const base58Chars = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// RandomBase58 returns a random base58 string of the given length using
// crypto/rand; used for link slugs where guessability matters.
func RandomBase58(length int) string {
	var sb strings.Builder
	sb.Grow(length)
	max := big.NewInt(int64(len(base58Chars)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform entropy source is broken
			panic(err)
		}
		sb.WriteByte(base58Chars[n.Int64()])
	}
	return sb.String()
}
