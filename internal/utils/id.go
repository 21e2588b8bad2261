package utils

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// GameCodeLength is the number of letters in a game code.
const GameCodeLength = 4

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewID returns a best-effort unique identifier.
func NewID() string {
	const size = 12

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err == nil {
		return hex.EncodeToString(buf)
	}

	// Fallback to timestamp if crypto/rand is unavailable.
	return strconv.FormatInt(time.Now().UnixNano(), 10)
}

// NewGameCode returns a random code of uppercase letters.
func NewGameCode() string {
	buf := make([]byte, GameCodeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			n = big.NewInt(time.Now().UnixNano() % int64(len(codeAlphabet)))
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf)
}

// GuestName returns a throwaway username for players without an account.
func GuestName() string {
	return "guest_" + uuid.NewString()[:6]
}
