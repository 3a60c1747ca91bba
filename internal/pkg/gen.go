package pkg

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"
)

// GenerateGameID - generates an identifier for a game session.
func GenerateGameID() string {
	n, err := rand.Int(rand.Reader, big.NewInt(99999999))
	if err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 10)
	}

	return n.String()
}
