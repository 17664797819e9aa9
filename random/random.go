package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/big"
	mrand "math/rand"
	"sync"
	"time"
)

const charset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

var (
	mu  sync.Mutex
	src *mrand.Rand
)

func init() {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		src = mrand.New(mrand.NewSource(time.Now().UnixNano()))
		return
	}
	src = mrand.New(mrand.NewSource(int64(binary.LittleEndian.Uint64(b[:]))))
}

// String returns a random alphanumeric string. It is not suitable for secrets.
func String(length int) string {
	mu.Lock()
	defer mu.Unlock()

	b := make([]byte, length)
	for i := range b {
		b[i] = charset[src.Intn(len(charset))]
	}
	return string(b)
}

// StringSecure returns a random alphanumeric string read from crypto/rand.
func StringSecure(length int) (string, error) {
	b := make([]byte, length)
	l := big.NewInt(int64(len(charset)))
	for i := range b {
		num, err := crand.Int(crand.Reader, l)
		if err != nil {
			return "", err
		}
		b[i] = charset[num.Int64()]
	}
	return string(b), nil
}
