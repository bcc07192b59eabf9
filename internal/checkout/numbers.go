package checkout

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// shortID yields a millisecond timestamp in hex plus a random tail. The tail
// keeps numbers unique when several orders are minted within one checkout.
func shortID(now time.Time) string {
	tail := make([]byte, 2)
	_, _ = rand.Read(tail)
	return fmt.Sprintf("%x-%s", now.UnixMilli(), hex.EncodeToString(tail))
}

func groupNumber(now time.Time) string {
	return "GRP-" + shortID(now)
}

func orderNumber(now time.Time) string {
	return "ORD-" + shortID(now)
}
