package visitor

import (
	"encoding/hex"
	"strconv"
	"time"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint is a fixed-length hex digest identifying a visit for dedup
// purposes. It is derived from the source IP, the user agent and a time
// bucket, so repeated visits inside one dedup window collapse to the same
// value. The digest is one-way: no raw IP or user agent is ever stored.
type Fingerprint string

// TimeBucket floors t to a multiple of window, identifying the dedup
// window the time falls into.
func TimeBucket(t time.Time, window time.Duration) int64 {
	return t.Truncate(window).Unix()
}

// Fingerprint derives the dedup key for this visitor at time now.
// Two visits hashing to the same digest count as one; that false-merge
// risk is accepted in exchange for never persisting identifying data.
func (i Info) Fingerprint(now time.Time, window time.Duration) Fingerprint {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(i.SourceIP))
	h.Write([]byte{0})
	h.Write([]byte(i.UserAgent))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatInt(TimeBucket(now, window), 10)))
	return Fingerprint(hex.EncodeToString(h.Sum(nil)))
}

// String returns the hex digest
func (f Fingerprint) String() string {
	return string(f)
}
