package cell

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

var builderPool = sync.Pool{
	New: func() any { return &strings.Builder{} },
}

// encodeTAT renders a theoretical arrival time as the decimal text of its
// nanosecond offset from the UNIX epoch, the wire format the storage
// interface persists under a key. It borrows a pooled strings.Builder
// since this runs on every admitting RateLimit attempt, including the CAS
// retry path.
func encodeTAT(tat time.Time) string {
	sb := builderPool.Get().(*strings.Builder)
	sb.Reset()
	defer builderPool.Put(sb)

	sb.WriteString(strconv.FormatUint(uint64(tat.UnixNano()), 10))
	return sb.String()
}

// decodeTAT parses the wire format produced by encodeTAT. A value that is
// not a well-formed unsigned decimal integer is CorruptValue — the stored
// state has been tampered with or written by an incompatible version.
func decodeTAT(value string) (time.Time, error) {
	ns, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return time.Time{}, NewCorruptValueError(value, err)
	}
	return time.Unix(0, int64(ns)), nil
}
