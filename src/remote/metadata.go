package remote

import (
	"fmt"
	"time"
)

// A Digest identifies the contents of a remote blob.
type Digest struct {
	Hash      string
	SizeBytes int64
}

func (d Digest) String() string {
	return fmt.Sprintf("%s/%d", d.Hash, d.SizeBytes)
}

// FileMetadata is what a remote cache tells us about a file without handing over
// its bytes: the content digest plus how long the remote promises to keep the
// blob around. A record past its expiry must be treated as absent.
type FileMetadata struct {
	Digest Digest
	// ExpireAt is the instant at which the remote's promise runs out. The zero
	// value means the remote gave no TTL and the record does not expire.
	ExpireAt time.Time
}

// Alive returns true if this record can still be relied on at the given instant.
func (md *FileMetadata) Alive(now time.Time) bool {
	return md.ExpireAt.IsZero() || md.ExpireAt.After(now)
}
