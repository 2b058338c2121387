package graph

import (
	"fmt"
	"strings"

	"github.com/minio/highwayhash"
)

var key = []byte("0123456789ABCDEF0123456789ABCDEF")

// Hash returns a stable 64-bit digest of the given data.
func Hash(data []byte) (uint64, error) {
	hash, err := highwayhash.New64(key)
	if err != nil {
		return 0, err
	}
	_, err = hash.Write(data)
	return hash.Sum64(), err
}

// Ref derives a stable node identity from a node kind and display name.
// Ingestion uses it when an artifact carries no explicit IDs, so the
// same graph always re-hydrates with the same identities.
func Ref(kind NodeKind, name string) string {
	digest, err := Hash([]byte(string(kind) + ":" + name))
	if err != nil {
		// New64 only fails on a bad key length, which is fixed here.
		return strings.ToLower(string(kind)) + ":" + name
	}
	return fmt.Sprintf("%s:%016x", strings.ToLower(string(kind)), digest)
}
