package prerender

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// identityLength is the number of hex characters kept from the content
// digest. Ten characters (40 bits) is plenty for a cache key namespace of
// diagrams within one site.
const identityLength = 10

// DeriveIdentity returns the stable identity for a diagram body.
//
// A non-empty explicitID (after trimming) wins verbatim; collisions between
// distinct diagrams sharing an override are the author's responsibility.
// Otherwise the identity is a truncated hex digest of the trimmed body, so
// the same body yields the same identity across runs and across locales.
func DeriveIdentity(body, explicitID string) string {
	if id := strings.TrimSpace(explicitID); id != "" {
		return id
	}
	sum := sha256.Sum256([]byte(strings.TrimSpace(body)))
	return hex.EncodeToString(sum[:])[:identityLength]
}
