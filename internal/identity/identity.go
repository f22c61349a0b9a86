// Package identity provides the construction-time generators for the two
// derived identifiers in the system: group codes and avatar URLs.
//
// Generation is deliberately an explicit factory call made by the service
// layer when an entity is constructed, never a side effect of persistence.
package identity

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// GroupCodeLength is the fixed length of every group code.
	GroupCodeLength = 6

	// GroupCodeCharset is the alphabet group codes are drawn from.
	GroupCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// avatarSeedRange bounds the dicebear seed: [0, avatarSeedRange).
	avatarSeedRange = 10000

	avatarURLFormat = "https://api.dicebear.com/5.x/bottts/svg?seed=%d"
)

// NewGroupCode returns a fresh 6-character code drawn uniformly from
// [A-Z0-9]. Codes are not checked for collisions here; the unique index on
// the group table rejects duplicates and the caller retries.
func NewGroupCode() string {
	buf := make([]byte, GroupCodeLength)
	max := big.NewInt(int64(len(GroupCodeCharset)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails if the OS entropy source is broken
			panic(fmt.Sprintf("identity: reading random source: %v", err))
		}
		buf[i] = GroupCodeCharset[n.Int64()]
	}
	return string(buf)
}

// NewAvatarURL returns a dicebear bottts avatar URL with a pseudo-random
// seed in [0, 10000). Called once at user creation; the URL is a plain
// string field afterwards.
func NewAvatarURL() string {
	n, err := rand.Int(rand.Reader, big.NewInt(avatarSeedRange))
	if err != nil {
		panic(fmt.Sprintf("identity: reading random source: %v", err))
	}
	return fmt.Sprintf(avatarURLFormat, n.Int64())
}
