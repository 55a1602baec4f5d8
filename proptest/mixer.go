package proptest

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Mixer is the one-way function that advances a Seeded state and expands
// ByteString draws. It must be deterministic.
type Mixer func(data []byte) [32]byte

// Blake2b256 is the default mixer.
func Blake2b256(data []byte) [32]byte {
	return blake2b.Sum256(data)
}

// SHA3256 mixes with SHA3-256.
func SHA3256(data []byte) [32]byte {
	return sha3.Sum256(data)
}

// ErrUnknownMixer is returned by MixerByName.
var ErrUnknownMixer = errors.New("unknown mixer")

// MixerByName resolves a configured mixer name ("blake2b" or "sha3").
// The empty name selects the default.
func MixerByName(name string) (Mixer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "blake2b", "blake2b-256", "blake2b256":
		return Blake2b256, nil
	case "sha3", "sha3-256", "sha3256":
		return SHA3256, nil
	default:
		return nil, errors.Wrapf(ErrUnknownMixer, "%q", name)
	}
}
