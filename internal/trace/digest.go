package trace

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"diceroll/internal/mathutil"
)

// Digest hashes a stream of poses so two runs can be compared frame for frame
// without keeping both traces.
type Digest struct {
	h   *xxhash.Digest
	buf [7 * 8]byte
}

// NewDigest returns an empty digest.
func NewDigest() *Digest {
	return &Digest{h: xxhash.New()}
}

// Add mixes one frame's pose into the digest.
func (d *Digest) Add(p mathutil.Vec3, q mathutil.Quat) {
	for i, v := range p {
		binary.LittleEndian.PutUint64(d.buf[i*8:], math.Float64bits(v))
	}
	for i, v := range q {
		binary.LittleEndian.PutUint64(d.buf[(3+i)*8:], math.Float64bits(v))
	}
	d.h.Write(d.buf[:])
}

// Sum64 returns the digest of every pose added so far.
func (d *Digest) Sum64() uint64 {
	return d.h.Sum64()
}
