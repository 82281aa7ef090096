package pipeline

import (
	"encoding/binary"
	"hash"
	"hash/fnv"
)

// Hash returns an FNV-1a hash of r. Equal requirements hash equally; the
// hash is used for labels and diagnostics, not for lookup.
func (r *Requirements) Hash() uint64 {
	h := fnv.New64a()

	hashWriteUint32(h, uint32(r.Primitive.Topology))
	hashWriteUint32(h, uint32(r.Primitive.FrontFace))
	hashWriteUint32(h, uint32(r.Primitive.CullMode))
	hashWriteUint32(h, uint32(r.Primitive.StripIndexFormat))
	if r.Primitive.UnclippedDepth {
		hashWriteUint32(h, 1)
	} else {
		hashWriteUint32(h, 0)
	}

	for i := range r.Targets {
		t := &r.Targets[i]
		hashWriteUint32(h, uint32(t.Format))
		hashWriteUint32(h, uint32(t.Blend))
		hashWriteUint32(h, uint32(t.WriteMask))
	}

	return h.Sum64()
}

// hashWriteUint32 writes a uint32 to the hash in little-endian order.
func hashWriteUint32(h hash.Hash64, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, _ = h.Write(buf[:])
}
