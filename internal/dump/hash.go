package dump

import "github.com/minio/highwayhash"

var hashKey = []byte("NOCC-dump-idempotence-hash-key-0")

// Hash reduces dumped output to a fixed-size digest so the "dumping the
// same tree twice yields byte-identical output" property (§8) can be
// checked by comparing two uint64s instead of diffing large buffers.
func Hash(data []byte) (uint64, error) {
	h, err := highwayhash.New64(hashKey)
	if err != nil {
		return 0, err
	}
	if _, err := h.Write(data); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}
