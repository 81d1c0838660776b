package paging

import (
	"fmt"

	"github.com/klauspost/compress/s2"
)

// coldStore retains an S2-compressed copy of every page's original bytes for
// the lifetime of one page set. Page bytes in the working set are a derived
// cache over this copy: eviction frees only the hot bytes, and a fault
// decompresses the cold block so reloads are bit-exact rather than
// zero-filled.
//
// The cold store is in-memory only; there is no disk-backed persistence.
type coldStore struct {
	blocks [][]byte
}

func newColdStore(pageCount int) *coldStore {
	return &coldStore{blocks: make([][]byte, pageCount)}
}

// put compresses and retains the original bytes for page id.
func (c *coldStore) put(id int, raw []byte) {
	c.blocks[id] = s2.Encode(nil, raw)
}

// load decompresses the retained copy for page id. The returned slice is
// freshly allocated and owned by the caller.
func (c *coldStore) load(id int) ([]byte, error) {
	raw, err := s2.Decode(nil, c.blocks[id])
	if err != nil {
		return nil, fmt.Errorf("cold storage for page %d is corrupt: %w", id, err)
	}
	return raw, nil
}
