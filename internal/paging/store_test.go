package paging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// grayBuffer returns a width*height RGBA buffer where every pixel's RGB
// channels equal the pixel's flat index (mod 256), making pages
// distinguishable by content.
func grayBuffer(width, height int) []byte {
	buf := make([]byte, width*height*BytesPerPixel)
	for i := 0; i < width*height; i++ {
		v := byte(i % 256)
		buf[i*4+0] = v
		buf[i*4+1] = v
		buf[i*4+2] = v
		buf[i*4+3] = 255
	}
	return buf
}

func TestRebuildPartition(t *testing.T) {
	tests := []struct {
		name      string
		width     int
		height    int
		unit      int
		wantPages int
	}{
		{"exact split", 4, 4, 4, 4},
		{"short last page", 3, 3, 4, 3},
		{"single pixel unit", 2, 2, 1, 4},
		{"unit larger than image", 2, 2, 100, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(1000)
			buf := grayBuffer(tt.width, tt.height)
			require.NoError(t, s.Rebuild(buf, tt.width, tt.height, tt.unit))

			infos := s.Snapshot()
			require.Len(t, infos, tt.wantPages)

			// Ranges must be ordered, disjoint, and exactly cover the image.
			total := tt.width * tt.height
			next := 0
			for _, info := range infos {
				start, end, err := s.PageSpan(info.ID)
				require.NoError(t, err)
				assert.Equal(t, next, start, "page %d must start where the previous ended", info.ID)
				assert.Greater(t, end, start)
				next = end
			}
			assert.Equal(t, total, next, "pages must cover exactly width*height pixels")
		})
	}
}

func TestRebuildRejectsBadInput(t *testing.T) {
	s := NewStore(4)
	require.NoError(t, s.Rebuild(grayBuffer(2, 2), 2, 2, 2))
	before := s.Stats()

	err := s.Rebuild(make([]byte, 5), 2, 2, 2)
	require.ErrorIs(t, err, ErrInvalidBuffer)

	err = s.Rebuild(grayBuffer(2, 2), 2, 2, 0)
	require.ErrorIs(t, err, ErrInvalidUnit)

	// A rejected rebuild must not mutate any state.
	assert.Equal(t, before, s.Stats())
	assert.Len(t, s.Snapshot(), 2)
}

func TestRebuildEvictionOrder(t *testing.T) {
	var evicted []int
	s := NewStore(2, WithListener(func(ev Event) {
		if ev.Kind == EventSwappedOut {
			evicted = append(evicted, ev.PageID)
		}
	}))

	// 4 pages, budget 2: admission in ascending ID order evicts the
	// lowest-numbered pages first, leaving the highest-numbered resident.
	require.NoError(t, s.Rebuild(grayBuffer(2, 2), 2, 2, 1))

	assert.Equal(t, []int{0, 1}, evicted)
	infos := s.Snapshot()
	assert.Equal(t, StatusEvicted, infos[0].Status)
	assert.Equal(t, StatusEvicted, infos[1].Status)
	assert.Equal(t, StatusResident, infos[2].Status)
	assert.Equal(t, StatusResident, infos[3].Status)

	st := s.Stats()
	assert.Equal(t, 2, st.ResidentCount)
	assert.Equal(t, 2, st.EvictedCount)
	assert.Equal(t, 2, st.UsageUnits)
}

func TestLRUDeterminism(t *testing.T) {
	var evicted []int
	s := NewStore(3, WithListener(func(ev Event) {
		if ev.Kind == EventSwappedOut {
			evicted = append(evicted, ev.PageID)
		}
	}))
	require.NoError(t, s.Rebuild(grayBuffer(2, 2), 2, 2, 1))

	// Cycle pages 0..2 into the working set, refresh 0, then admit 3: the
	// refresh makes page 1 the true LRU, so 1 is evicted, not 0.
	for _, id := range []int{0, 1, 2} {
		_, err := s.Acquire(id)
		require.NoError(t, err)
	}
	_, err := s.Acquire(0)
	require.NoError(t, err)
	evicted = evicted[:0]

	_, err = s.Acquire(3)
	require.NoError(t, err)

	assert.Equal(t, []int{1}, evicted)
	infos := s.Snapshot()
	assert.Equal(t, StatusResident, infos[0].Status, "refreshed page 0 must survive")
	assert.Equal(t, StatusEvicted, infos[1].Status)
}

func TestHitFaultAccounting(t *testing.T) {
	s := NewStore(1)
	require.NoError(t, s.Rebuild(grayBuffer(2, 2), 2, 2, 1))

	// Only page 3 is resident after the rebuild under budget 1.
	_, err := s.Acquire(3)
	require.NoError(t, err)
	st := s.Stats()
	assert.Equal(t, uint64(1), st.Hits)
	assert.Equal(t, uint64(0), st.Faults, "a resident acquire never counts a fault")

	_, err = s.Acquire(0)
	require.NoError(t, err)
	st = s.Stats()
	assert.Equal(t, uint64(1), st.Hits, "an evicted acquire never counts a hit")
	assert.Equal(t, uint64(1), st.Faults)
}

func TestFaultReloadsOriginalBytes(t *testing.T) {
	s := NewStore(1)
	buf := grayBuffer(4, 1)
	require.NoError(t, s.Rebuild(buf, 4, 1, 1))

	// Page 0 was evicted during the rebuild; a fault must reconstruct its
	// original bytes, not a zero-filled buffer.
	got, err := s.Acquire(0)
	require.NoError(t, err)
	assert.Equal(t, buf[0:4], got)

	// Fault page 2 afterwards and verify its distinct content too.
	got, err = s.Acquire(2)
	require.NoError(t, err)
	assert.Equal(t, buf[8:12], got)
}

func TestAcquireUnknownPage(t *testing.T) {
	s := NewStore(2)
	require.NoError(t, s.Rebuild(grayBuffer(2, 2), 2, 2, 2))

	_, err := s.Acquire(7)
	require.ErrorIs(t, err, ErrUnknownPage)
	_, err = s.Acquire(-1)
	require.ErrorIs(t, err, ErrUnknownPage)
}

func TestStatsResetOnRebuild(t *testing.T) {
	s := NewStore(1)
	require.NoError(t, s.Rebuild(grayBuffer(2, 2), 2, 2, 1))
	for id := 0; id < 4; id++ {
		_, err := s.Acquire(id)
		require.NoError(t, err)
	}
	require.NotZero(t, s.Stats().Faults)

	require.NoError(t, s.Rebuild(grayBuffer(2, 2), 2, 2, 1))
	st := s.Stats()
	assert.Zero(t, st.Hits)
	assert.Zero(t, st.Faults)
}

func TestSwapEvents(t *testing.T) {
	var swappedIn, swappedOut []int
	statsEvents := 0
	s := NewStore(1, WithListener(func(ev Event) {
		switch ev.Kind {
		case EventSwappedIn:
			swappedIn = append(swappedIn, ev.PageID)
		case EventSwappedOut:
			swappedOut = append(swappedOut, ev.PageID)
		case EventStatsUpdated:
			statsEvents++
		}
	}))
	require.NoError(t, s.Rebuild(grayBuffer(2, 1), 2, 1, 1))
	require.Equal(t, []int{0}, swappedOut)

	_, err := s.Acquire(0)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, swappedIn)
	assert.Equal(t, []int{0, 1}, swappedOut, "admitting page 0 under budget 1 evicts page 1")
	assert.NotZero(t, statsEvents)
}

func TestSnapshotIsDisplayOnly(t *testing.T) {
	s := NewStore(2)
	require.NoError(t, s.Rebuild(grayBuffer(2, 2), 2, 2, 1))

	infos := s.Snapshot()
	require.Len(t, infos, 4)
	for i, info := range infos {
		assert.Equal(t, i, info.ID, "snapshot must be ordered by page ID")
	}

	// Mutating the returned slice must not affect the store.
	infos[0].Status = StatusResident
	fresh := s.Snapshot()
	assert.Equal(t, StatusEvicted, fresh[0].Status)
}

func TestDimensionsTrackRebuild(t *testing.T) {
	s := NewStore(2)
	w, h := s.Dimensions()
	assert.Zero(t, w)
	assert.Zero(t, h)

	require.NoError(t, s.Rebuild(grayBuffer(3, 2), 3, 2, 2))
	w, h = s.Dimensions()
	assert.Equal(t, 3, w)
	assert.Equal(t, 2, h)

	require.NoError(t, s.Rebuild(grayBuffer(2, 4), 2, 4, 2))
	w, h = s.Dimensions()
	assert.Equal(t, 2, w)
	assert.Equal(t, 4, h)
}
