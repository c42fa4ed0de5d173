package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_RoomCountsMatchDataCenters(t *testing.T) {
	for _, dc := range DataCenters() {
		assert.Len(t, RoomsByDC(dc.DCID), dc.RoomCount, dc.DCID)
	}
	assert.Len(t, Rooms(), 9)
}

func TestCatalog_Lookup(t *testing.T) {
	r, ok := Room("ROOM-006")
	require.True(t, ok)
	assert.Equal(t, "DC-002", r.DCID)
	assert.Equal(t, 170, r.RackCount)

	_, ok = Room("ROOM-999")
	assert.False(t, ok)

	dc, ok := DataCenter("DC-001")
	require.True(t, ok)
	assert.Equal(t, 5, dc.RoomCount)

	assert.Empty(t, RoomsByDC("DC-404"))
}
