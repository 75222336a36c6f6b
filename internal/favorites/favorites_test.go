package favorites

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddPrependsNewest(t *testing.T) {
	l := List{}
	l = l.Add(Item{ID: "p1", Name: "Jacket"})
	l = l.Add(Item{ID: "p2", Name: "Tote"})

	require.Len(t, l, 2)
	assert.Equal(t, "p2", l[0].ID)
	assert.Equal(t, "p1", l[1].ID)
}

func TestAddDuplicateIsNoOp(t *testing.T) {
	l := List{}.Add(Item{ID: "p1", Name: "Jacket", Price: 299})
	l = l.Add(Item{ID: "p1", Name: "Jacket renamed", Price: 1})

	require.Len(t, l, 1)
	// The original entry wins.
	assert.Equal(t, "Jacket", l[0].Name)
	assert.Equal(t, 299.0, l[0].Price)
}

func TestRemove(t *testing.T) {
	l := List{}.Add(Item{ID: "p1"}).Add(Item{ID: "p2"})

	l = l.Remove("p1")
	require.Len(t, l, 1)
	assert.Equal(t, "p2", l[0].ID)

	// Absent ID is a no-op.
	assert.Len(t, l.Remove("missing"), 1)
}

func TestContains(t *testing.T) {
	l := List{}.Add(Item{ID: "p1"})

	assert.True(t, l.Contains("p1"))
	assert.False(t, l.Contains("p2"))
}

func TestRestoreMalformed(t *testing.T) {
	assert.Empty(t, Restore([]byte("not json"), nil))
	assert.Empty(t, Restore(nil, nil))
}

func TestAddedAtRoundTrip(t *testing.T) {
	added := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	l := List{}.Add(Item{ID: "p1", Name: "Jacket", AddedAt: added})

	data, err := json.Marshal(l)
	require.NoError(t, err)
	assert.Contains(t, string(data), "2024-03-15T10:30:00Z")

	restored := Restore(data, nil)
	require.Len(t, restored, 1)
	assert.True(t, restored[0].AddedAt.Equal(added))
}
