package cart

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshalState(t *testing.T, s State) []byte {
	t.Helper()
	data, err := json.Marshal(s)
	require.NoError(t, err)
	return data
}

func premiumJacket() LineItem {
	return LineItem{ID: "p1", Name: "Vintage Leather Jacket", Price: 299, Size: "M", Color: "Black"}
}

func TestItemKey(t *testing.T) {
	assert.Equal(t, "p1_M_Black", ItemKey("p1", "M", "Black"))
	assert.Equal(t, "p1_default_default", ItemKey("p1", "", ""))
	assert.Equal(t, "p1_M_default", ItemKey("p1", "M", ""))
}

func TestAddItemNewLine(t *testing.T) {
	s := NewState().AddItem(premiumJacket())

	require.Len(t, s.Items, 1)
	assert.Equal(t, 1, s.Items[0].Quantity)
	assert.Equal(t, 299.0, s.Total)
	assert.Equal(t, 1, s.ItemCount)
}

func TestAddItemMergesSameKey(t *testing.T) {
	s := NewState().AddItem(premiumJacket()).AddItem(premiumJacket())

	require.Len(t, s.Items, 1)
	assert.Equal(t, 2, s.Items[0].Quantity)
	assert.Equal(t, 598.0, s.Total)
	assert.Equal(t, 2, s.ItemCount)
}

func TestAddItemDistinctVariantsAreDistinctLines(t *testing.T) {
	jacket := premiumJacket()
	jacketL := premiumJacket()
	jacketL.Size = "L"

	s := NewState().AddItem(jacket).AddItem(jacketL)

	require.Len(t, s.Items, 2)
	assert.Equal(t, 2, s.ItemCount)
	assert.Equal(t, 598.0, s.Total)
}

func TestAddItemIgnoresIncomingQuantity(t *testing.T) {
	item := premiumJacket()
	item.Quantity = 99

	s := NewState().AddItem(item)
	assert.Equal(t, 1, s.Items[0].Quantity)
}

func TestUpdateQuantity(t *testing.T) {
	s := NewState().AddItem(premiumJacket())
	key := s.Items[0].Key()

	s = s.UpdateQuantity(key, 5)
	assert.Equal(t, 5, s.Items[0].Quantity)
	assert.Equal(t, 5*299.0, s.Total)
	assert.Equal(t, 5, s.ItemCount)
}

func TestUpdateQuantityNonPositiveRemoves(t *testing.T) {
	s := NewState().AddItem(premiumJacket())
	key := s.Items[0].Key()

	assert.Empty(t, s.UpdateQuantity(key, 0).Items)
	assert.Empty(t, s.UpdateQuantity(key, -3).Items)
}

func TestUpdateQuantityUnknownKeyNoOp(t *testing.T) {
	s := NewState().AddItem(premiumJacket())
	updated := s.UpdateQuantity("missing_default_default", 7)

	assert.Equal(t, s, updated)
}

func TestRemoveItem(t *testing.T) {
	jacket := premiumJacket()
	tote := LineItem{ID: "p2", Name: "Canvas Tote", Price: 35}

	s := NewState().AddItem(jacket).AddItem(tote)
	s = s.RemoveItem(jacket.Key())

	require.Len(t, s.Items, 1)
	assert.Equal(t, "p2", s.Items[0].ID)
	assert.Equal(t, 35.0, s.Total)
	assert.Equal(t, 1, s.ItemCount)
}

func TestRemoveItemUnknownKeyNoOp(t *testing.T) {
	s := NewState().AddItem(premiumJacket())
	assert.Equal(t, s, s.RemoveItem("missing_default_default"))
}

func TestClear(t *testing.T) {
	s := NewState().AddItem(premiumJacket()).AddItem(LineItem{ID: "p2", Price: 35})
	s = s.Clear()

	assert.Empty(t, s.Items)
	assert.Zero(t, s.Total)
	assert.Zero(t, s.ItemCount)
}

func TestToggleAndCloseLeaveItemsUntouched(t *testing.T) {
	s := NewState().AddItem(premiumJacket())

	s = s.Toggle()
	assert.True(t, s.IsOpen)
	assert.Equal(t, 299.0, s.Total)

	s = s.Toggle()
	assert.False(t, s.IsOpen)

	s = s.Toggle().Close()
	assert.False(t, s.IsOpen)
	assert.Len(t, s.Items, 1)
}

func TestAggregatesConsistentAfterEveryTransition(t *testing.T) {
	check := func(s State) {
		t.Helper()
		var total float64
		var count int
		for _, li := range s.Items {
			total += li.Price * float64(li.Quantity)
			count += li.Quantity
		}
		assert.Equal(t, total, s.Total)
		assert.Equal(t, count, s.ItemCount)
	}

	s := NewState()
	check(s)
	s = s.AddItem(premiumJacket())
	check(s)
	s = s.AddItem(LineItem{ID: "p2", Price: 49.5})
	check(s)
	s = s.UpdateQuantity("p2_default_default", 3)
	check(s)
	s = s.RemoveItem(premiumJacket().Key())
	check(s)
	s = s.Clear()
	check(s)
}

func TestAddUpdateRemoveSequence(t *testing.T) {
	jacket := LineItem{ID: "1", Name: "Jacket", Price: 299, Image: "x"}

	s := NewState().AddItem(jacket).AddItem(jacket)
	require.Len(t, s.Items, 1)
	assert.Equal(t, 2, s.Items[0].Quantity)
	assert.Equal(t, 598.0, s.Total)
	assert.Equal(t, 2, s.ItemCount)

	key := s.Items[0].Key()
	s = s.UpdateQuantity(key, 1)
	assert.Equal(t, 1, s.Items[0].Quantity)
	assert.Equal(t, 299.0, s.Total)
	assert.Equal(t, 1, s.ItemCount)

	s = s.RemoveItem(key)
	assert.Empty(t, s.Items)
	assert.Zero(t, s.Total)
	assert.Zero(t, s.ItemCount)
}

func TestRestoreRoundTrip(t *testing.T) {
	s := NewState().AddItem(premiumJacket()).AddItem(premiumJacket()).Toggle()

	data := marshalState(t, s)
	restored := Restore(data, nil)

	assert.Equal(t, s, restored)
}

func TestRestoreMalformedSnapshot(t *testing.T) {
	assert.Equal(t, NewState(), Restore([]byte("{not json"), nil))
	assert.Equal(t, NewState(), Restore(nil, nil))
	assert.Equal(t, NewState(), Restore([]byte{}, nil))
}

func TestRestoreDropsNonPositiveQuantitiesAndRecomputes(t *testing.T) {
	snapshot := []byte(`{
		"items": [
			{"id": "p1", "name": "Jacket", "price": 299, "quantity": 2},
			{"id": "p2", "name": "Tote", "price": 35, "quantity": 0},
			{"id": "p3", "name": "Belt", "price": 25, "quantity": -1}
		],
		"isOpen": true,
		"total": 9999,
		"itemCount": 42
	}`)

	s := Restore(snapshot, nil)

	require.Len(t, s.Items, 1)
	assert.Equal(t, "p1", s.Items[0].ID)
	assert.Equal(t, 598.0, s.Total)
	assert.Equal(t, 2, s.ItemCount)
	assert.True(t, s.IsOpen)
}

func TestRestoreEquivalentToReplay(t *testing.T) {
	// A snapshot restore must land on the same state as replaying the
	// transitions that produced it.
	replayed := NewState().
		AddItem(premiumJacket()).
		AddItem(LineItem{ID: "p2", Name: "Canvas Tote", Price: 35}).
		AddItem(premiumJacket()).
		UpdateQuantity("p2_default_default", 4)

	restored := Restore(marshalState(t, replayed), nil)
	assert.Equal(t, replayed, restored)
}
