package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/warplang/warp/lang/value"
)

func TestMapSetGetRoundTrip(t *testing.T) {
	m := value.NewMap()
	k := value.Number(1)
	v := value.Bool(true)
	assert.True(t, m.Set(k, v))
	got, ok := m.Get(k)
	assert.True(t, ok)
	assert.True(t, got.Equal(v))
	assert.Equal(t, 1, m.Len())
}

func TestMapOverwriteIsNotNewKey(t *testing.T) {
	m := value.NewMap()
	k := value.Number(1)
	assert.True(t, m.Set(k, value.Number(1)))
	assert.False(t, m.Set(k, value.Number(2)))
	assert.Equal(t, 1, m.Len())
}

func TestMapDeleteThenAbsent(t *testing.T) {
	m := value.NewMap()
	k := value.Number(1)
	m.Set(k, value.Number(1))
	assert.True(t, m.Delete(k))
	_, ok := m.Get(k)
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
	assert.False(t, m.Delete(k))
}

func TestMapGrowsPastEightSlots(t *testing.T) {
	m := value.NewMap()
	for i := 0; i < 100; i++ {
		m.Set(value.Number(float64(i)), value.Number(float64(i*2)))
	}
	for i := 0; i < 100; i++ {
		got, ok := m.Get(value.Number(float64(i)))
		assert.True(t, ok)
		assert.Equal(t, float64(i*2), got.AsNumber())
	}
	assert.Equal(t, 100, m.Len())
}

func TestMapTombstoneDoesNotBreakProbeChain(t *testing.T) {
	m := value.NewMap()
	// 5, 7 and 10 all hash to slot 1 of the initial 8-slot table, so they
	// share one probe sequence; deleting the first must not hide the others
	// behind it
	keys := []value.Value{value.Number(5), value.Number(7), value.Number(10)}
	for i, k := range keys {
		m.Set(k, value.Number(float64(i)))
	}
	m.Delete(keys[0])
	for i := 1; i < len(keys); i++ {
		got, ok := m.Get(keys[i])
		assert.True(t, ok)
		assert.Equal(t, float64(i), got.AsNumber())
	}
}
