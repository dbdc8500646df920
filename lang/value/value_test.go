package value_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/warplang/warp/lang/value"
)

func TestTruthy(t *testing.T) {
	assert.False(t, value.Nil().Truthy())
	assert.False(t, value.Bool(false).Truthy())
	assert.True(t, value.Bool(true).Truthy())
	assert.True(t, value.Number(0).Truthy())
	assert.True(t, value.FromObj(&value.NewString("").Obj).Truthy())
}

func TestEqualReflexiveExceptNaN(t *testing.T) {
	n := value.Number(1)
	assert.True(t, n.Equal(n))
	nan := value.Number(math.NaN())
	assert.False(t, nan.Equal(nan))
}

func TestEqualAcrossKinds(t *testing.T) {
	assert.False(t, value.Nil().Equal(value.Bool(false)))
	assert.False(t, value.Number(0).Equal(value.Bool(false)))
}

func TestStringInterningIdentityEquality(t *testing.T) {
	a := value.NewString("hi")
	b := value.NewString("hi")
	// distinct allocations are not equal, demonstrating why interning
	// (machine.VM.Intern) rather than NewString must back Value.Equal for
	// strings obtained from the language.
	av := value.FromObj(&a.Obj)
	bv := value.FromObj(&b.Obj)
	assert.False(t, av.Equal(bv))
	assert.True(t, av.Equal(av))
}
