package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeEntries_CombinesDuplicateProducts(t *testing.T) {
	merged := mergeEntries([]CartEntry{
		{ProductID: "p7", Qty: 6},
		{ProductID: "p7", Qty: 6},
	})
	require.Len(t, merged, 1)
	assert.Equal(t, "p7", merged[0].ProductID)
	assert.Equal(t, 12, merged[0].Qty)
}

func TestMergeEntries_KeepsFirstSeenOrder(t *testing.T) {
	merged := mergeEntries([]CartEntry{
		{ProductID: "b", Qty: 1},
		{ProductID: "a", Qty: 2},
		{ProductID: "b", Qty: 3},
	})
	require.Len(t, merged, 2)
	assert.Equal(t, "b", merged[0].ProductID)
	assert.Equal(t, 4, merged[0].Qty)
	assert.Equal(t, "a", merged[1].ProductID)
	assert.Equal(t, 2, merged[1].Qty)
}

func TestMergeEntries_DistinctProductsUntouched(t *testing.T) {
	in := []CartEntry{{ProductID: "a", Qty: 1}, {ProductID: "b", Qty: 2}}
	assert.Equal(t, in, mergeEntries(in))
}
