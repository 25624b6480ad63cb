package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	p := Paginate(25, 0, 10)
	assert.Equal(t, uint64(3), p.TotalPages)
	assert.Equal(t, uint64(1), p.CurrentPage)
	assert.True(t, p.HasNext)
	assert.False(t, p.HasPrevious)

	p = Paginate(25, 20, 10)
	assert.Equal(t, uint64(3), p.CurrentPage)
	assert.False(t, p.HasNext)
	assert.True(t, p.HasPrevious)

	p = Paginate(0, 0, 10)
	assert.Equal(t, uint64(0), p.TotalPages)
	assert.False(t, p.HasNext)
	assert.False(t, p.HasPrevious)
}

func TestPaginate_PagesCoverTotal(t *testing.T) {
	for total := uint64(0); total < 60; total++ {
		for _, limit := range []uint64{1, 7, 10, 100} {
			p := Paginate(total, 0, limit)
			assert.GreaterOrEqual(t, p.TotalPages*limit, total)
			if p.TotalPages > 0 {
				assert.Less(t, (p.TotalPages-1)*limit, total)
			}
		}
	}
}
