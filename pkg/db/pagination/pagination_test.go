package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	p := Pagination{}.Normalize(10, 100)
	assert.Equal(t, Pagination{Page: 1, PageSize: 10}, p)

	p = Pagination{Page: 3, PageSize: 500}.Normalize(10, 100)
	assert.Equal(t, Pagination{Page: 3, PageSize: 100}, p)

	p = Pagination{Page: -2, PageSize: -1}.Normalize(0, 0)
	assert.Equal(t, Pagination{Page: 1, PageSize: 1}, p)
}

func TestWindow(t *testing.T) {
	p := Pagination{Page: 2, PageSize: 10}
	assert.Equal(t, 10, p.Offset())

	start, end := p.Window(25)
	assert.Equal(t, 10, start)
	assert.Equal(t, 20, end)

	start, end = Pagination{Page: 3, PageSize: 10}.Window(25)
	assert.Equal(t, 20, start)
	assert.Equal(t, 25, end)

	start, end = Pagination{Page: 9, PageSize: 10}.Window(25)
	assert.Equal(t, 25, start)
	assert.Equal(t, 25, end)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(1, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 0, TotalPages(5, 0))
}
