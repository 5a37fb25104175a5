package discovery

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/homeservices/internal/model"
)

func render(items []PageItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		switch {
		case it.Ellipsis:
			parts = append(parts, "...")
		case it.Current:
			parts = append(parts, "["+strconv.Itoa(it.Number)+"]")
		default:
			parts = append(parts, strconv.Itoa(it.Number))
		}
	}
	return strings.Join(parts, " ")
}

func TestPageStrip(t *testing.T) {
	tests := []struct {
		current int
		total   int
		want    string
	}{
		{current: 1, total: 0, want: ""},
		{current: 1, total: 1, want: "[1]"},
		{current: 2, total: 5, want: "1 [2] 3 4 5"},
		{current: 3, total: 6, want: "1 2 [3] 4 5 6"},
		{current: 1, total: 10, want: "[1] 2 3 4 5 ... 10"},
		{current: 2, total: 10, want: "1 [2] 3 4 5 ... 10"},
		{current: 3, total: 10, want: "1 2 [3] 4 5 ... 10"},
		{current: 4, total: 10, want: "1 2 3 [4] 5 6 ... 10"},
		{current: 5, total: 10, want: "1 ... 3 4 [5] 6 7 ... 10"},
		{current: 8, total: 10, want: "1 ... 6 7 [8] 9 10"},
		{current: 10, total: 10, want: "1 ... 6 7 8 9 [10]"},
		{current: 4, total: 7, want: "1 2 3 [4] 5 6 7"},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.current)+"of"+strconv.Itoa(tt.total), func(t *testing.T) {
			assert.Equal(t, tt.want, render(PageStrip(tt.current, tt.total)))
		})
	}
}

func TestPageFor_CriteriaChangeResetsPage(t *testing.T) {
	list := make([]model.Service, 20)
	for i := range list {
		list[i] = model.Service{ID: strconv.Itoa(i), Category: "Cleaning", Price: float64(i * 20)}
	}

	c := DefaultCriteria()
	res, err := Run(list, c, 1)
	require.NoError(t, err)
	require.Equal(t, 4, res.TotalPages)
	require.Equal(t, c.Key(), res.CriteriaKey)

	assert.Equal(t, 3, c.PageFor(res.CriteriaKey, 3), "same criteria keep the page")
	assert.Equal(t, 3, Criteria{}.PageFor(res.CriteriaKey, 3), "empty fields normalize to the same criteria")
	assert.Equal(t, 1, c.PageFor("", 3), "no key starts from the first page")

	changed := c
	changed.SortBy = SortPriceDesc
	assert.Equal(t, 1, changed.PageFor(res.CriteriaKey, 3))

	changed = c
	changed.Search = "x"
	assert.Equal(t, 1, changed.PageFor(res.CriteriaKey, 2))
	assert.NotEqual(t, c.Key(), changed.Key())
}

func TestRun_ClampsPage(t *testing.T) {
	list := make([]model.Service, 13)
	for i := range list {
		list[i] = model.Service{ID: strconv.Itoa(i)}
	}

	res, err := Run(list, DefaultCriteria(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Page)
	assert.False(t, res.HasPrev, "previous is disabled on the first page")

	res, err = Run(list, DefaultCriteria(), 9)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Page)
	assert.False(t, res.HasNext, "next is disabled on the last page")

	res, err = Run(nil, DefaultCriteria(), 4)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, StateEmpty, res.State)
}
