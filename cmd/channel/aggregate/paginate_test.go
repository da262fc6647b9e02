package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func numbered(n int) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name      string
		n, page   int
		size      int
		items     []any
		pages     int64
		hasNext   bool
		wantEmpty bool
	}{
		{"first of two", 15, 1, 10, numbered(10), 2, true, false},
		{"last partial", 15, 2, 10, []any{10, 11, 12, 13, 14}, 2, false, false},
		{"exact fit", 10, 1, 10, numbered(10), 1, false, false},
		{"beyond last", 15, 3, 10, []any{}, 2, false, false},
		{"empty set", 0, 1, 10, []any{}, 0, false, true},
		{"empty set beyond", 0, 4, 10, []any{}, 0, false, true},
		{"size one", 3, 2, 1, []any{1}, 3, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(numbered(tt.n), tt.page, tt.size)
			assert.Equal(t, tt.items, p.Items)
			assert.Equal(t, int64(tt.n), p.TotalCount)
			assert.Equal(t, tt.pages, p.TotalPages)
			assert.Equal(t, tt.page, p.CurrentPage)
			assert.Equal(t, tt.hasNext, p.HasNextPage)
			assert.Equal(t, tt.wantEmpty, p.Empty)
		})
	}
}

func TestPaginatePartitions(t *testing.T) {
	for _, size := range []int{1, 3, 7, 10, 50} {
		all := numbered(37)
		var got []any
		for page := 1; ; page++ {
			p := Paginate(all, page, size)
			got = append(got, p.Items...)
			if !p.HasNextPage {
				break
			}
		}
		assert.Equal(t, all, got, "size %d", size)
	}
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		page, size       int
		wantPage, wantSz int
	}{
		{0, 0, 1, 10},
		{-3, -1, 1, 10},
		{2, 25, 2, 25},
		{1, 500, 1, 100},
	}
	for _, tt := range tests {
		p, s := NormalizePage(tt.page, tt.size, 10, 100)
		assert.Equal(t, tt.wantPage, p)
		assert.Equal(t, tt.wantSz, s)
	}
}

func TestParsePageParams(t *testing.T) {
	tests := []struct {
		page, size       string
		wantPage, wantSz int
	}{
		{"", "", 0, 0},
		{"abc", "1.5", 0, 0},
		{"0", "-4", 0, 0},
		{" 3 ", "20", 3, 20},
		{"2", "x", 2, 0},
	}
	for _, tt := range tests {
		p, s := ParsePageParams(tt.page, tt.size)
		assert.Equal(t, tt.wantPage, p, "page %q", tt.page)
		assert.Equal(t, tt.wantSz, s, "size %q", tt.size)
	}
}

func TestParsedDefaultsFollowEngineConfig(t *testing.T) {
	f := newFixture(t, WithPageSizes(3, 50))
	owner := f.user("owner")
	for i := 0; i < 5; i++ {
		f.video(owner.ID, true, i)
	}
	page, size := ParsePageParams("", "junk")
	got := f.query(Query{Intent: IntentFeed, Page: page, PageSize: size})
	assert.Equal(t, 1, got.CurrentPage)
	assert.Equal(t, 3, got.PageSize)
	assert.Len(t, got.Items, 3)
}
