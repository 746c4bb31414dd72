package ebook2pdf_test

import (
	"sort"
	"strconv"
	"testing"

	"github.com/fwojciec/ebook2pdf"
	"github.com/stretchr/testify/assert"
)

func TestPadWidth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pageCount int
		want      int
	}{
		{1, 1},
		{9, 1},
		{10, 2},
		{99, 2},
		{100, 3},
		{450, 3},
		{1000, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ebook2pdf.PadWidth(tt.pageCount), "pageCount=%d", tt.pageCount)
	}
}

func TestPadWidth_EqualsDigitCount(t *testing.T) {
	t.Parallel()

	for n := 1; n <= 5000; n++ {
		if got := ebook2pdf.PadWidth(n); got != len(strconv.Itoa(n)) {
			t.Fatalf("PadWidth(%d) = %d, want %d", n, got, len(strconv.Itoa(n)))
		}
	}
}

func TestPageFilename(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "007.svg", ebook2pdf.PageFilename(7, 120, ".svg"))
	assert.Equal(t, "3.pdf", ebook2pdf.PageFilename(3, 3, ".pdf"))
	assert.Equal(t, "10.svg", ebook2pdf.PageFilename(10, 10, ".svg"))
	assert.Equal(t, "01.svg", ebook2pdf.PageFilename(1, 10, ".svg"))
}

func TestPageFilename_LexicographicMatchesNumericOrder(t *testing.T) {
	t.Parallel()

	for _, pageCount := range []int{1, 2, 9, 10, 11, 99, 100, 101, 450, 999, 1000, 1234} {
		names := make([]string, 0, pageCount)
		// Build in reverse so sorting has work to do.
		for i := pageCount; i >= 1; i-- {
			names = append(names, ebook2pdf.PageFilename(i, pageCount, ".svg"))
		}
		sort.Strings(names)
		for i, name := range names {
			want := ebook2pdf.PageFilename(i+1, pageCount, ".svg")
			if name != want {
				t.Fatalf("pageCount=%d: position %d holds %s, want %s", pageCount, i, name, want)
			}
			assert.Len(t, name, ebook2pdf.PadWidth(pageCount)+len(".svg"))
		}
	}
}

func TestFontPaths(t *testing.T) {
	t.Parallel()

	t.Run("extracts woff2 references", func(t *testing.T) {
		t.Parallel()

		css := `@font-face { font-family: "A"; src: url('fonts/a.woff2') format('woff2'); }
@font-face { font-family: "B"; src: url('fonts/sub/b.woff2') format('woff2'), url('fonts/b.woff') format('woff'); }`

		assert.Equal(t, []string{"fonts/a.woff2", "fonts/sub/b.woff2"}, ebook2pdf.FontPaths(css))
	})

	t.Run("collapses duplicate references", func(t *testing.T) {
		t.Parallel()

		css := `src: url('fonts/a.woff2'); src: url('fonts/a.woff2');`

		assert.Equal(t, []string{"fonts/a.woff2"}, ebook2pdf.FontPaths(css))
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()

		css := `url('x.woff2') url('y.woff2') url('x.woff2')`

		assert.Equal(t, ebook2pdf.FontPaths(css), ebook2pdf.FontPaths(css))
	})

	t.Run("ignores double-quoted and non-woff2 urls", func(t *testing.T) {
		t.Parallel()

		css := `url("a.woff2") url('b.ttf') url(c.woff2)`

		assert.Empty(t, ebook2pdf.FontPaths(css))
	})
}
