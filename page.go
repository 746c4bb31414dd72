package ebook2pdf

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

// PadWidth returns the zero-padding width of page filenames: the decimal
// digit count of pageCount.
func PadWidth(pageCount int) int {
	if pageCount < 1 {
		return 1
	}
	return len(strconv.Itoa(pageCount))
}

// PageFilename returns the file name of page index (1-based) in an ebook of
// pageCount pages. Names of one ebook sort identically by bytes and by
// page index.
// Example: PageFilename(7, 120, ".svg") → 007.svg
func PageFilename(index, pageCount int, ext string) string {
	return fmt.Sprintf("%0*d%s", PadWidth(pageCount), index, ext)
}

var fontURLRe = regexp.MustCompile(`url\('([^')]+\.woff2)'\)`)

// FontPaths returns the distinct relative paths of every url('...woff2')
// reference in a stylesheet, sorted.
func FontPaths(stylesheet string) []string {
	seen := make(map[string]struct{})
	for _, m := range fontURLRe.FindAllStringSubmatch(stylesheet, -1) {
		seen[m[1]] = struct{}{}
	}
	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
