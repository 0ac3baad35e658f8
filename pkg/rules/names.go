package rules

import (
	"regexp"
	"strconv"
)

// nameAllocator hands out intermediate variable names derived from a fixed
// prefix: the bare prefix first, then prefix2, prefix3, and so on. It is
// seeded from the input text so that names already introduced by an earlier
// run are never reissued.
type nameAllocator struct {
	prefix string
	next   int
}

// newNameAllocator scans src for identifiers of the shape prefix or
// prefixN and starts numbering past the highest one found. The bare prefix
// counts as index 1.
func newNameAllocator(prefix string, seedRe *regexp.Regexp, src string) *nameAllocator {
	next := 1
	for _, m := range seedRe.FindAllStringSubmatch(src, -1) {
		idx := 1
		if m[1] != "" {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			idx = n
		}
		if idx >= next {
			next = idx + 1
		}
	}
	return &nameAllocator{prefix: prefix, next: next}
}

func (a *nameAllocator) alloc() string {
	n := a.next
	a.next++
	if n == 1 {
		return a.prefix
	}
	return a.prefix + strconv.Itoa(n)
}
