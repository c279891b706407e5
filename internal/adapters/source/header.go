// header.go canonicalizes column names coming off files and result sets
package source

import (
	"strconv"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// pool of fresh transformer chains. NFKD rather than NFKC so
// precomposed accents decompose before the mark strip
var headerChain = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKD,
			cases.Fold(),                       // unicode case folding
			runes.Remove(runes.In(unicode.Mn)), // strip combining marks
			runes.Remove(runes.In(unicode.Cf)), // strip format chars ZWJ ZWNJ FEFF etc
			width.Fold,                         // map fullwidth forms to ASCII
		)
	},
}

// FoldHeader maps a raw header cell to its canonical column name:
// folded to lower case, accents and zero-width characters stripped,
// non-alphanumeric runs collapsed to a single underscore and trimmed.
// An empty or all-punctuation cell folds to ""
func FoldHeader(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, "")

	tr := headerChain.Get().(transform.Transformer)
	ns, _, _ := transform.String(tr, s)
	tr.Reset()
	headerChain.Put(tr)

	var b strings.Builder
	b.Grow(len(ns))
	pendingSep := false
	for _, r := range ns {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// foldHeaders canonicalizes a header row, synthesizing col_N names for
// cells that fold to nothing and suffixing duplicates so every column
// keeps a distinct name
func foldHeaders(raw []string) []string {
	out := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, h := range raw {
		name := FoldHeader(h)
		if name == "" {
			name = "col_" + strconv.Itoa(i+1)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = name + "_" + strconv.Itoa(n+1)
		}
		if _, dup := seen[name]; !dup {
			seen[name] = 1
		}
		out[i] = name
	}
	return out
}
