// Package normalize cleans inbound chat text before intent parsing
//
// Pipeline order
// 1 drop control characters and invalid UTF-8
// 2 NFC composition
// 3 remove format characters (zero-width space and joiners, BOM)
// 4 fold fullwidth forms to ASCII
// 5 trim
//
// Case is kept: proof fields and file names are case sensitive
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// chainPool hands out transformer chains; a chain is stateful so each call
// needs its own
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFC,
			runes.Remove(runes.In(unicode.Cf)),
			width.Fold,
		)
	},
}

// Text returns the cleaned form of s. A hash pasted from a rich text client
// with zero-width or fullwidth characters comes out as plain hex
func Text(s string) string {
	if s == "" {
		return ""
	}
	s = Sanitize(s)

	tr := chainPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		out = norm.NFC.String(s)
	}
	return strings.TrimSpace(out)
}
