package calibspec

import (
	"fmt"
	"regexp"
	"strconv"
)

// DefaultFormat is applied to a Variable when the document omits the
// format attribute, matching the original C reader's "%.14lg" default.
const DefaultFormat = "%.14lg"

var cFormatRE = regexp.MustCompile(`^%(\d*)\.(\d+)(lg|g|f|e)$`)

// FormatValue renders v using a C-style printf specifier such as "%.14lg"
// or "%.6f". Only the precision float verbs the document schema allows are
// supported; anything else falls back to Go's default float formatting.
func FormatValue(format string, v float64) string {
	if format == "" {
		format = DefaultFormat
	}
	m := cFormatRE.FindStringSubmatch(format)
	if m == nil {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	prec, err := strconv.Atoi(m[2])
	if err != nil {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	switch m[3] {
	case "f":
		return fmt.Sprintf("%.*f", prec, v)
	case "e":
		return fmt.Sprintf("%.*e", prec, v)
	default: // "lg" or "g": significant-digit notation
		return strconv.FormatFloat(v, 'g', prec, 64)
	}
}
