package immutablecheck

import (
	"maps"
	"slices"
)

// builtinImmutables are value types known to be immutable without a marker.
// Keys are canonical names as produced by types.TypeString with full
// package paths. Never written after init.
var builtinImmutables = map[string]struct{}{
	"time.Time":      {},
	"time.Duration":  {},
	"time.Month":     {},
	"time.Weekday":   {},
	"*time.Location": {},

	"net/netip.Addr":     {},
	"net/netip.AddrPort": {},
	"net/netip.Prefix":   {},
	"net/url.Userinfo":   {},
	"*net/url.Userinfo":  {},

	"*regexp.Regexp":       {},
	"reflect.Kind":         {},
	"encoding/json.Number": {},
	"math/big.Word":        {},

	"image.Point":         {},
	"image.Rectangle":     {},
	"image/color.RGBA":    {},
	"image/color.RGBA64":  {},
	"image/color.NRGBA":   {},
	"image/color.NRGBA64": {},
	"image/color.Gray":    {},
	"image/color.Gray16":  {},
	"image/color.Alpha":   {},
	"image/color.Alpha16": {},
	"image/color.CMYK":    {},
	"image/color.YCbCr":   {},
	"image/color.NYCbCrA": {},

	"github.com/google/uuid.UUID":           {},
	"github.com/shopspring/decimal.Decimal": {},
	"golang.org/x/text/language.Tag":        {},
	"golang.org/x/text/language.Base":       {},
	"golang.org/x/text/language.Region":     {},
	"golang.org/x/text/language.Script":     {},
	"golang.org/x/text/currency.Unit":       {},
}

// IsBuiltinImmutable reports whether name is on the built-in allowlist.
// The match is exact.
func IsBuiltinImmutable(name string) bool {
	_, ok := builtinImmutables[name]
	return ok
}

// BuiltinImmutables returns the allowlist, sorted.
func BuiltinImmutables() []string {
	return slices.Sorted(maps.Keys(builtinImmutables))
}
