package immutablecheck

import (
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatError(t *testing.T) {
	root := &Class{Name: "example.com/shop.Money"}
	d := mutableFieldDiagnostic(root, Field{Name: "Cents", Type: prim("int64")})
	pos := token.Position{Filename: "/src/shop/money.go", Line: 12, Column: 2}
	declPos := token.Position{Filename: "/src/shop/money.go", Line: 10, Column: 6}

	got := formatError(d, pos, "\tCents int64", declPos)

	want := "\n" +
		"error[IMM001]: immutable type has a mutable field\n" +
		"  --> money.go:12:2\n" +
		"   |\n" +
		"  12 | \tCents int64\n" +
		"   |\n" +
		"   = note: Class example.com/shop.Money marked immutable but element Cents of type int64 is not final and either primitive or immutable.\n" +
		"   = note: 'example.com/shop.Money' is declared at money.go:10:6\n" +
		"   = help: make the field unexported and give it a primitive, built-in immutable or @immutable type\n"
	assert.Equal(t, want, got)
}

func TestFormatErrorWithoutSource(t *testing.T) {
	d := internalDiagnostic(&Class{Name: "shop.Broken"}, "boom")

	got := formatError(d, token.Position{Filename: "x.go", Line: 3, Column: 1}, "", token.Position{})

	assert.Equal(t, "\n"+
		"error[IMM999]: internal error while checking immutable type\n"+
		"  --> x.go:3:1\n"+
		"   = note: Class shop.Broken could not be validated: boom\n", got)
}

func TestHeadlineAndHelpCoverEveryCode(t *testing.T) {
	for _, c := range []Code{CodeMutableField, CodeUnsafeTypeParam, CodeSupertypeCycle, CodeDepthExceeded} {
		assert.NotEqual(t, headline(CodeUnknown), headline(c), c.String())
		assert.NotEmpty(t, help(c), c.String())
	}
	assert.Empty(t, help(CodeInternal))
}
