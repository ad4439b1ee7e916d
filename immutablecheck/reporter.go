package immutablecheck

import (
	"bufio"
	"bytes"
	"fmt"
	"go/token"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/analysis"
)

// getSourceLine returns line lineNum of filename, or "" when the file
// cannot be read through the pass.
func (pc *passCollector) getSourceLine(filename string, lineNum int) string {
	if pc.pass.ReadFile == nil || filename == "" {
		return ""
	}
	content, err := pc.pass.ReadFile(filename)
	if err != nil {
		return ""
	}

	scanner := bufio.NewScanner(bytes.NewReader(content))
	currentLine := 1
	for scanner.Scan() {
		if currentLine == lineNum {
			return scanner.Text()
		}
		currentLine++
	}
	return ""
}

// reportPos is the element position when it lies in this package's files,
// and the root class otherwise. Nested violations in imported types end up
// on the class that pulled them in.
func (pc *passCollector) reportPos(d Diagnostic) token.Pos {
	if d.Pos.IsValid() {
		if file := pc.pass.Fset.File(d.Pos); file != nil {
			for _, f := range pc.pass.Files {
				if pc.pass.Fset.File(f.FileStart) == file {
					return d.Pos
				}
			}
		}
	}
	return d.Root.Pos
}

func (pc *passCollector) report(d Diagnostic) {
	pos := pc.reportPos(d)

	msg := d.Message
	if pc.cfg.Format == FormatPretty {
		position := pc.pass.Fset.Position(pos)
		sourceLine := pc.getSourceLine(position.Filename, position.Line)
		declPosition := pc.pass.Fset.Position(d.Root.Pos)
		msg = formatError(d, position, sourceLine, declPosition)
	}

	pc.pass.Report(analysis.Diagnostic{
		Pos:      pos,
		Category: d.Code.String(),
		Message:  msg,
	})
}

func headline(c Code) string {
	switch c {
	case CodeMutableField:
		return "immutable type has a mutable field"
	case CodeUnsafeTypeParam:
		return "type parameter does not extend an immutable type"
	case CodeSupertypeCycle:
		return "cyclic supertype chain"
	case CodeDepthExceeded:
		return "immutable type nests too deeply"
	case CodeInternal:
		return "internal error while checking immutable type"
	}
	return "immutability check failed"
}

func help(c Code) string {
	switch c {
	case CodeMutableField:
		return "make the field unexported and give it a primitive, built-in immutable or @immutable type"
	case CodeUnsafeTypeParam:
		return "constrain the type parameter to @immutable types only"
	case CodeSupertypeCycle:
		return "remove the embedding that closes the cycle"
	case CodeDepthExceeded:
		return "raise -max-depth or flatten the nested types"
	}
	return ""
}

func formatError(d Diagnostic, pos token.Position, sourceLine string, declPos token.Position) string {
	var sb strings.Builder

	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%s[%s]: %s\n", d.Severity, d.Code, headline(d.Code))

	relPath := filepath.Base(pos.Filename)
	fmt.Fprintf(&sb, "  --> %s:%d:%d\n", relPath, pos.Line, pos.Column)

	if sourceLine != "" {
		sb.WriteString("   |\n")
		fmt.Fprintf(&sb, "%4d | %s\n", pos.Line, sourceLine)
		sb.WriteString("   |\n")
	}

	fmt.Fprintf(&sb, "   = note: %s\n", d.Message)
	if declPos.IsValid() && d.Root != nil {
		fmt.Fprintf(&sb, "   = note: '%s' is declared at %s:%d:%d\n",
			d.Root.Name, filepath.Base(declPos.Filename), declPos.Line, declPos.Column)
	}
	if h := help(d.Code); h != "" {
		fmt.Fprintf(&sb, "   = help: %s\n", h)
	}

	return sb.String()
}
