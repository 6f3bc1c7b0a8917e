package codec

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"unicode"
)

const (
	printIndent  = 4
	printPreview = 32
)

func (c *Context) printPrefix(name string) {
	io.WriteString(c.printer, strings.Repeat(" ", c.indent*printIndent))
	if name != "" {
		io.WriteString(c.printer, name)
		io.WriteString(c.printer, ": ")
	}
}

// printLine writes one "name: value" line at the current depth.
func (c *Context) printLine(name, value string) {
	c.clearImplicit()
	c.printPrefix(name)
	io.WriteString(c.printer, value)
	io.WriteString(c.printer, "\n")
}

func (c *Context) printf(name, format string, args ...any) {
	c.printLine(name, fmt.Sprintf(format, args...))
}

// printOpen starts a "name {" block; constructed values carry no colon.
func (c *Context) printOpen(name string) {
	io.WriteString(c.printer, strings.Repeat(" ", c.indent*printIndent))
	if name != "" {
		io.WriteString(c.printer, name)
		io.WriteString(c.printer, " ")
	}
	io.WriteString(c.printer, "{\n")
	c.indent++
}

func (c *Context) printClose() {
	if c.indent > 0 {
		c.indent--
	}
	io.WriteString(c.printer, strings.Repeat(" ", c.indent*printIndent))
	io.WriteString(c.printer, "}\n")
}

// formatOctets renders bytes as a quoted string when printable and as
// hex otherwise, truncated to a short preview.
func formatOctets(p []byte) string {
	if isPrintable(p) {
		return fmt.Sprintf("%q", p)
	}
	if len(p) > printPreview {
		return fmt.Sprintf("%s... (%d bytes)", hex.EncodeToString(p[:printPreview]), len(p))
	}
	return fmt.Sprintf("%s (%d bytes)", hex.EncodeToString(p), len(p))
}

func isPrintable(p []byte) bool {
	if len(p) == 0 {
		return true
	}
	for _, b := range p {
		if b >= 0x80 || !unicode.IsPrint(rune(b)) && b != '\n' && b != '\t' && b != '\r' {
			return false
		}
	}
	return true
}
