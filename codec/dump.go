package codec

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/wippyai/asn1-runtime/errors"
)

const dumpPreview = 16

// Dump writes a schema-less tree of the first BER element in buf and
// returns its encoded size.
func Dump(w io.Writer, buf []byte) (int, error) {
	d := dumper{w: w, buf: buf}
	return d.element(0, 0, len(buf))
}

type dumper struct {
	w   io.Writer
	buf []byte
}

func (d *dumper) element(depth, off, end int) (int, error) {
	if depth > DefaultMaxDepth {
		return 0, errors.Malformed(errors.PhasePrint, nil, off, "nesting too deep")
	}
	t, tn, err := ParseTag(d.buf[off:end])
	if err != nil {
		return 0, errors.Malformed(errors.PhasePrint, nil, off, "identifier: "+err.Error())
	}
	l, ln, err := ParseLength(d.buf[off+tn : end])
	if err != nil {
		return 0, errors.Malformed(errors.PhasePrint, nil, off+tn, "length: "+err.Error())
	}
	hdr := tn + ln
	content := off + hdr
	indent := strings.Repeat(" ", depth*printIndent)

	if l == LengthIndefinite {
		if !t.Constructed {
			return 0, errors.Malformed(errors.PhasePrint, nil, off, "indefinite length on primitive element")
		}
		fmt.Fprintf(d.w, "%s%s cons len=indefinite @%d\n", indent, t, off)
		pos := content
		for {
			if end-pos < 2 {
				return 0, errors.Malformed(errors.PhasePrint, nil, pos, "missing end-of-contents")
			}
			if d.buf[pos] == 0 && d.buf[pos+1] == 0 {
				return pos + 2 - off, nil
			}
			n, err := d.element(depth+1, pos, end)
			if err != nil {
				return 0, err
			}
			pos += n
		}
	}
	if l > end-content {
		return 0, errors.Truncated(errors.PhasePrint, nil, "element", off, l, end-content)
	}
	if t.Constructed {
		fmt.Fprintf(d.w, "%s%s cons len=%d @%d\n", indent, t, l, off)
		for pos := content; pos < content+l; {
			n, err := d.element(depth+1, pos, content+l)
			if err != nil {
				return 0, err
			}
			pos += n
		}
		return hdr + l, nil
	}
	fmt.Fprintf(d.w, "%s%s prim len=%d @%d %s\n", indent, t, l, off, preview(d.buf[content:content+l]))
	return hdr + l, nil
}

func preview(p []byte) string {
	if len(p) > 0 && isPrintable(p) {
		if len(p) > printPreview {
			return fmt.Sprintf("%q...", p[:printPreview])
		}
		return fmt.Sprintf("%q", p)
	}
	if len(p) > dumpPreview {
		return hex.EncodeToString(p[:dumpPreview]) + "..."
	}
	return hex.EncodeToString(p)
}
