package codec

import (
	stderrors "errors"
	"math"
	"strconv"
	"strings"

	"github.com/wippyai/asn1-runtime/arena"
)

// OID is an OBJECT IDENTIFIER as its list of arcs.
type OID []int

const maxArc = math.MaxInt32

var errInvalidOID = stderrors.New("codec: invalid object identifier")

// ParseOID parses dotted form such as "1.2.840.10003.5.10".
func ParseOID(s string) (OID, error) {
	if s == "" {
		return nil, errInvalidOID
	}
	parts := strings.Split(s, ".")
	oid := make(OID, len(parts))
	for i, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil || v < 0 || v > maxArc {
			return nil, errInvalidOID
		}
		oid[i] = v
	}
	if !oid.Valid() {
		return nil, errInvalidOID
	}
	return oid, nil
}

// MustParseOID is ParseOID for constants. It panics on bad input.
func MustParseOID(s string) OID {
	oid, err := ParseOID(s)
	if err != nil {
		panic("codec: bad OID " + strconv.Quote(s))
	}
	return oid
}

// OIDFromTerminated converts an arc list ended by a negative sentinel.
func OIDFromTerminated(arcs []int) OID {
	for i, v := range arcs {
		if v < 0 {
			return append(OID(nil), arcs[:i]...)
		}
	}
	return append(OID(nil), arcs...)
}

// String returns the dotted form.
func (o OID) String() string {
	var sb strings.Builder
	for i, v := range o {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(strconv.Itoa(v))
	}
	return sb.String()
}

// Equal reports whether both OIDs have the same arcs.
func (o OID) Equal(other OID) bool {
	if len(o) != len(other) {
		return false
	}
	for i := range o {
		if o[i] != other[i] {
			return false
		}
	}
	return true
}

// Valid reports whether the OID can be encoded.
func (o OID) Valid() bool {
	if len(o) < 2 || o[0] < 0 || o[0] > 2 || o[1] < 0 {
		return false
	}
	if o[0] < 2 && o[1] >= 40 {
		return false
	}
	if o[0] == 2 && o[1] > maxArc-80 {
		return false
	}
	for _, v := range o[2:] {
		if v < 0 || v > maxArc {
			return false
		}
	}
	return true
}

func appendArc(dst []byte, v int) []byte {
	n := 1
	for x := v >> 7; x > 0; x >>= 7 {
		n++
	}
	for i := n - 1; i >= 0; i-- {
		o := byte(v>>(7*i)) & 0x7f
		if i > 0 {
			o |= 0x80
		}
		dst = append(dst, o)
	}
	return dst
}

// appendOID appends the content octets of o.
func appendOID(dst []byte, o OID) []byte {
	dst = appendArc(dst, o[0]*40+o[1])
	for _, v := range o[2:] {
		dst = appendArc(dst, v)
	}
	return dst
}

// ObjectIdentifier codes an OBJECT IDENTIFIER.
func ObjectIdentifier(c *Context, p **OID, optional bool, name string) error {
	if err := c.check(); err != nil {
		return err
	}
	switch c.dir {
	case Decode:
		content, ok, err := c.primitive(ClassUniversal, TagOID, optional, name)
		if err != nil || !ok {
			*p = nil
			return err
		}
		oid, err := c.parseOID(content, name)
		if err != nil {
			return err
		}
		*p = arena.Make[OID](c.Arena())
		**p = oid
		return nil
	case Encode:
		if *p == nil {
			return c.absent(optional, name)
		}
		if !(*p).Valid() {
			return c.other(name, "cannot encode object identifier %v", []int(**p))
		}
		var buf [64]byte
		return c.writePrimitive(name, ClassUniversal, TagOID, appendOID(buf[:0], **p))
	}
	if *p != nil {
		c.printLine(name, c.registry.Describe(**p))
	}
	return nil
}

func (c *Context) parseOID(content []byte, name string) (OID, error) {
	if len(content) == 0 {
		return nil, c.malformed(name, "empty object identifier")
	}
	if content[len(content)-1]&0x80 != 0 {
		return nil, c.malformed(name, "object identifier ends inside an arc")
	}
	arcs := 1
	for _, b := range content {
		if b&0x80 == 0 {
			arcs++
		}
	}
	oid := arena.MakeSlice[int](c.Arena(), arcs)
	i, v := 1, 0
	for _, b := range content {
		if v > maxArc>>7 {
			return nil, c.malformed(name, "object identifier arc overflows")
		}
		v = v<<7 | int(b&0x7f)
		if b&0x80 != 0 {
			continue
		}
		if i == 1 {
			switch {
			case v < 40:
				oid[0], oid[1] = 0, v
			case v < 80:
				oid[0], oid[1] = 1, v-40
			default:
				oid[0], oid[1] = 2, v-80
			}
		} else {
			oid[i] = v
		}
		i++
		v = 0
	}
	return OID(oid), nil
}
