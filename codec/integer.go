package codec

import (
	"strconv"

	"github.com/wippyai/asn1-runtime/arena"
)

// maxIntegerOctets is the widest INTEGER that fits an int64.
const maxIntegerOctets = 8

// Func is the calling convention shared by every codec. On decode a nil
// error with *p == nil means the optional value was absent. On encode
// *p == nil is accepted only when optional. Print skips nil values and
// never fails on them.
type Func[T any] func(c *Context, p **T, optional bool, name string) error

// Integer codes an INTEGER.
func Integer(c *Context, p **int64, optional bool, name string) error {
	return integer(c, p, TagInteger, optional, name)
}

// Enumerated codes an ENUMERATED value.
func Enumerated(c *Context, p **int64, optional bool, name string) error {
	return integer(c, p, TagEnumerated, optional, name)
}

func integer(c *Context, p **int64, number int, optional bool, name string) error {
	if err := c.check(); err != nil {
		return err
	}
	switch c.dir {
	case Decode:
		content, ok, err := c.primitive(ClassUniversal, number, optional, name)
		if err != nil || !ok {
			*p = nil
			return err
		}
		v, err := c.parseInt(content, name)
		if err != nil {
			return err
		}
		*p = arena.Make[int64](c.Arena())
		**p = v
		return nil
	case Encode:
		if *p == nil {
			return c.absent(optional, name)
		}
		var buf [maxIntegerOctets]byte
		return c.writePrimitive(name, ClassUniversal, number, appendInt(buf[:0], **p))
	}
	if *p != nil {
		c.printLine(name, strconv.FormatInt(**p, 10))
	}
	return nil
}

func (c *Context) parseInt(content []byte, name string) (int64, error) {
	if len(content) == 0 {
		return 0, c.malformed(name, "empty integer")
	}
	if len(content) > maxIntegerOctets {
		return 0, c.malformed(name, "integer of %d octets overflows", len(content))
	}
	return decodeInt(content), nil
}

// decodeInt sign-extends big-endian two's complement content.
func decodeInt(content []byte) int64 {
	v := int64(int8(content[0]))
	for _, b := range content[1:] {
		v = v<<8 | int64(b)
	}
	return v
}

// appendInt appends the minimal two's complement encoding of v.
func appendInt(dst []byte, v int64) []byte {
	n := 1
	for x := v; x > 127 || x < -128; x >>= 8 {
		n++
	}
	for i := n - 1; i >= 0; i-- {
		dst = append(dst, byte(v>>(8*i)))
	}
	return dst
}
