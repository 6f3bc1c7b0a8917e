package codec

import (
	"strings"

	"github.com/wippyai/asn1-runtime/arena"
)

// BitString holds a BIT STRING. Bit 0 is the most significant bit of Bytes[0].
type BitString struct {
	Bytes     []byte
	BitLength int
}

// At returns bit i, or false when i is out of range.
func (b BitString) At(i int) bool {
	if i < 0 || i >= b.BitLength {
		return false
	}
	return b.Bytes[i/8]&(0x80>>(i%8)) != 0
}

// Set changes bit i, growing the string when needed.
func (b *BitString) Set(i int, on bool) {
	if i < 0 {
		return
	}
	if need := i/8 + 1; need > len(b.Bytes) {
		b.Bytes = append(b.Bytes, make([]byte, need-len(b.Bytes))...)
	}
	if i >= b.BitLength {
		b.BitLength = i + 1
	}
	if on {
		b.Bytes[i/8] |= 0x80 >> (i % 8)
	} else {
		b.Bytes[i/8] &^= 0x80 >> (i % 8)
	}
}

// String renders the bits as '0' and '1' characters.
func (b BitString) String() string {
	var sb strings.Builder
	sb.Grow(b.BitLength)
	for i := 0; i < b.BitLength; i++ {
		if b.At(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// BitStringCodec codes a BIT STRING, accepting constructed encodings on decode.
func BitStringCodec(c *Context, p **BitString, optional bool, name string) error {
	if err := c.check(); err != nil {
		return err
	}
	switch c.dir {
	case Decode:
		content, ok, err := c.stringContent(TagBitString, true, optional, name)
		if err != nil || !ok {
			*p = nil
			return err
		}
		if len(content) == 0 {
			return c.malformed(name, "bit string without unused-bits octet")
		}
		unused := int(content[0])
		if unused > 7 || len(content) == 1 && unused != 0 {
			return c.malformed(name, "unused bit count %d", unused)
		}
		*p = arena.Make[BitString](c.Arena())
		(*p).Bytes = content[1:]
		(*p).BitLength = 8*(len(content)-1) - unused
		return nil
	case Encode:
		if *p == nil {
			return c.absent(optional, name)
		}
		b := *p
		unused := 8*len(b.Bytes) - b.BitLength
		if unused < 0 || unused > 7 {
			return c.other(name, "bit length %d does not fit %d octets", b.BitLength, len(b.Bytes))
		}
		if err := c.writeTag(name, ClassUniversal, TagBitString, false); err != nil {
			return err
		}
		if err := c.write(name, AppendLength(c.scratch[:0], 1+len(b.Bytes))); err != nil {
			return err
		}
		if err := c.write(name, []byte{byte(unused)}); err != nil {
			return err
		}
		return c.write(name, b.Bytes)
	}
	if *p != nil {
		c.printLine(name, "'"+(*p).String()+"'B")
	}
	return nil
}
