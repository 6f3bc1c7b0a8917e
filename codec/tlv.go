package codec

import (
	stderrors "errors"
	"fmt"
	"math"
	"strconv"
)

// Class is the two-bit tag class of a BER identifier, kept in its wire position.
type Class uint8

const (
	ClassUniversal   Class = 0x00
	ClassApplication Class = 0x40
	ClassContext     Class = 0x80
	ClassPrivate     Class = 0xC0
)

func (c Class) String() string {
	switch c {
	case ClassUniversal:
		return "UNIVERSAL"
	case ClassApplication:
		return "APPLICATION"
	case ClassContext:
		return "CONTEXT"
	case ClassPrivate:
		return "PRIVATE"
	}
	return "CLASS(" + strconv.Itoa(int(c)) + ")"
}

// Universal tag numbers.
const (
	TagEOC              = 0
	TagBoolean          = 1
	TagInteger          = 2
	TagBitString        = 3
	TagOctetString      = 4
	TagNull             = 5
	TagOID              = 6
	TagObjectDescriptor = 7
	TagExternal         = 8
	TagEnumerated       = 10
	TagUTF8String       = 12
	TagSequence         = 16
	TagSet              = 17
	TagNumericString    = 18
	TagPrintableString  = 19
	TagTeletexString    = 20
	TagVideotexString   = 21
	TagIA5String        = 22
	TagUTCTime          = 23
	TagGeneralizedTime  = 24
	TagGraphicString    = 25
	TagVisibleString    = 26
	TagGeneralString    = 27
	TagUniversalString  = 28
	TagBMPString        = 30
)

// LengthIndefinite is returned by ParseLength for the 0x80 length octet.
const LengthIndefinite = -1

const (
	constructedBit = 0x20
	highTagNumber  = 0x1f
	maxTagNumber   = math.MaxInt32
	maxLength      = math.MaxInt32
)

// Errors reported by the standalone parsers. ErrShortBuffer means the
// element may still be valid once more bytes arrive.
var (
	ErrShortBuffer         = stderrors.New("codec: short buffer")
	ErrTagOverflow         = stderrors.New("codec: tag number overflows")
	ErrLengthOverflow      = stderrors.New("codec: length overflows")
	ErrReservedLength      = stderrors.New("codec: reserved length octet 0xFF")
	ErrIndefinitePrimitive = stderrors.New("codec: indefinite length on primitive element")
	ErrTooDeep             = stderrors.New("codec: nesting too deep")
)

// Tag is a decoded BER identifier.
type Tag struct {
	Class       Class
	Number      int
	Constructed bool
}

func (t Tag) String() string {
	if t.Class == ClassContext {
		return fmt.Sprintf("[%d]", t.Number)
	}
	return fmt.Sprintf("[%s %d]", t.Class, t.Number)
}

// ParseTag decodes the identifier octets at the start of buf and returns
// the tag and the number of octets used.
func ParseTag(buf []byte) (Tag, int, error) {
	if len(buf) == 0 {
		return Tag{}, 0, ErrShortBuffer
	}
	b := buf[0]
	t := Tag{
		Class:       Class(b & 0xC0),
		Constructed: b&constructedBit != 0,
		Number:      int(b & highTagNumber),
	}
	if t.Number != highTagNumber {
		return t, 1, nil
	}
	n := 0
	for i := 1; ; i++ {
		if i >= len(buf) {
			return Tag{}, 0, ErrShortBuffer
		}
		if n > maxTagNumber>>7 {
			return Tag{}, 0, ErrTagOverflow
		}
		n = n<<7 | int(buf[i]&0x7f)
		if buf[i]&0x80 == 0 {
			t.Number = n
			return t, i + 1, nil
		}
	}
}

// AppendTag appends the identifier octets of t to dst.
func AppendTag(dst []byte, t Tag) []byte {
	b := byte(t.Class)
	if t.Constructed {
		b |= constructedBit
	}
	if t.Number < highTagNumber {
		return append(dst, b|byte(t.Number))
	}
	dst = append(dst, b|highTagNumber)
	n := 1
	for v := t.Number >> 7; v > 0; v >>= 7 {
		n++
	}
	for i := n - 1; i >= 0; i-- {
		o := byte(t.Number>>(7*i)) & 0x7f
		if i > 0 {
			o |= 0x80
		}
		dst = append(dst, o)
	}
	return dst
}

// ParseLength decodes the length octets at the start of buf. The
// indefinite form yields LengthIndefinite.
func ParseLength(buf []byte) (int, int, error) {
	if len(buf) == 0 {
		return 0, 0, ErrShortBuffer
	}
	b := buf[0]
	switch {
	case b < 0x80:
		return int(b), 1, nil
	case b == 0x80:
		return LengthIndefinite, 1, nil
	case b == 0xFF:
		return 0, 0, ErrReservedLength
	}
	k := int(b & 0x7f)
	if k > 4 {
		return 0, 0, ErrLengthOverflow
	}
	if len(buf) < 1+k {
		return 0, 0, ErrShortBuffer
	}
	l := 0
	for _, o := range buf[1 : 1+k] {
		l = l<<8 | int(o)
	}
	if l > maxLength {
		return 0, 0, ErrLengthOverflow
	}
	return l, 1 + k, nil
}

// lengthSize is the number of octets AppendLength emits for l.
func lengthSize(l int) int {
	if l < 0x80 {
		return 1
	}
	n := 1
	for v := l; v > 0; v >>= 8 {
		n++
	}
	return n
}

// AppendLength appends the minimal definite length encoding of l to dst.
func AppendLength(dst []byte, l int) []byte {
	if l < 0x80 {
		return append(dst, byte(l))
	}
	n := lengthSize(l) - 1
	dst = append(dst, 0x80|byte(n))
	for i := n - 1; i >= 0; i-- {
		dst = append(dst, byte(l>>(8*i)))
	}
	return dst
}

// ElementLength returns the size of the complete TLV at the start of buf,
// walking indefinite-length elements down to their end-of-contents marker.
// ErrShortBuffer reports that buf ends before the element does.
func ElementLength(buf []byte, maxDepth int) (int, error) {
	return elementLength(buf, 0, maxDepth)
}

func elementLength(buf []byte, depth, maxDepth int) (int, error) {
	if depth > maxDepth {
		return 0, ErrTooDeep
	}
	tag, tn, err := ParseTag(buf)
	if err != nil {
		return 0, err
	}
	l, ln, err := ParseLength(buf[tn:])
	if err != nil {
		return 0, err
	}
	off := tn + ln
	if l != LengthIndefinite {
		if l > len(buf)-off {
			return 0, ErrShortBuffer
		}
		return off + l, nil
	}
	if !tag.Constructed {
		return 0, ErrIndefinitePrimitive
	}
	for {
		if len(buf)-off < 2 {
			return 0, ErrShortBuffer
		}
		if buf[off] == 0 && buf[off+1] == 0 {
			return off + 2, nil
		}
		n, err := elementLength(buf[off:], depth+1, maxDepth)
		if err != nil {
			return 0, err
		}
		off += n
	}
}
