package codec

import (
	"strconv"
	"unicode/utf8"
	"unsafe"

	"github.com/wippyai/asn1-runtime/arena"
)

// VisibleString codes a VisibleString.
func VisibleString(c *Context, p **string, optional bool, name string) error {
	return charString(c, p, TagVisibleString, optional, name)
}

// GeneralString codes a GeneralString, the InternationalString of the
// IR protocols.
func GeneralString(c *Context, p **string, optional bool, name string) error {
	return charString(c, p, TagGeneralString, optional, name)
}

// GraphicString codes a GraphicString.
func GraphicString(c *Context, p **string, optional bool, name string) error {
	return charString(c, p, TagGraphicString, optional, name)
}

// IA5String codes an IA5String.
func IA5String(c *Context, p **string, optional bool, name string) error {
	return charString(c, p, TagIA5String, optional, name)
}

// UTF8String codes a UTF8String. Invalid UTF-8 is malformed on decode.
func UTF8String(c *Context, p **string, optional bool, name string) error {
	return charString(c, p, TagUTF8String, optional, name)
}

// NumericString codes a NumericString.
func NumericString(c *Context, p **string, optional bool, name string) error {
	return charString(c, p, TagNumericString, optional, name)
}

// PrintableString codes a PrintableString.
func PrintableString(c *Context, p **string, optional bool, name string) error {
	return charString(c, p, TagPrintableString, optional, name)
}

// GeneralizedTime codes a GeneralizedTime in its textual form.
func GeneralizedTime(c *Context, p **string, optional bool, name string) error {
	return charString(c, p, TagGeneralizedTime, optional, name)
}

// ObjectDescriptor codes an ObjectDescriptor.
func ObjectDescriptor(c *Context, p **string, optional bool, name string) error {
	return charString(c, p, TagObjectDescriptor, optional, name)
}

func charString(c *Context, p **string, number int, optional bool, name string) error {
	if err := c.check(); err != nil {
		return err
	}
	switch c.dir {
	case Decode:
		content, ok, err := c.stringContent(number, false, optional, name)
		if err != nil || !ok {
			*p = nil
			return err
		}
		if number == TagUTF8String && !utf8.Valid(content) {
			return c.malformed(name, "invalid UTF-8")
		}
		*p = arena.Make[string](c.Arena())
		// strings are copied out of the arena so they stay immutable after Reset
		**p = string(content)
		return nil
	case Encode:
		if *p == nil {
			return c.absent(optional, name)
		}
		return c.writePrimitive(name, ClassUniversal, number, unsafe.Slice(unsafe.StringData(**p), len(**p)))
	}
	if *p != nil {
		c.printLine(name, strconv.Quote(**p))
	}
	return nil
}
