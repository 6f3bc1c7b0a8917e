package codec

import (
	"strconv"

	"github.com/wippyai/asn1-runtime/arena"
)

// Boolean codes a BOOLEAN. Any non-zero octet decodes as true; true
// encodes as 0xFF.
func Boolean(c *Context, p **bool, optional bool, name string) error {
	if err := c.check(); err != nil {
		return err
	}
	switch c.dir {
	case Decode:
		content, ok, err := c.primitive(ClassUniversal, TagBoolean, optional, name)
		if err != nil || !ok {
			*p = nil
			return err
		}
		if len(content) != 1 {
			return c.malformed(name, "boolean of %d octets", len(content))
		}
		*p = arena.Make[bool](c.Arena())
		**p = content[0] != 0
		return nil
	case Encode:
		if *p == nil {
			return c.absent(optional, name)
		}
		v := []byte{0x00}
		if **p {
			v[0] = 0xFF
		}
		return c.writePrimitive(name, ClassUniversal, TagBoolean, v)
	}
	if *p != nil {
		c.printLine(name, strconv.FormatBool(**p))
	}
	return nil
}

// Null codes a NULL. Presence is the value.
func Null(c *Context, p **struct{}, optional bool, name string) error {
	if err := c.check(); err != nil {
		return err
	}
	switch c.dir {
	case Decode:
		content, ok, err := c.primitive(ClassUniversal, TagNull, optional, name)
		if err != nil || !ok {
			*p = nil
			return err
		}
		if len(content) != 0 {
			return c.malformed(name, "null with %d content octets", len(content))
		}
		*p = &struct{}{}
		return nil
	case Encode:
		if *p == nil {
			return c.absent(optional, name)
		}
		return c.writePrimitive(name, ClassUniversal, TagNull, nil)
	}
	if *p != nil {
		c.printLine(name, "NULL")
	}
	return nil
}
