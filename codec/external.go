package codec

import (
	"io"

	"github.com/wippyai/asn1-runtime/arena"
)

// External is the EXTERNAL type: a payload identified by OID or
// presentation context.
type External struct {
	DirectReference   *OID
	IndirectReference *int64
	Descriptor        *string
	Encoding          ExternalEncoding
}

// ExternalEncoding is one of *SingleASN1Type, *OctetAligned or *Arbitrary.
type ExternalEncoding interface {
	externalEncoding()
}

// SingleASN1Type carries one BER element. Value holds the decoded form
// when the direct reference names a registered codec; on encode a nil Raw
// is produced from Value.
type SingleASN1Type struct {
	Raw   []byte
	Value any
}

// OctetAligned carries opaque octets.
type OctetAligned []byte

// Arbitrary carries opaque bits.
type Arbitrary BitString

func (*SingleASN1Type) externalEncoding() {}
func (*OctetAligned) externalEncoding()   {}
func (*Arbitrary) externalEncoding()      {}

var externalEncodings = NewChoiceTable(
	Arm[ExternalEncoding]{
		Mode: TagExplicit, Class: ClassContext, Number: 0, Which: 0, Name: "single-ASN1-type",
		Codec: Alt(singleASN1Type,
			func(p *SingleASN1Type) ExternalEncoding { return p },
			func(v ExternalEncoding) (*SingleASN1Type, bool) {
				s, ok := v.(*SingleASN1Type)
				return s, ok
			}),
	},
	Arm[ExternalEncoding]{
		Mode: TagImplicit, Class: ClassContext, Number: 1, Which: 1, Name: "octet-aligned",
		Codec: Alt(OctetString,
			func(p *[]byte) ExternalEncoding { return (*OctetAligned)(p) },
			func(v ExternalEncoding) (*[]byte, bool) {
				o, ok := v.(*OctetAligned)
				return (*[]byte)(o), ok
			}),
	},
	Arm[ExternalEncoding]{
		Mode: TagImplicit, Class: ClassContext, Number: 2, Which: 2, Name: "arbitrary",
		Codec: Alt(BitStringCodec,
			func(p *BitString) ExternalEncoding { return (*Arbitrary)(p) },
			func(v ExternalEncoding) (*BitString, bool) {
				a, ok := v.(*Arbitrary)
				return (*BitString)(a), ok
			}),
	},
)

// ExternalWhich returns 0, 1 or 2 for the encoding alternative held by e.
func ExternalWhich(e ExternalEncoding) (int, bool) {
	return externalEncodings.Which(e)
}

// ExternalCodec codes an EXTERNAL ([UNIVERSAL 8] IMPLICIT SEQUENCE). An
// implicit tag set by the caller takes precedence over the universal one.
func ExternalCodec(c *Context, p **External, optional bool, name string) error {
	if err := c.check(); err != nil {
		return err
	}
	if !c.implicit.set {
		c.setImplicit(ClassUniversal, TagExternal)
	}
	ok, err := SequenceBegin(c, p, optional, name)
	c.clearImplicit()
	if err != nil || !ok {
		return err
	}
	e := *p
	if err := ObjectIdentifier(c, &e.DirectReference, true, "direct-reference"); err != nil {
		return err
	}
	if err := Integer(c, &e.IndirectReference, true, "indirect-reference"); err != nil {
		return err
	}
	if err := ObjectDescriptor(c, &e.Descriptor, true, "data-value-descriptor"); err != nil {
		return err
	}

	saved := c.known
	c.known = nil
	if e.DirectReference != nil {
		if entry, ok := c.registry.Lookup(*e.DirectReference); ok && entry.Codec != nil {
			c.known = &entry
		}
	}
	err = externalEncodings.Code(c, &e.Encoding, false, "encoding")
	c.known = saved
	if err != nil {
		return err
	}
	return SequenceEnd(c)
}

func singleASN1Type(c *Context, p **SingleASN1Type, optional bool, name string) error {
	if err := c.check(); err != nil {
		return err
	}
	switch c.dir {
	case Decode:
		var raw *[]byte
		if err := Any(c, &raw, optional, name); err != nil || raw == nil {
			*p = nil
			return err
		}
		s := arena.Make[SingleASN1Type](c.Arena())
		s.Raw = *raw
		*p = s
		if entry := c.known; entry != nil {
			return c.decodeNested(s.Raw, name, func(sub *Context) error {
				return entry.Codec(sub, &s.Value, false, entry.Name)
			})
		}
		return nil
	case Encode:
		s := *p
		if s == nil {
			return c.absent(optional, name)
		}
		if s.Raw != nil {
			raw := &s.Raw
			return Any(c, &raw, false, name)
		}
		if s.Value != nil && c.known != nil {
			return c.known.Codec(c, &s.Value, false, name)
		}
		return c.missing(name)
	}
	s := *p
	if s == nil {
		return nil
	}
	if s.Value != nil && c.known != nil {
		return c.known.Codec(c, &s.Value, false, c.known.Name)
	}
	raw := &s.Raw
	return Any(c, &raw, false, name)
}

// decodeNested decodes raw with a child context sharing this context's
// arena and registry. A child failure becomes this context's failure.
func (c *Context) decodeNested(raw []byte, name string, fn func(sub *Context) error) error {
	sub := &Context{
		dir:      Decode,
		in:       NewCursor(raw),
		path:     c.pathWith(name),
		arena:    c.Arena(),
		printer:  io.Discard,
		registry: c.registry,
		maxDepth: c.maxDepth,
	}
	if err := fn(sub); err != nil {
		if sub.err == nil {
			return c.other(name, "%v", err)
		}
		return c.fail(sub.err)
	}
	return nil
}
