package codec

import (
	"github.com/wippyai/asn1-runtime/arena"
)

// OctetString codes an OCTET STRING. Constructed encodings are accepted
// on decode and their chunks are joined into one arena-owned slice.
func OctetString(c *Context, p **[]byte, optional bool, name string) error {
	if err := c.check(); err != nil {
		return err
	}
	switch c.dir {
	case Decode:
		content, ok, err := c.stringContent(TagOctetString, false, optional, name)
		if err != nil || !ok {
			*p = nil
			return err
		}
		*p = arena.Make[[]byte](c.Arena())
		**p = content
		return nil
	case Encode:
		if *p == nil {
			return c.absent(optional, name)
		}
		return c.writePrimitive(name, ClassUniversal, TagOctetString, **p)
	}
	if *p != nil {
		c.printLine(name, formatOctets(**p))
	}
	return nil
}

// stringContent reads a string type in primitive or constructed form and
// returns its content copied into the arena. For bit strings the first
// returned octet is the unused-bit count.
func (c *Context) stringContent(number int, bits bool, optional bool, name string) ([]byte, bool, error) {
	ok, cons, err := c.matchTag(ClassUniversal, number, optional, name)
	if err != nil || !ok {
		return nil, false, err
	}
	l, err := c.readLength(name, cons)
	if err != nil {
		return nil, false, err
	}
	if !cons {
		raw, _ := c.in.Consume(l)
		dst, err := c.alloc(name, l)
		if err != nil {
			return nil, false, err
		}
		copy(dst, raw)
		return dst, true, nil
	}

	size := l
	if l == LengthIndefinite {
		size = c.in.Remaining()
	}
	dst, err := c.alloc(name, max(size, 1))
	if err != nil {
		return nil, false, err
	}
	dst = dst[:0]
	unused := 0
	if bits {
		dst = append(dst, 0)
	}
	dst, err = c.gather(dst, l, number, bits, 1, name, &unused)
	if err != nil {
		return nil, false, err
	}
	if bits {
		dst[0] = byte(unused)
	}
	return dst, true, nil
}

// gather appends the payload of every chunk inside a constructed string
// of length l to dst.
func (c *Context) gather(dst []byte, l, number int, bits bool, depth int, name string, unused *int) ([]byte, error) {
	indefinite := l == LengthIndefinite
	prevEnd := c.in.end
	if !indefinite {
		c.in.push(l)
	}
	for {
		if indefinite {
			eoc, ok := c.in.Peek(2)
			if !ok {
				return nil, c.malformed(name, "missing end-of-contents in constructed string")
			}
			if eoc[0] == 0 && eoc[1] == 0 {
				c.in.pos += 2
				break
			}
		} else if c.in.Remaining() == 0 {
			break
		}
		t, tn, err := ParseTag(c.in.window())
		if err != nil {
			return nil, c.malformed(name, "bad chunk identifier: %v", err)
		}
		if t.Class != ClassUniversal || t.Number != number {
			return nil, c.malformed(name, "chunk tagged %s inside constructed string", t)
		}
		c.in.pos += tn
		cl, err := c.readLength(name, t.Constructed)
		if err != nil {
			return nil, err
		}
		if t.Constructed {
			if depth >= c.maxDepth {
				return nil, c.malformed(name, "constructed string nested deeper than %d", c.maxDepth)
			}
			if dst, err = c.gather(dst, cl, number, bits, depth+1, name, unused); err != nil {
				return nil, err
			}
			continue
		}
		chunk, _ := c.in.Consume(cl)
		if bits {
			if len(chunk) == 0 {
				return nil, c.malformed(name, "bit string chunk without unused-bits octet")
			}
			if *unused != 0 {
				return nil, c.malformed(name, "unused bits in a non-final bit string chunk")
			}
			if chunk[0] > 7 {
				return nil, c.malformed(name, "unused bit count %d", chunk[0])
			}
			*unused = int(chunk[0])
			chunk = chunk[1:]
		}
		dst = append(dst, chunk...)
	}
	if !indefinite {
		c.in.pop(prevEnd)
	}
	return dst, nil
}
