package codec

import (
	"github.com/wippyai/asn1-runtime/arena"
)

// Any codes one complete element of any type, kept as its raw encoding.
// On decode the next element in the current frame is always taken when
// present; on encode the bytes are written verbatim.
func Any(c *Context, p **[]byte, optional bool, name string) error {
	if err := c.check(); err != nil {
		return err
	}
	switch c.dir {
	case Decode:
		c.clearImplicit()
		if !c.more() {
			*p = nil
			return c.absent(optional, name)
		}
		n, err := ElementLength(c.in.window(), c.maxDepth)
		if err != nil {
			if err == ErrShortBuffer {
				return c.malformed(name, "element runs past the end of its container")
			}
			return c.malformed(name, "%v", err)
		}
		raw, _ := c.in.Consume(n)
		dst, err := c.alloc(name, n)
		if err != nil {
			return err
		}
		copy(dst, raw)
		*p = arena.Make[[]byte](c.Arena())
		**p = dst
		return nil
	case Encode:
		c.clearImplicit()
		if *p == nil {
			return c.absent(optional, name)
		}
		return c.write(name, **p)
	}
	if *p != nil {
		c.printLine(name, formatOctets(**p))
	}
	return nil
}
