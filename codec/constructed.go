package codec

import (
	"github.com/wippyai/asn1-runtime/arena"
)

// reservedLengthOctets is the number of length octets written before the
// content of a constructed element is known. Short content needs no shift.
const reservedLengthOctets = 1

// beginFrame opens a constructed element. On decode it reports whether
// the element is present.
func (c *Context) beginFrame(kind frameKind, class Class, number int, optional bool, name string) (bool, error) {
	switch c.dir {
	case Decode:
		ok, cons, err := c.matchTag(class, number, optional, name)
		if err != nil || !ok {
			return false, err
		}
		if !cons {
			return false, c.malformed(name, "primitive encoding where constructed expected")
		}
		if len(c.frames) >= c.maxDepth {
			return false, c.malformed(name, "nesting deeper than %d", c.maxDepth)
		}
		l, err := c.readLength(name, true)
		if err != nil {
			return false, err
		}
		f := frame{kind: kind, prevEnd: c.in.end}
		if l == LengthIndefinite {
			f.indefinite = true
		} else {
			c.in.push(l)
		}
		f.named = kind == frameSequence && c.pushPath(name)
		c.frames = append(c.frames, f)
	case Encode:
		if err := c.writeTag(name, class, number, true); err != nil {
			return false, err
		}
		mark, err := c.out.ReserveLength(reservedLengthOctets)
		if err != nil {
			return false, c.spaceExhausted(name)
		}
		f := frame{kind: kind, mark: mark}
		f.named = kind == frameSequence && c.pushPath(name)
		c.frames = append(c.frames, f)
	default:
		c.clearImplicit()
		f := frame{kind: kind}
		if kind != frameWrapper {
			c.printOpen(name)
			f.named = kind == frameSequence && c.pushPath(name)
		}
		c.frames = append(c.frames, f)
	}
	return true, nil
}

// endFrame closes the innermost constructed element.
func (c *Context) endFrame() error {
	if err := c.check(); err != nil {
		return err
	}
	if len(c.frames) == 0 {
		return c.other("", "constructed end without matching begin")
	}
	f := c.frames[len(c.frames)-1]
	c.frames = c.frames[:len(c.frames)-1]
	c.popPath(f.named)

	switch c.dir {
	case Decode:
		if f.indefinite {
			eoc, ok := c.in.Peek(2)
			if !ok || eoc[0] != 0 || eoc[1] != 0 {
				return c.malformed("", "missing end-of-contents")
			}
			c.in.pos += 2
			return nil
		}
		if left := c.in.Remaining(); left != 0 {
			return c.malformed("", "%d unread bytes at end of constructed element", left)
		}
		c.in.pop(f.prevEnd)
	case Encode:
		if err := c.out.PatchLength(f.mark, reservedLengthOctets); err != nil {
			return c.spaceExhausted("")
		}
	default:
		if f.kind != frameWrapper {
			c.printClose()
		}
	}
	return nil
}

// more reports whether the innermost frame has content left.
func (c *Context) more() bool {
	if c.err != nil {
		return false
	}
	if c.dir != Decode {
		return false
	}
	if c.in.Remaining() == 0 {
		return false
	}
	if n := len(c.frames); n > 0 && c.frames[n-1].indefinite {
		if eoc, ok := c.in.Peek(2); ok && eoc[0] == 0 && eoc[1] == 0 {
			return false
		}
	}
	return true
}

// ConstructedBegin opens a constructed element tagged (class, number).
// It reports false with a nil error when an optional element is absent.
// Every true result must be matched by ConstructedEnd.
func ConstructedBegin(c *Context, class Class, number int, optional bool, name string) (bool, error) {
	if err := c.check(); err != nil {
		return false, err
	}
	return c.beginFrame(frameSequence, class, number, optional, name)
}

// ConstructedEnd closes the element opened by ConstructedBegin. On decode
// a definite length must be consumed exactly; an indefinite one must end
// with end-of-contents. On encode the reserved length is patched.
func ConstructedEnd(c *Context) error {
	return c.endFrame()
}

// ConstructedMore reports whether the current decode frame has content left.
func ConstructedMore(c *Context) bool {
	return c.more()
}

// SequenceBegin opens a SEQUENCE held in *p. On decode *p is allocated
// from the context arena. It reports false when an optional sequence is
// absent; encode treats a nil *p as absent.
func SequenceBegin[T any](c *Context, p **T, optional bool, name string) (bool, error) {
	return structBegin(c, p, TagSequence, optional, name)
}

// SequenceEnd closes the sequence opened by SequenceBegin.
func SequenceEnd(c *Context) error {
	return c.endFrame()
}

// SetBegin opens a SET held in *p. Members are read in the order the
// codec calls them, which must match the order on the wire.
func SetBegin[T any](c *Context, p **T, optional bool, name string) (bool, error) {
	return structBegin(c, p, TagSet, optional, name)
}

// SetEnd closes the set opened by SetBegin.
func SetEnd(c *Context) error {
	return c.endFrame()
}

func structBegin[T any](c *Context, p **T, number int, optional bool, name string) (bool, error) {
	if err := c.check(); err != nil {
		return false, err
	}
	if c.dir == Decode {
		ok, err := c.beginFrame(frameSequence, ClassUniversal, number, optional, name)
		if err != nil || !ok {
			*p = nil
			return false, err
		}
		*p = arena.Make[T](c.Arena())
		return true, nil
	}
	if *p == nil {
		c.clearImplicit()
		return false, c.absentValue(optional, name)
	}
	return c.beginFrame(frameSequence, ClassUniversal, number, optional, name)
}
