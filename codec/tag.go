package codec

// setImplicit makes the next tag match or write use (class, number).
func (c *Context) setImplicit(class Class, number int) {
	c.implicit = implicitTag{class: class, number: number, set: true}
}

func (c *Context) clearImplicit() {
	c.implicit.set = false
}

// takeTag applies and consumes the pending implicit override.
func (c *Context) takeTag(class Class, number int) (Class, int) {
	if c.implicit.set {
		class, number = c.implicit.class, c.implicit.number
		c.implicit.set = false
	}
	return class, number
}

// MatchTag handles the identifier of the next element. On decode it
// consumes a matching tag and reports presence; a mismatch is absence when
// optional and a missing-field failure otherwise. On encode it writes the
// tag. A pending implicit tag replaces (class, number) for this one call.
func MatchTag(c *Context, tag Tag, optional bool, name string) (bool, error) {
	if err := c.check(); err != nil {
		return false, err
	}
	switch c.dir {
	case Decode:
		ok, _, err := c.matchTag(tag.Class, tag.Number, optional, name)
		return ok, err
	case Encode:
		return true, c.writeTag(name, tag.Class, tag.Number, tag.Constructed)
	}
	c.clearImplicit()
	return true, nil
}

// PeekTag returns the tag of the next element without consuming it.
func PeekTag(c *Context) (Tag, bool) {
	if c.dir != Decode {
		return Tag{}, false
	}
	t, _, err := ParseTag(c.in.window())
	return t, err == nil
}

func (c *Context) matchTag(class Class, number int, optional bool, name string) (present, constructed bool, err error) {
	class, number = c.takeTag(class, number)
	rest := c.in.window()
	if len(rest) == 0 {
		return false, false, c.absent(optional, name)
	}
	t, n, perr := ParseTag(rest)
	if perr != nil {
		if perr == ErrShortBuffer {
			return false, false, c.malformed(name, "truncated identifier")
		}
		return false, false, c.malformed(name, "%v", perr)
	}
	if t.Class != class || t.Number != number {
		return false, false, c.absent(optional, name)
	}
	c.in.pos += n
	return true, t.Constructed, nil
}

// readLength consumes length octets and checks a definite length against
// the bytes that remain.
func (c *Context) readLength(name string, constructed bool) (int, error) {
	l, n, err := ParseLength(c.in.window())
	if err != nil {
		if err == ErrShortBuffer {
			return 0, c.malformed(name, "truncated length")
		}
		return 0, c.malformed(name, "%v", err)
	}
	if l == LengthIndefinite && !constructed {
		return 0, c.malformed(name, "indefinite length on primitive encoding")
	}
	c.in.pos += n
	if l > c.in.Remaining() {
		return 0, c.truncated(name, "content", l)
	}
	return l, nil
}

// primitive reads the header of a primitive element and returns its
// content, borrowed from the input.
func (c *Context) primitive(class Class, number int, optional bool, name string) ([]byte, bool, error) {
	ok, cons, err := c.matchTag(class, number, optional, name)
	if err != nil || !ok {
		return nil, false, err
	}
	if cons {
		return nil, false, c.malformed(name, "constructed encoding not allowed")
	}
	l, err := c.readLength(name, false)
	if err != nil {
		return nil, false, err
	}
	content, _ := c.in.Consume(l)
	return content, true, nil
}

func (c *Context) write(name string, p []byte) error {
	if _, err := c.out.Write(p); err != nil {
		return c.spaceExhausted(name)
	}
	return nil
}

func (c *Context) writeTag(name string, class Class, number int, constructed bool) error {
	class, number = c.takeTag(class, number)
	return c.write(name, AppendTag(c.scratch[:0], Tag{Class: class, Number: number, Constructed: constructed}))
}

// writePrimitive writes a complete primitive element.
func (c *Context) writePrimitive(name string, class Class, number int, content []byte) error {
	if err := c.writeTag(name, class, number, false); err != nil {
		return err
	}
	if err := c.write(name, AppendLength(c.scratch[:0], len(content))); err != nil {
		return err
	}
	return c.write(name, content)
}
