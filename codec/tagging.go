package codec

// Implicit replaces the tag of inner with (class, number). One tag
// appears on the wire.
func Implicit[T any](class Class, number int, inner Func[T]) Func[T] {
	return func(c *Context, p **T, optional bool, name string) error {
		return ImplicitTag(c, inner, p, class, number, optional, name)
	}
}

// ImplicitTag calls inner with its next tag replaced by (class, number).
func ImplicitTag[T any](c *Context, inner Func[T], p **T, class Class, number int, optional bool, name string) error {
	if err := c.check(); err != nil {
		return err
	}
	c.setImplicit(class, number)
	err := inner(c, p, optional, name)
	c.clearImplicit()
	return err
}

// Explicit wraps inner in a constructed element tagged (class, number).
// Optionality applies to the outer tag; inner is then required.
func Explicit[T any](class Class, number int, inner Func[T]) Func[T] {
	return func(c *Context, p **T, optional bool, name string) error {
		return ExplicitTag(c, inner, p, class, number, optional, name)
	}
}

// ExplicitTag codes inner inside a constructed (class, number) wrapper.
func ExplicitTag[T any](c *Context, inner Func[T], p **T, class Class, number int, optional bool, name string) error {
	if err := c.check(); err != nil {
		return err
	}
	if c.dir != Decode && *p == nil {
		c.clearImplicit()
		return c.absentValue(optional, name)
	}
	ok, err := c.beginFrame(frameWrapper, class, number, optional, name)
	if err != nil {
		return err
	}
	if !ok {
		*p = nil
		return nil
	}
	if err := inner(c, p, false, name); err != nil {
		return err
	}
	return c.endFrame()
}
