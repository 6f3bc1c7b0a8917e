package codec

import (
	"fmt"

	"github.com/wippyai/asn1-runtime/arena"
	"github.com/wippyai/asn1-runtime/errors"
)

// TagMode says how a CHOICE alternative is tagged.
type TagMode uint8

const (
	// TagUntagged alternatives carry their own tag; their codec is tried
	// as optional on decode.
	TagUntagged TagMode = iota
	// TagImplicit alternatives replace the tag of their codec.
	TagImplicit
	// TagExplicit alternatives wrap their codec in a constructed tag.
	TagExplicit
)

// Arm is one alternative of a CHOICE over the sum type V.
type Arm[V any] struct {
	Mode   TagMode
	Class  Class
	Number int
	// Which is the discriminator reported for values of this alternative.
	Which int
	Name  string
	Codec ArmCodec[V]
}

// ArmCodec binds a Func[T] to one variant of V.
type ArmCodec[V any] struct {
	code func(c *Context, v *V, optional bool, name string) (bool, error)
	owns func(v V) bool
}

// Alt builds the codec of an alternative from a value codec and the two
// conversions between *T and the sum type V. unwrap reports whether a V
// holds this alternative.
func Alt[V, T any](fn Func[T], wrap func(*T) V, unwrap func(V) (*T, bool)) ArmCodec[V] {
	return ArmCodec[V]{
		code: func(c *Context, v *V, optional bool, name string) (bool, error) {
			var p *T
			if c.dir != Decode {
				p, _ = unwrap(*v)
			}
			if err := fn(c, &p, optional, name); err != nil {
				return false, err
			}
			if p == nil {
				return false, nil
			}
			if c.dir == Decode {
				*v = wrap(p)
			}
			return true, nil
		},
		owns: func(v V) bool {
			_, ok := unwrap(v)
			return ok
		},
	}
}

func isZero[V any](v V) bool {
	return any(v) == nil
}

func (a *Arm[V]) label(name string) string {
	if a.Name != "" {
		return a.Name
	}
	return name
}

// Choice codes a CHOICE held in *p. On decode the first alternative in
// table order that matches the next tag wins and no match is malformed
// unless the choice is optional. On encode the alternative owning *p is
// written. A CHOICE cannot be implicitly tagged.
func Choice[V any](c *Context, arms []Arm[V], p *V, optional bool, name string) error {
	if err := c.check(); err != nil {
		return err
	}
	if c.implicit.set {
		c.clearImplicit()
		return c.other(name, "implicit tag applied to a CHOICE")
	}
	if c.dir == Decode {
		var zero V
		*p = zero
		if !c.more() {
			return c.absent(optional, name)
		}
	} else if isZero(*p) {
		return c.absentValue(optional, name)
	}
	pushed := c.pushPath(name)
	defer c.popPath(pushed)

	if c.dir == Decode {
		return decodeChoice(c, arms, p, optional, name)
	}
	for i := range arms {
		arm := &arms[i]
		if arm.Codec.owns(*p) {
			_, err := codeArm(c, arm, p, false, arm.label(name))
			return err
		}
	}
	if c.dir == Print {
		c.printLine(name, fmt.Sprintf("<%T>", *p))
		return nil
	}
	return c.other("", "value %T matches no alternative", *p)
}

func decodeChoice[V any](c *Context, arms []Arm[V], p *V, optional bool, name string) error {
	t, _, err := ParseTag(c.in.window())
	if err != nil {
		return c.malformed("", "bad identifier: %v", err)
	}
	for i := range arms {
		arm := &arms[i]
		switch arm.Mode {
		case TagUntagged:
			ok, err := codeArm(c, arm, p, true, arm.label(name))
			if err != nil || ok {
				return err
			}
		case TagImplicit, TagExplicit:
			if t.Class == arm.Class && t.Number == arm.Number {
				_, err := codeArm(c, arm, p, false, arm.label(name))
				return err
			}
		}
	}
	if optional {
		return nil
	}
	return c.fail(unknownAlternative(c, t))
}

func unknownAlternative(c *Context, t Tag) *errors.Error {
	return errors.UnknownAlternative(c.phase(), c.pathWith(""), c.Offset(), t.String())
}

// codeArm runs one alternative with its tagging applied.
func codeArm[V any](c *Context, arm *Arm[V], p *V, optional bool, name string) (bool, error) {
	switch arm.Mode {
	case TagImplicit:
		c.setImplicit(arm.Class, arm.Number)
		ok, err := arm.Codec.code(c, p, optional, name)
		c.clearImplicit()
		return ok, err
	case TagExplicit:
		if _, err := c.beginFrame(frameWrapper, arm.Class, arm.Number, optional, name); err != nil {
			return false, err
		}
		ok, err := arm.Codec.code(c, p, false, name)
		if err != nil {
			return false, err
		}
		return ok, c.endFrame()
	}
	return arm.Codec.code(c, p, optional, name)
}

// ChoiceTable is an immutable alternative table for a sum type V.
type ChoiceTable[V any] struct {
	arms []Arm[V]
}

// NewChoiceTable copies arms into a table. Order is decode priority.
func NewChoiceTable[V any](arms ...Arm[V]) *ChoiceTable[V] {
	return &ChoiceTable[V]{arms: append([]Arm[V](nil), arms...)}
}

// Code runs Choice over the table.
func (t *ChoiceTable[V]) Code(c *Context, p *V, optional bool, name string) error {
	return Choice(c, t.arms, p, optional, name)
}

// Which returns the discriminator of the alternative holding v.
func (t *ChoiceTable[V]) Which(v V) (int, bool) {
	if isZero(v) {
		return 0, false
	}
	for i := range t.arms {
		if t.arms[i].Codec.owns(v) {
			return t.arms[i].Which, true
		}
	}
	return 0, false
}

// Func adapts the table to the common calling convention so a choice can
// be repeated or explicitly tagged.
func (t *ChoiceTable[V]) Func() Func[V] {
	return func(c *Context, p **V, optional bool, name string) error {
		if err := c.check(); err != nil {
			return err
		}
		if c.dir != Decode {
			if *p == nil {
				c.clearImplicit()
				return c.absentValue(optional, name)
			}
			return Choice(c, t.arms, *p, optional, name)
		}
		var v V
		if err := Choice(c, t.arms, &v, optional, name); err != nil {
			*p = nil
			return err
		}
		if isZero(v) {
			*p = nil
			return nil
		}
		slot := arena.Make[V](c.Arena())
		*slot = v
		*p = slot
		return nil
	}
}
