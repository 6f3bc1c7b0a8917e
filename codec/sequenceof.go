package codec

import (
	"github.com/wippyai/asn1-runtime/arena"
)

// SequenceOf codes a SEQUENCE OF elem. A nil *p is absent; a pointer to
// an empty slice is an empty sequence.
func SequenceOf[T any](elem Func[T]) Func[[]*T] {
	return repeated(elem, TagSequence)
}

// SetOf codes a SET OF elem. Elements keep their wire order.
func SetOf[T any](elem Func[T]) Func[[]*T] {
	return repeated(elem, TagSet)
}

func repeated[T any](elem Func[T], number int) Func[[]*T] {
	return func(c *Context, p **[]*T, optional bool, name string) error {
		if err := c.check(); err != nil {
			return err
		}
		if c.dir != Decode {
			if *p == nil {
				c.clearImplicit()
				return c.absentValue(optional, name)
			}
			if _, err := c.beginFrame(frameList, ClassUniversal, number, optional, name); err != nil {
				return err
			}
			for _, e := range **p {
				if e == nil {
					if c.dir == Print {
						continue
					}
					return c.missing(name)
				}
				if err := elem(c, &e, false, name); err != nil {
					return err
				}
			}
			return c.endFrame()
		}

		ok, err := c.beginFrame(frameList, ClassUniversal, number, optional, name)
		if err != nil || !ok {
			*p = nil
			return err
		}
		var items []*T
		for c.more() {
			var e *T
			if err := elem(c, &e, true, name); err != nil {
				return err
			}
			if e == nil {
				break
			}
			items = append(items, e)
		}
		list := arena.MakeSlice[*T](c.Arena(), len(items))
		copy(list, items)
		*p = arena.Make[[]*T](c.Arena())
		**p = list
		return c.endFrame()
	}
}
