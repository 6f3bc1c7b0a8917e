package codec

// person is a small schema shared by the constructed, print and context tests:
//
//	Person ::= SEQUENCE {
//	    name  VisibleString,
//	    age   [0] IMPLICIT INTEGER OPTIONAL,
//	    tags  [1] EXPLICIT SEQUENCE OF VisibleString OPTIONAL,
//	    alive BOOLEAN OPTIONAL }
type person struct {
	Name  *string
	Age   *int64
	Tags  *[]*string
	Alive *bool
}

var tagList = SequenceOf(VisibleString)

func codePerson(c *Context, p **person, optional bool, name string) error {
	ok, err := SequenceBegin(c, p, optional, name)
	if err != nil || !ok {
		return err
	}
	v := *p
	if err := VisibleString(c, &v.Name, false, "name"); err != nil {
		return err
	}
	if err := ImplicitTag(c, Integer, &v.Age, ClassContext, 0, true, "age"); err != nil {
		return err
	}
	if err := ExplicitTag(c, tagList, &v.Tags, ClassContext, 1, true, "tags"); err != nil {
		return err
	}
	if err := Boolean(c, &v.Alive, true, "alive"); err != nil {
		return err
	}
	return SequenceEnd(c)
}

func samplePerson() *person {
	a, b := "a", "b"
	return &person{
		Name:  ptr("Ann"),
		Age:   ptr(int64(30)),
		Tags:  &[]*string{&a, &b},
		Alive: ptr(true),
	}
}

// samplePersonWire is samplePerson encoded.
const samplePersonWire = "30 15 1A 03 41 6E 6E 80 01 1E A1 08 30 06 1A 01 61 1A 01 62 01 01 FF"
