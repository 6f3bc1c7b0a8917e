package codec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/asn1-runtime/errors"
)

func TestSequence_RoundTrip(t *testing.T) {
	want := unhex(t, samplePersonWire)
	got := encodeValue(t, codePerson, samplePerson())
	if !bytes.Equal(got, want) {
		t.Fatalf("encode = % X\nwant     % X", got, want)
	}
	v := decodeValue(t, codePerson, got)
	if diff := cmp.Diff(samplePerson(), v); diff != "" {
		t.Errorf("decode (-want +got):\n%s", diff)
	}
}

func TestSequence_OptionalFieldsAbsent(t *testing.T) {
	p := &person{Name: ptr("Bo")}
	got := encodeValue(t, codePerson, p)
	want := unhex(t, "30 04 1A 02 42 6F")
	if !bytes.Equal(got, want) {
		t.Fatalf("encode = % X, want % X", got, want)
	}
	v := decodeValue(t, codePerson, got)
	if v.Age != nil || v.Tags != nil || v.Alive != nil {
		t.Errorf("absent fields decoded as present: %+v", v)
	}
}

func TestSequence_EmptySequenceOf(t *testing.T) {
	p := &person{Name: ptr("Bo"), Tags: &[]*string{}}
	got := encodeValue(t, codePerson, p)
	want := unhex(t, "30 08 1A 02 42 6F A1 02 30 00")
	if !bytes.Equal(got, want) {
		t.Fatalf("encode = % X, want % X", got, want)
	}
	v := decodeValue(t, codePerson, got)
	if v.Tags == nil || len(*v.Tags) != 0 {
		t.Errorf("empty repetition decoded as %v", v.Tags)
	}
}

func TestSequence_LongContent(t *testing.T) {
	p := &person{Name: ptr(strings.Repeat("x", 300))}
	got := encodeValue(t, codePerson, p)
	if !bytes.Equal(got[:4], []byte{0x30, 0x82, 0x01, 0x30}) {
		t.Fatalf("outer header = % X", got[:4])
	}
	if !bytes.Equal(got[4:8], []byte{0x1A, 0x82, 0x01, 0x2C}) {
		t.Fatalf("name header = % X", got[4:8])
	}
	v := decodeValue(t, codePerson, got)
	if len(*v.Name) != 300 {
		t.Errorf("name length %d", len(*v.Name))
	}
}

func TestSequence_Indefinite(t *testing.T) {
	wire := unhex(t, "30 80 1A 02 42 6F A1 80 30 80 1A 01 61 00 00 00 00 00 00")
	v := decodeValue(t, codePerson, wire)
	if *v.Name != "Bo" || len(*v.Tags) != 1 || *(*v.Tags)[0] != "a" {
		t.Errorf("decoded %+v", v)
	}
}

func TestSequence_MissingRequiredField(t *testing.T) {
	e := decodeFailure(t, codePerson, unhex(t, "30 03 80 01 1E"))
	if e.Kind != errors.KindFieldMissing {
		t.Fatalf("kind %s", e.Kind)
	}
	if diff := cmp.Diff([]string{"value", "name"}, e.Path); diff != "" {
		t.Errorf("path (-want +got):\n%s", diff)
	}

	c := NewContext(Encode)
	defer c.Release()
	p := &person{}
	if err := codePerson(c, &p, false, "person"); err == nil {
		t.Fatal("encode without name succeeded")
	}
	if f := c.Failure(); f.Kind != errors.KindFieldMissing || f.Field != "name" || f.Phase != errors.PhaseEncode {
		t.Errorf("failure = %v", f)
	}
}

func TestSequence_TrailingBytes(t *testing.T) {
	e := decodeFailure(t, codePerson, unhex(t, "30 07 1A 02 42 6F 05 00 00"))
	if e.Kind != errors.KindMalformed {
		t.Fatalf("kind %s", e.Kind)
	}
	if !strings.Contains(e.Detail, "unread") {
		t.Errorf("detail %q", e.Detail)
	}
}

func TestSequence_Truncated(t *testing.T) {
	e := decodeFailure(t, codePerson, unhex(t, "30 10 1A 02 42 6F"))
	if e.Kind != errors.KindMalformed || e.Value != 16 {
		t.Errorf("got %s value %v", e.Kind, e.Value)
	}
}

func TestSequence_InnerLengthBounded(t *testing.T) {
	// The name claims 5 octets but its sequence holds only 4 after the header.
	e := decodeFailure(t, codePerson, unhex(t, "30 04 1A 05 42 6F 01 01 FF"))
	if e.Kind != errors.KindMalformed {
		t.Fatalf("kind %s", e.Kind)
	}
	if diff := cmp.Diff([]string{"value", "name"}, e.Path); diff != "" {
		t.Errorf("path (-want +got):\n%s", diff)
	}
}

func TestSequence_MissingEOC(t *testing.T) {
	e := decodeFailure(t, codePerson, unhex(t, "30 80 1A 02 42 6F"))
	if e.Kind != errors.KindMalformed {
		t.Fatalf("kind %s", e.Kind)
	}
}

func TestSequence_PrimitiveWhereConstructed(t *testing.T) {
	if e := decodeFailure(t, codePerson, unhex(t, "10 00")); e.Kind != errors.KindMalformed {
		t.Fatalf("kind %s", e.Kind)
	}
}

func TestSequence_MaxDepth(t *testing.T) {
	c := NewContext(Decode, WithMaxDepth(2))
	defer c.Release()
	c.SetInput(unhex(t, "30 06 30 04 30 02 30 00"))
	var err error
	for i := 0; i < 3; i++ {
		if _, err = ConstructedBegin(c, ClassUniversal, TagSequence, false, "s"); err != nil {
			break
		}
	}
	if err == nil {
		t.Fatal("nesting past the limit accepted")
	}
	if c.Failure().Kind != errors.KindMalformed {
		t.Errorf("kind %s", c.Failure().Kind)
	}
}

func TestConstructed_Generic(t *testing.T) {
	c := NewContext(Encode)
	defer c.Release()
	if _, err := ConstructedBegin(c, ClassApplication, 20, false, "init"); err != nil {
		t.Fatal(err)
	}
	n := int64(3)
	p := &n
	if err := Integer(c, &p, false, "n"); err != nil {
		t.Fatal(err)
	}
	if err := ConstructedEnd(c); err != nil {
		t.Fatal(err)
	}
	want := unhex(t, "74 03 02 01 03")
	if !bytes.Equal(c.Bytes(), want) {
		t.Fatalf("encode = % X, want % X", c.Bytes(), want)
	}

	d := NewContext(Decode)
	defer d.Release()
	d.SetInput(want)
	ok, err := ConstructedBegin(d, ClassApplication, 20, false, "init")
	if !ok || err != nil {
		t.Fatalf("begin: %v %v", ok, err)
	}
	if !ConstructedMore(d) {
		t.Fatal("expected content")
	}
	var got *int64
	Integer(d, &got, false, "n")
	if ConstructedMore(d) {
		t.Error("content left after last member")
	}
	if err := ConstructedEnd(d); err != nil || *got != 3 {
		t.Fatalf("end: %v, value %d", err, *got)
	}
}

func TestConstructedEnd_WithoutBegin(t *testing.T) {
	c := NewContext(Decode)
	defer c.Release()
	if err := ConstructedEnd(c); err == nil || c.Failure().Kind != errors.KindOther {
		t.Fatalf("err = %v", err)
	}
}

func TestSet(t *testing.T) {
	type pair struct{ A, B *int64 }
	code := func(c *Context, p **pair, optional bool, name string) error {
		ok, err := SetBegin(c, p, optional, name)
		if err != nil || !ok {
			return err
		}
		if err := Integer(c, &(*p).A, false, "a"); err != nil {
			return err
		}
		if err := ImplicitTag(c, Integer, &(*p).B, ClassContext, 1, false, "b"); err != nil {
			return err
		}
		return SetEnd(c)
	}
	got := encodeValue(t, code, &pair{A: ptr(int64(1)), B: ptr(int64(2))})
	want := unhex(t, "31 06 02 01 01 81 01 02")
	if !bytes.Equal(got, want) {
		t.Fatalf("encode = % X, want % X", got, want)
	}
	v := decodeValue(t, code, got)
	if *v.A != 1 || *v.B != 2 {
		t.Errorf("decode = %d %d", *v.A, *v.B)
	}
}

func TestSetOf(t *testing.T) {
	ints := SetOf(Integer)
	list := []*int64{ptr(int64(1)), ptr(int64(-1))}
	got := encodeValue(t, ints, &list)
	want := unhex(t, "31 06 02 01 01 02 01 FF")
	if !bytes.Equal(got, want) {
		t.Fatalf("encode = % X, want % X", got, want)
	}
	v := decodeValue(t, ints, got)
	if len(*v) != 2 || *(*v)[1] != -1 {
		t.Errorf("decode = %v", *v)
	}
}

func TestSequenceOf_StopsAtForeignTag(t *testing.T) {
	ints := SequenceOf(Integer)
	e := decodeFailure(t, ints, unhex(t, "30 06 02 01 01 01 01 FF"))
	if e.Kind != errors.KindMalformed {
		t.Fatalf("kind %s", e.Kind)
	}
}

func TestSequenceOf_NilElement(t *testing.T) {
	c := NewContext(Encode)
	defer c.Release()
	ints := SequenceOf(Integer)
	list := &[]*int64{nil}
	if err := ints(c, &list, false, "ints"); err == nil || c.Failure().Kind != errors.KindFieldMissing {
		t.Fatalf("err = %v", err)
	}
}
