package codec

import (
	"bytes"
	"testing"

	"github.com/wippyai/asn1-runtime/errors"
)

var sutrsOID = MustParseOID("1.2.840.10003.5.101")

func TestExternal_KnownPayload(t *testing.T) {
	oid := sutrsOID
	ext := &External{
		DirectReference: &oid,
		Encoding:        &SingleASN1Type{Value: ptr("record text")},
	}
	got := encodeValue(t, ExternalCodec, ext)
	want := append(unhex(t, "28 18 06 07 2A 86 48 CE 13 05 65 A0 0D 1B 0B"), "record text"...)
	if !bytes.Equal(got, want) {
		t.Fatalf("encode = % X\nwant     % X", got, want)
	}

	v := decodeValue(t, ExternalCodec, got)
	if v.DirectReference == nil || !v.DirectReference.Equal(sutrsOID) {
		t.Fatalf("direct reference = %v", v.DirectReference)
	}
	single, ok := v.Encoding.(*SingleASN1Type)
	if !ok {
		t.Fatalf("encoding = %T", v.Encoding)
	}
	if !bytes.Equal(single.Raw, want[13:]) {
		t.Errorf("raw = % X", single.Raw)
	}
	text, ok := single.Value.(*string)
	if !ok || *text != "record text" {
		t.Errorf("value = %#v", single.Value)
	}
	if which, _ := ExternalWhich(v.Encoding); which != 0 {
		t.Errorf("which = %d", which)
	}
}

func TestExternal_OctetAligned(t *testing.T) {
	data := OctetAligned("abc")
	ext := &External{IndirectReference: ptr(int64(3)), Encoding: &data}
	got := encodeValue(t, ExternalCodec, ext)
	want := unhex(t, "28 08 02 01 03 81 03 61 62 63")
	if !bytes.Equal(got, want) {
		t.Fatalf("encode = % X, want % X", got, want)
	}
	v := decodeValue(t, ExternalCodec, got)
	o, ok := v.Encoding.(*OctetAligned)
	if !ok || string(*o) != "abc" || *v.IndirectReference != 3 {
		t.Errorf("decoded %+v", v)
	}
	if which, _ := ExternalWhich(v.Encoding); which != 1 {
		t.Errorf("which = %d", which)
	}
}

func TestExternal_Arbitrary(t *testing.T) {
	bits := Arbitrary{Bytes: []byte{0xC0}, BitLength: 2}
	ext := &External{Encoding: &bits}
	got := encodeValue(t, ExternalCodec, ext)
	want := unhex(t, "28 04 82 02 06 C0")
	if !bytes.Equal(got, want) {
		t.Fatalf("encode = % X, want % X", got, want)
	}
	v := decodeValue(t, ExternalCodec, got)
	if a, ok := v.Encoding.(*Arbitrary); !ok || BitString(*a).String() != "11" {
		t.Errorf("decoded %+v", v.Encoding)
	}
}

func TestExternal_UnknownReferenceKeepsRaw(t *testing.T) {
	wire := unhex(t, "28 0A 06 02 2A 03 A0 04 02 02 01 00")
	v := decodeValue(t, ExternalCodec, wire)
	single := v.Encoding.(*SingleASN1Type)
	if single.Value != nil || !bytes.Equal(single.Raw, unhex(t, "02 02 01 00")) {
		t.Errorf("single = %+v", single)
	}
	if got := encodeValue(t, ExternalCodec, v); !bytes.Equal(got, wire) {
		t.Errorf("re-encode = % X", got)
	}
}

func TestExternal_PayloadFailure(t *testing.T) {
	wire := unhex(t, "28 0E 06 07 2A 86 48 CE 13 05 65 A0 03 02 01 05")
	e := decodeFailure(t, ExternalCodec, wire)
	if e.Kind != errors.KindFieldMissing || e.Field != "SUTRS" {
		t.Errorf("failure = %v", e)
	}
}

func TestExternal_CallerTag(t *testing.T) {
	oid := MustParseOID("1.2.3")
	ext := &External{DirectReference: &oid, Encoding: &SingleASN1Type{Raw: []byte{0x05, 0x00}}}
	fn := Implicit(ClassContext, 4, ExternalCodec)
	got := encodeValue(t, fn, ext)
	if got[0] != 0xA4 {
		t.Fatalf("tag = %#x, want 0xA4", got[0])
	}
	v := decodeValue(t, fn, got)
	if !v.DirectReference.Equal(oid) {
		t.Errorf("decoded %+v", v)
	}
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	if r != DefaultRegistry() {
		t.Error("DefaultRegistry not shared")
	}
	if name := r.Name(MustParseOID("1.2.840.10003.5.10")); name != "USmarc" {
		t.Errorf("USmarc name = %q", name)
	}
	if e, ok := r.Find(GroupRecordSyntax, "sutrs"); !ok || !e.OID.Equal(sutrsOID) || e.Codec == nil {
		t.Errorf("Find sutrs = %+v, %v", e, ok)
	}
	if e, ok := r.Find(GroupDiagnosticSet, "bib-1"); !ok || e.OID.String() != "1.2.840.10003.4.1" {
		t.Errorf("Find diagset bib-1 = %+v", e)
	}
	if got := r.Describe(OID{1, 2, 3}); got != "1.2.3" {
		t.Errorf("Describe unknown = %q", got)
	}

	custom := NewRegistry(
		Entry{OID: OID{1, 2, 3}, Name: "first"},
		Entry{OID: OID{1, 2, 3}, Name: "second"},
	)
	if custom.Name(OID{1, 2, 3}) != "second" || len(custom.Entries()) != 1 {
		t.Errorf("duplicate entry handling: %+v", custom.Entries())
	}
	var nilReg *Registry
	if _, ok := nilReg.Lookup(OID{1, 2}); ok {
		t.Error("nil registry found an entry")
	}
}
