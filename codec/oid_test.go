package codec

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/asn1-runtime/errors"
)

func TestOID_Encoding(t *testing.T) {
	tests := []struct {
		oid  string
		wire string
	}{
		{"1.2.840.10003.5.10", "06 07 2A 86 48 CE 13 05 0A"},
		{"2.1.1", "06 02 51 01"},
		{"0.0", "06 01 00"},
		{"2.999.3", "06 03 88 37 03"},
	}
	for _, tt := range tests {
		t.Run(tt.oid, func(t *testing.T) {
			oid, err := ParseOID(tt.oid)
			if err != nil {
				t.Fatal(err)
			}
			wire := unhex(t, tt.wire)
			if got := encodeValue(t, ObjectIdentifier, &oid); !bytes.Equal(got, wire) {
				t.Fatalf("encode = % X, want % X", got, wire)
			}
			v := decodeValue(t, ObjectIdentifier, wire)
			if !v.Equal(oid) || v.String() != tt.oid {
				t.Errorf("decode = %s", v)
			}
		})
	}
}

func TestParseOID_Invalid(t *testing.T) {
	for _, s := range []string{"", "1", "3.1", "1.40", "1..2", "1.2.-3", "a.b"} {
		if _, err := ParseOID(s); err == nil {
			t.Errorf("ParseOID(%q) accepted", s)
		}
	}
}

func TestOIDFromTerminated(t *testing.T) {
	got := OIDFromTerminated([]int{1, 2, 3, 4, -1, 9})
	if diff := cmp.Diff(OID{1, 2, 3, 4}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if got := OIDFromTerminated([]int{1, 2}); got.String() != "1.2" {
		t.Errorf("unterminated = %s", got)
	}
}

func TestOID_Malformed(t *testing.T) {
	for _, wire := range []string{"06 00", "06 02 2A 86", "06 06 2A FF FF FF FF 7F"} {
		if e := decodeFailure(t, ObjectIdentifier, unhex(t, wire)); e.Kind != errors.KindMalformed {
			t.Errorf("%s: kind %s", wire, e.Kind)
		}
	}
}

func TestOID_EncodeInvalid(t *testing.T) {
	c := NewContext(Encode)
	defer c.Release()
	p := &OID{1}
	if err := ObjectIdentifier(c, &p, false, "oid"); err == nil || c.Failure().Kind != errors.KindOther {
		t.Fatalf("single-arc OID: err = %v", err)
	}
}
