package codec

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/wippyai/asn1-runtime/errors"
)

func unhex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}

func encodeValue[T any](t *testing.T, fn Func[T], v *T) []byte {
	t.Helper()
	c := NewContext(Encode)
	defer c.Release()
	p := v
	if err := fn(c, &p, false, "value"); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	return bytes.Clone(c.Bytes())
}

func decodeValue[T any](t *testing.T, fn Func[T], data []byte) *T {
	t.Helper()
	c := NewContext(Decode)
	t.Cleanup(c.Release)
	c.SetInput(data)
	var p *T
	if err := fn(c, &p, false, "value"); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if p == nil {
		t.Fatal("decode returned absent value")
	}
	return p
}

func decodeFailure[T any](t *testing.T, fn Func[T], data []byte) *errors.Error {
	t.Helper()
	c := NewContext(Decode)
	t.Cleanup(c.Release)
	c.SetInput(data)
	var p *T
	if err := fn(c, &p, false, "value"); err == nil {
		t.Fatalf("expected decode of % x to fail", data)
	}
	return c.Failure()
}

func ptr[T any](v T) *T { return &v }
