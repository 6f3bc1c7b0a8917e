package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wippyai/asn1-runtime/config"
	"github.com/wippyai/asn1-runtime/frame"
	"github.com/wippyai/asn1-runtime/metrics"
)

func newTestSession(t *testing.T, framing string) *session {
	t.Helper()
	cfg := config.Default()
	cfg.Frame.Framing = framing
	return newSession(cfg, metrics.New(prometheus.NewRegistry()))
}

func TestSplit_BER(t *testing.T) {
	s := newTestSession(t, "ber")
	data := []byte{0x30, 0x03, 0x02, 0x01, 0x05, 0x05, 0x00}

	units, err := s.split(data)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if len(units) != 2 {
		t.Fatalf("got %d units, want 2", len(units))
	}
	if !units[0].ber || units[0].offset != 0 || len(units[0].data) != 5 {
		t.Errorf("unit 0 = %+v", units[0])
	}
	if units[1].offset != 5 || !strings.Contains(units[1].body, "[UNIVERSAL 5]") {
		t.Errorf("unit 1 = %+v", units[1])
	}
	if s.consumed != len(data) {
		t.Errorf("consumed = %d", s.consumed)
	}
}

func TestSplit_Auto(t *testing.T) {
	s := newTestSession(t, "auto")
	data := []byte("GET / HTTP/1.0\r\nHost: x\r\n\r\n")
	data = append(data, 0x02, 0x01, 0x07)

	units, err := s.split(data)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if len(units) != 2 {
		t.Fatalf("got %d units, want 2", len(units))
	}
	if units[0].ber || !strings.HasPrefix(units[0].body, "GET / HTTP/1.0\n") {
		t.Errorf("unit 0 = %+v", units[0])
	}
	if !units[1].ber {
		t.Errorf("unit 1 should be BER: %+v", units[1])
	}
}

func TestSplit_Truncated(t *testing.T) {
	s := newTestSession(t, "ber")
	units, err := s.split([]byte{0x05, 0x00, 0x04, 0x0A, 0x01})
	if len(units) != 1 {
		t.Errorf("got %d units, want 1", len(units))
	}
	if err == nil {
		t.Fatal("expected error for trailing partial unit")
	}
	if s.consumed != 2 {
		t.Errorf("consumed = %d, want 2", s.consumed)
	}
}

func TestSplit_TooLarge(t *testing.T) {
	s := newTestSession(t, "ber")
	s.cfg.Frame.MaxUnitSize = 4
	s.complete = s.cfg.Limits().BER()

	_, err := s.split([]byte{0x04, 0x05, 1, 2, 3, 4, 5})
	if err != frame.ErrTooLarge {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}
}

func TestRun(t *testing.T) {
	s := newTestSession(t, "ber")
	var out bytes.Buffer
	if err := run(&out, "test", []byte{0x01, 0x01, 0xFF, 0x05, 0x00}, s); err != nil {
		t.Fatalf("run: %v", err)
	}
	got := out.String()
	for _, want := range []string{"Input: test", "#0 @0 ber", "#1 @3 ber", "2 units"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestClip(t *testing.T) {
	if got := clip("abcdefgh", 6); got != "abc..." {
		t.Errorf("clip = %q", got)
	}
	if got := clip("abc", 0); got != "abc" {
		t.Errorf("clip = %q", got)
	}
}
