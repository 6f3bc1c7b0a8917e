package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/wippyai/asn1-runtime/arena"
	"github.com/wippyai/asn1-runtime/codec"
	"github.com/wippyai/asn1-runtime/errors"
	"github.com/wippyai/asn1-runtime/frame"
)

func TestCodecErrors(t *testing.T) {
	r := prometheus.NewRegistry()
	m := New(r)

	c := codec.NewContext(codec.Decode, codec.WithObserver(m))
	defer c.Release()
	c.SetInput([]byte{0x01, 0x01, 0xFF})
	var n *int64
	codec.Integer(c, &n, false, "n")
	m.CodecError(errors.PhaseEncode, errors.KindSpaceExhausted)

	expected := `
# HELP asn1rt_codec_errors_total Total number of failed codec runs.
# TYPE asn1rt_codec_errors_total counter
asn1rt_codec_errors_total{kind="field_missing",phase="decode"} 1
asn1rt_codec_errors_total{kind="space_exhausted",phase="encode"} 1
`
	if err := testutil.CollectAndCompare(r, strings.NewReader(expected), "asn1rt_codec_errors_total"); err != nil {
		t.Fatal(err)
	}
}

func TestFraming(t *testing.T) {
	r := prometheus.NewRegistry()
	m := New(r)
	fn := m.Framing("ber", frame.Limits{MaxUnitSize: 4}.BER())

	fn([]byte{0x05, 0x00})
	fn([]byte{0x02, 0x01, 0x01})
	fn([]byte{0x02, 0x01})
	fn([]byte{0x30, 0xFF})
	fn([]byte{0x04, 0x05, 1, 2, 3, 4, 5})

	if got := testutil.ToFloat64(m.units.WithLabelValues("ber")); got != 2 {
		t.Errorf("units = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.rejects.WithLabelValues("ber", "not_framed")); got != 1 {
		t.Errorf("not_framed = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.rejects.WithLabelValues("ber", "too_large")); got != 1 {
		t.Errorf("too_large = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(r, "asn1rt_frame_unit_bytes"); got != 1 {
		t.Errorf("histogram series = %d", got)
	}
}

func TestArenaGauges(t *testing.T) {
	r := prometheus.NewRegistry()
	m := New(r)

	a := arena.New(arena.WithBlockSize(1024))
	defer a.Destroy()
	a.Alloc(10)
	m.ObserveArena(a)

	if got := testutil.ToFloat64(m.arenaBytes); got != 1024 {
		t.Errorf("arena bytes = %v, want 1024", got)
	}
	if got := testutil.CollectAndCount(r, "asn1rt_arenas_outstanding"); got != 1 {
		t.Errorf("outstanding series = %d", got)
	}
}
