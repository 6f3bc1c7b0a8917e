package frame

import (
	asn1runtime "github.com/wippyai/asn1-runtime"
)

// FixedWidth frames units that carry their body length as a decimal
// field of Width digits at Offset within a header of HeaderLen bytes.
// Leading spaces in the field are allowed.
type FixedWidth struct {
	Offset    int
	Width     int
	HeaderLen int
}

// WAIS is the WAIS header: a 10-digit length at offset 0 and 25 header bytes.
var WAIS = FixedWidth{Offset: 0, Width: 10, HeaderLen: 25}

// Complete implements asn1runtime.CompleteFunc.
func (f FixedWidth) Complete(buf []byte) (int, error) {
	if len(buf) < f.HeaderLen || len(buf) < f.Offset+f.Width {
		return 0, nil
	}
	body := 0
	digits := 0
	for _, b := range buf[f.Offset : f.Offset+f.Width] {
		switch {
		case b == ' ' && digits == 0:
		case b >= '0' && b <= '9':
			body = body*10 + int(b-'0')
			digits++
		default:
			return 0, ErrNotFramed
		}
	}
	if digits == 0 {
		return 0, ErrNotFramed
	}
	total := f.HeaderLen + body
	if len(buf) < total {
		return 0, nil
	}
	return total, nil
}

// Func returns f.Complete bounded by l.
func (f FixedWidth) Func(l Limits) asn1runtime.CompleteFunc {
	return l.Apply(f.Complete)
}
