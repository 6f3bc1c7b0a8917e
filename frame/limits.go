package frame

import (
	"errors"

	"go.uber.org/zap"

	asn1runtime "github.com/wippyai/asn1-runtime"
)

var (
	ErrNotFramed = errors.New("frame: not this framing")
	ErrTooLarge  = errors.New("frame: unit exceeds size limit")
)

// Limits bounds the work a detector does on untrusted input.
type Limits struct {
	// MaxUnitSize rejects units longer than this many bytes. Zero disables the check.
	MaxUnitSize int
	// MaxDepth bounds nested indefinite-length BER elements.
	MaxDepth int
}

func DefaultLimits() Limits {
	return Limits{
		MaxUnitSize: 16 * 1024 * 1024,
		MaxDepth:    32,
	}
}

func (l Limits) depth() int {
	if l.MaxDepth <= 0 {
		return DefaultLimits().MaxDepth
	}
	return l.MaxDepth
}

// Apply wraps fn so that units, and buffers still waiting for the rest of
// a unit, longer than MaxUnitSize fail with ErrTooLarge.
func (l Limits) Apply(fn asn1runtime.CompleteFunc) asn1runtime.CompleteFunc {
	if l.MaxUnitSize <= 0 {
		return fn
	}
	return func(buf []byte) (int, error) {
		n, err := fn(buf)
		if err != nil {
			return 0, err
		}
		if n > l.MaxUnitSize || n == 0 && len(buf) > l.MaxUnitSize {
			Logger().Debug("unit rejected",
				zap.Int("size", max(n, len(buf))),
				zap.Int("limit", l.MaxUnitSize),
			)
			return 0, ErrTooLarge
		}
		return n, nil
	}
}
