package frame

import (
	"go.uber.org/zap"

	asn1runtime "github.com/wippyai/asn1-runtime"
	"github.com/wippyai/asn1-runtime/codec"
)

// BER reports the length of the BER element at the front of buf using
// DefaultLimits.
func BER(buf []byte) (int, error) {
	return completeBER(buf, DefaultLimits().MaxDepth)
}

// BER returns a BER detector bounded by l.
func (l Limits) BER() asn1runtime.CompleteFunc {
	depth := l.depth()
	return l.Apply(func(buf []byte) (int, error) {
		if l.declaredTooLarge(buf) {
			return 0, ErrTooLarge
		}
		return completeBER(buf, depth)
	})
}

// declaredTooLarge reports a definite-length header whose unit would exceed
// MaxUnitSize, so the content need not be buffered before rejecting it.
func (l Limits) declaredTooLarge(buf []byte) bool {
	if l.MaxUnitSize <= 0 {
		return false
	}
	_, tn, err := codec.ParseTag(buf)
	if err != nil {
		return false
	}
	n, ln, err := codec.ParseLength(buf[tn:])
	if err != nil || n == codec.LengthIndefinite || tn+ln+n <= l.MaxUnitSize {
		return false
	}
	Logger().Debug("unit rejected by declared length",
		zap.Int("declared", tn+ln+n),
		zap.Int("limit", l.MaxUnitSize),
	)
	return true
}

func completeBER(buf []byte, depth int) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	n, err := codec.ElementLength(buf, depth)
	switch err {
	case nil:
		return n, nil
	case codec.ErrShortBuffer:
		return 0, nil
	case codec.ErrTooDeep:
		return 0, ErrTooLarge
	}
	return 0, ErrNotFramed
}
