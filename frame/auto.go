package frame

import (
	asn1runtime "github.com/wippyai/asn1-runtime"
)

// Auto detects HTTP messages and falls back to BER for everything else.
func Auto(buf []byte) (int, error) {
	return probe(buf, HTTP, BER)
}

// Auto returns the HTTP-then-BER probe bounded by l.
func (l Limits) Auto() asn1runtime.CompleteFunc {
	httpFn, berFn := HTTP, l.berUnbounded()
	return l.Apply(func(buf []byte) (int, error) {
		return probe(buf, httpFn, berFn)
	})
}

func (l Limits) berUnbounded() asn1runtime.CompleteFunc {
	depth := l.depth()
	return func(buf []byte) (int, error) {
		if l.declaredTooLarge(buf) {
			return 0, ErrTooLarge
		}
		return completeBER(buf, depth)
	}
}

func probe(buf []byte, httpFn, berFn asn1runtime.CompleteFunc) (int, error) {
	isHTTP, undecided := sniffHTTP(buf)
	switch {
	case isHTTP:
		return httpFn(buf)
	case undecided && len(buf) > 0:
		// still a possible HTTP line: only a complete BER unit counts
		if n, err := berFn(buf); n > 0 || err != nil {
			return n, err
		}
		return 0, nil
	}
	return berFn(buf)
}

// ByName returns the detector called name: auto, ber, http or wais.
func (l Limits) ByName(name string) (asn1runtime.CompleteFunc, bool) {
	switch name {
	case "", "auto":
		return l.Auto(), true
	case "ber":
		return l.BER(), true
	case "http":
		return l.HTTP(), true
	case "wais":
		return WAIS.Func(l), true
	}
	return nil, false
}
