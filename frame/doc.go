// Package frame detects complete protocol units at the front of a byte
// stream.
//
// Every detector is an asn1runtime.CompleteFunc:
//
//	n > 0             buf[:n] is one complete unit
//	n == 0, nil       more bytes are needed
//	ErrNotFramed      buf does not start with this framing
//	ErrTooLarge       the unit exceeds the configured Limits
//
// BER walks tag and length octets, descending into indefinite-length
// elements. HTTP reads the header block and then a Content-Length or
// chunked body. FixedWidth reads a decimal length field at a fixed offset,
// as the WAIS framing does. Auto probes HTTP first and falls back to BER.
//
// SplitFunc turns any detector into a bufio.SplitFunc.
package frame
