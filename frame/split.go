package frame

import (
	"bufio"
	"io"

	asn1runtime "github.com/wippyai/asn1-runtime"
)

// SplitFunc adapts a detector to bufio.Scanner. The scanner's buffer must
// be large enough for the biggest unit; see bufio.Scanner.Buffer.
func SplitFunc(fn asn1runtime.CompleteFunc) bufio.SplitFunc {
	return func(data []byte, atEOF bool) (int, []byte, error) {
		if len(data) == 0 {
			return 0, nil, nil
		}
		n, err := fn(data)
		if err != nil {
			return 0, nil, err
		}
		if n > 0 {
			return n, data[:n], nil
		}
		if atEOF {
			return 0, nil, io.ErrUnexpectedEOF
		}
		return 0, nil, nil
	}
}
