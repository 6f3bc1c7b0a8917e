package frame

import (
	"bytes"
	"strconv"

	asn1runtime "github.com/wippyai/asn1-runtime"
)

var httpPrefixes = [][]byte{
	[]byte("HTTP/"),
	[]byte("GET "),
	[]byte("POST "),
	[]byte("PUT "),
	[]byte("HEAD "),
	[]byte("DELETE "),
	[]byte("OPTIONS "),
}

var (
	headerContentLength    = []byte("content-length")
	headerTransferEncoding = []byte("transfer-encoding")
	tokenChunked           = []byte("chunked")
)

// sniffHTTP reports whether buf starts like a request or status line.
// undecided is true while buf is still a prefix of some candidate.
func sniffHTTP(buf []byte) (isHTTP, undecided bool) {
	for _, p := range httpPrefixes {
		if len(buf) >= len(p) {
			if bytes.Equal(buf[:len(p)], p) {
				return true, false
			}
		} else if bytes.Equal(buf, p[:len(buf)]) {
			undecided = true
		}
	}
	return false, undecided
}

// HTTP reports the length of the HTTP/1.x message at the front of buf.
// The body is sized by Content-Length or by walking chunked encoding;
// a message with neither ends with its header block.
func HTTP(buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	isHTTP, undecided := sniffHTTP(buf)
	if !isHTTP {
		if undecided {
			return 0, nil
		}
		return 0, ErrNotFramed
	}

	end, ok := headerEnd(buf)
	if !ok {
		return 0, nil
	}
	length, chunked, err := bodyFraming(buf[:end])
	if err != nil {
		return 0, err
	}
	switch {
	case chunked:
		n, err := chunkedBody(buf[end:])
		if err != nil || n == 0 {
			return 0, err
		}
		return end + n, nil
	case length >= 0:
		if len(buf)-end < length {
			return 0, nil
		}
		return end + length, nil
	}
	return end, nil
}

// HTTP returns an HTTP detector bounded by l.
func (l Limits) HTTP() asn1runtime.CompleteFunc {
	return l.Apply(HTTP)
}

// headerEnd returns the offset just past the blank line ending the header.
func headerEnd(buf []byte) (int, bool) {
	for i := 0; i < len(buf); i++ {
		if buf[i] != '\n' {
			continue
		}
		if i+1 < len(buf) && buf[i+1] == '\n' {
			return i + 2, true
		}
		if i+2 < len(buf) && buf[i+1] == '\r' && buf[i+2] == '\n' {
			return i + 3, true
		}
	}
	return 0, false
}

// bodyFraming scans header lines. length is -1 when no Content-Length is set.
func bodyFraming(header []byte) (length int, chunked bool, err error) {
	length = -1
	lines := bytes.Split(header, []byte("\n"))
	for _, line := range lines[1:] {
		line = bytes.TrimRight(line, "\r")
		name, value, ok := bytes.Cut(line, []byte(":"))
		if !ok {
			continue
		}
		name = bytes.TrimSpace(name)
		value = bytes.TrimSpace(value)
		switch {
		case bytes.EqualFold(name, headerContentLength):
			n, perr := strconv.Atoi(string(value))
			if perr != nil || n < 0 {
				return 0, false, ErrNotFramed
			}
			length = n
		case bytes.EqualFold(name, headerTransferEncoding):
			if bytes.Contains(bytes.ToLower(value), tokenChunked) {
				chunked = true
			}
		}
	}
	return length, chunked, nil
}

// chunkedBody returns the size of a chunked body including its trailer,
// or 0 when incomplete.
func chunkedBody(buf []byte) (int, error) {
	off := 0
	for {
		eol := bytes.IndexByte(buf[off:], '\n')
		if eol < 0 {
			return 0, nil
		}
		line := bytes.TrimRight(buf[off:off+eol], "\r")
		if i := bytes.IndexByte(line, ';'); i >= 0 {
			line = line[:i]
		}
		size, err := strconv.ParseInt(string(bytes.TrimSpace(line)), 16, 32)
		if err != nil || size < 0 {
			return 0, ErrNotFramed
		}
		off += eol + 1
		if size == 0 {
			return trailer(buf, off)
		}
		off += int(size)
		if off > len(buf) {
			return 0, nil
		}
		// chunk data is followed by CRLF
		eol = bytes.IndexByte(buf[off:], '\n')
		if eol < 0 {
			return 0, nil
		}
		if len(bytes.TrimRight(buf[off:off+eol], "\r")) != 0 {
			return 0, ErrNotFramed
		}
		off += eol + 1
	}
}

// trailer skips trailer fields up to the terminating empty line.
func trailer(buf []byte, off int) (int, error) {
	for {
		eol := bytes.IndexByte(buf[off:], '\n')
		if eol < 0 {
			return 0, nil
		}
		empty := len(bytes.TrimRight(buf[off:off+eol], "\r")) == 0
		off += eol + 1
		if empty {
			return off, nil
		}
	}
}
