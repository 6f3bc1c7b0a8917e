package main

import (
	"bufio"
	"bytes"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	asn1runtime "github.com/wippyai/asn1-runtime"
	"github.com/wippyai/asn1-runtime/codec"
	"github.com/wippyai/asn1-runtime/config"
	"github.com/wippyai/asn1-runtime/errors"
	"github.com/wippyai/asn1-runtime/frame"
	"github.com/wippyai/asn1-runtime/metrics"
)

const textPreviewLines = 12

type unit struct {
	err    error
	body   string
	data   []byte
	index  int
	offset int
	ber    bool
}

func (u unit) heading() string {
	kind := "text"
	if u.ber {
		kind = "ber"
	}
	h := fmt.Sprintf("#%d @%d %s %s", u.index, u.offset, kind, humanize.Bytes(uint64(len(u.data))))
	if u.err != nil {
		h += " (error)"
	}
	return h
}

// session splits input into units and renders each one.
type session struct {
	cfg      config.Config
	metrics  *metrics.Codec
	complete asn1runtime.CompleteFunc
	framing  string
	consumed int
}

func newSession(cfg config.Config, m *metrics.Codec) *session {
	return &session{
		cfg:      cfg,
		metrics:  m,
		framing:  cfg.Frame.Framing,
		complete: m.Framing(cfg.Frame.Framing, cfg.Framing()),
	}
}

// split returns every complete unit in data. A trailing error reports
// where framing stopped; units before it are still returned.
func (s *session) split(data []byte) ([]unit, error) {
	maxTok := len(data) + 1
	if s.cfg.Frame.MaxUnitSize > 0 {
		maxTok = s.cfg.Frame.MaxUnitSize + 1
	}

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, min(maxTok, 64*1024)), maxTok)
	sc.Split(frame.SplitFunc(s.complete))

	s.consumed = 0
	var units []unit
	for sc.Scan() {
		tok := sc.Bytes()
		u := s.render(len(units), s.consumed, bytes.Clone(tok))
		units = append(units, u)
		s.consumed += len(tok)
	}
	return units, sc.Err()
}

func (s *session) render(index, offset int, data []byte) unit {
	u := unit{index: index, offset: offset, data: data}

	var b strings.Builder
	n, err := codec.Dump(&b, data)
	if err == nil && n == len(data) {
		u.ber = true
		u.err = s.validate(data)
		u.body = b.String()
		if u.err != nil {
			u.body += "error: " + u.err.Error() + "\n"
		}
		return u
	}

	u.body = textPreview(data)
	return u
}

// validate decodes data as one element under the configured codec limits.
func (s *session) validate(data []byte) error {
	opts := append(s.cfg.CodecOptions(), codec.WithObserver(s.metrics))
	c := codec.NewContext(codec.Decode, opts...)
	defer c.Release()

	c.SetInput(data)
	var raw *[]byte
	if err := codec.Any(c, &raw, false, "unit"); err != nil {
		return err
	}
	s.metrics.ObserveArena(c.Arena())
	return nil
}

func textPreview(data []byte) string {
	var b strings.Builder
	lines := bytes.SplitAfter(data, []byte("\n"))
	for i, line := range lines {
		if i == textPreviewLines {
			fmt.Fprintf(&b, "... %d more lines\n", len(lines)-i)
			break
		}
		line = bytes.TrimRight(line, "\r\n")
		if len(line) == 0 && i == len(lines)-1 {
			break
		}
		s := strconv.QuoteToASCII(string(line))
		b.WriteString(s[1 : len(s)-1])
		b.WriteByte('\n')
	}
	return b.String()
}

func (s *session) summary(units []unit) string {
	var bad int
	for _, u := range units {
		if u.err != nil {
			bad++
		}
	}
	return fmt.Sprintf("%s units, %s, %s with errors",
		humanize.Comma(int64(len(units))), humanize.Bytes(uint64(s.consumed)), humanize.Comma(int64(bad)))
}

// describe renders a framing error for the status line.
func describe(err error) string {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return fmt.Sprintf("%s %s", e.Phase, e.Kind)
	}
	return err.Error()
}
