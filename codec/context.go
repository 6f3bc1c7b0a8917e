package codec

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/wippyai/asn1-runtime/arena"
	"github.com/wippyai/asn1-runtime/errors"
)

// Direction selects what every codec call on a Context does.
type Direction uint8

const (
	Decode Direction = iota
	Encode
	Print
)

func (d Direction) String() string {
	switch d {
	case Decode:
		return "decode"
	case Encode:
		return "encode"
	case Print:
		return "print"
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}

func (d Direction) phase() errors.Phase {
	switch d {
	case Encode:
		return errors.PhaseEncode
	case Print:
		return errors.PhasePrint
	}
	return errors.PhaseDecode
}

// DefaultMaxDepth bounds the nesting of constructed elements on decode.
const DefaultMaxDepth = 64

// Observer is notified once per failed codec run.
type Observer interface {
	CodecError(phase errors.Phase, kind errors.Kind)
}

type frameKind uint8

const (
	// frameWrapper is an explicit tag around a single value
	frameWrapper frameKind = iota
	// frameSequence is SEQUENCE, SET or a generic constructed element
	frameSequence
	// frameList is SEQUENCE OF or SET OF
	frameList
)

type frame struct {
	kind       frameKind
	named      bool
	indefinite bool
	prevEnd    int
	mark       int
}

type implicitTag struct {
	class  Class
	number int
	set    bool
}

// Context carries the state of one encode, decode or print pass.
// A Context is used by one goroutine at a time.
type Context struct {
	dir      Direction
	err      *errors.Error
	implicit implicitTag

	out    *Buffer
	pooled bool
	in     Cursor

	frames []frame
	path   []string

	arena     *arena.Arena
	ownArena  bool
	arenaOpts []arena.Option

	printer io.Writer
	indent  int

	registry  *Registry
	known     *Entry
	observer  Observer
	maxOutput int
	maxDepth  int

	scratch [16]byte
}

// Option configures a Context.
type Option func(*Context)

// WithArena makes decoded values live in a. The caller keeps ownership;
// Reset and Release leave it alone.
func WithArena(a *arena.Arena) Option {
	return func(c *Context) {
		c.arena = a
		c.ownArena = false
	}
}

// WithArenaOptions configures the arena the context creates on first use.
func WithArenaOptions(opts ...arena.Option) Option {
	return func(c *Context) {
		c.arenaOpts = opts
	}
}

// WithPrinter sets the destination of Print output.
func WithPrinter(w io.Writer) Option {
	return func(c *Context) {
		c.printer = w
	}
}

// WithMaxOutput caps the encoded size; exceeding it is a space-exhausted error.
func WithMaxOutput(n int) Option {
	return func(c *Context) {
		c.maxOutput = n
	}
}

// WithMaxDepth bounds constructed nesting on decode.
func WithMaxDepth(n int) Option {
	return func(c *Context) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

// WithRegistry sets the OID registry used for EXTERNAL payloads and printing.
func WithRegistry(r *Registry) Option {
	return func(c *Context) {
		c.registry = r
	}
}

// WithObserver reports failures to o.
func WithObserver(o Observer) Option {
	return func(c *Context) {
		c.observer = o
	}
}

// NewContext creates a context for the given direction.
func NewContext(dir Direction, opts ...Option) *Context {
	c := &Context{
		dir:      dir,
		printer:  io.Discard,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.registry == nil {
		c.registry = DefaultRegistry()
	}
	if dir == Encode {
		c.out = getBuffer()
		c.pooled = true
		c.out.MaxSize = c.maxOutput
	}
	return c
}

// Direction returns the direction the context was created with.
func (c *Context) Direction() Direction { return c.dir }

// SetInput points a decode context at data and rewinds it.
// The slice is borrowed and must not change while decoding.
func (c *Context) SetInput(data []byte) {
	c.in = NewCursor(data)
	c.frames = c.frames[:0]
}

// SetPrinter changes the destination of Print output.
func (c *Context) SetPrinter(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	c.printer = w
}

// Bytes returns the encoded output. The slice aliases the context's
// buffer and is invalid after Reset or Release.
func (c *Context) Bytes() []byte {
	if c.out == nil {
		return nil
	}
	return c.out.Bytes()
}

// Buffer exposes the encode buffer.
func (c *Context) Buffer() *Buffer { return c.out }

// Offset is the input position on decode and the output length on encode.
func (c *Context) Offset() int {
	if c.dir == Encode && c.out != nil {
		return c.out.Mark()
	}
	return c.in.Offset()
}

// Remaining reports unread input bytes within the current element.
func (c *Context) Remaining() int { return c.in.Remaining() }

// Err returns the first failure recorded since the last Reset.
func (c *Context) Err() error {
	if c.err == nil {
		return nil
	}
	return c.err
}

// Failure returns the structured form of Err.
func (c *Context) Failure() *errors.Error { return c.err }

// Registry returns the registry consulted for OIDs.
func (c *Context) Registry() *Registry { return c.registry }

// Arena returns the arena that owns decoded values, creating it on first use.
func (c *Context) Arena() *arena.Arena {
	if c.arena == nil {
		c.arena = arena.New(c.arenaOpts...)
		c.ownArena = true
	}
	return c.arena
}

// Reset clears the error and position state so the context can run again.
// Values decoded before Reset are released with the arena memory.
func (c *Context) Reset() {
	c.err = nil
	c.implicit = implicitTag{}
	c.frames = c.frames[:0]
	c.path = c.path[:0]
	c.indent = 0
	c.known = nil
	if c.out != nil {
		c.out.Reset()
	}
	c.in.rewind()
	if c.ownArena {
		c.arena.Reset()
	}
}

// Release returns pooled resources. The context must not be used afterwards.
func (c *Context) Release() {
	if c.pooled {
		putBuffer(c.out)
		c.pooled = false
	}
	c.out = nil
	if c.ownArena {
		c.arena.Destroy()
		c.arena = nil
		c.ownArena = false
	}
	c.frames = nil
	c.path = nil
}

// check refuses further work once a failure is recorded.
func (c *Context) check() error {
	if c.err != nil {
		return c.err
	}
	return nil
}

func (c *Context) phase() errors.Phase { return c.dir.phase() }

// fail records e unless a failure is already present and returns the
// recorded failure.
func (c *Context) fail(e *errors.Error) error {
	if c.err != nil {
		return c.err
	}
	if e.Offset < 0 {
		e.Offset = c.Offset()
	}
	c.err = e
	if c.observer != nil {
		c.observer.CodecError(e.Phase, e.Kind)
	}
	if ce := Logger().Check(zap.DebugLevel, "codec failure"); ce != nil {
		ce.Write(
			zap.String("phase", string(e.Phase)),
			zap.String("kind", string(e.Kind)),
			zap.Strings("path", e.Path),
			zap.Int("offset", e.Offset),
			zap.String("detail", e.Detail),
		)
	}
	return c.err
}

// pathWith returns a copy of the path stack with name appended.
func (c *Context) pathWith(name string) []string {
	out := make([]string, 0, len(c.path)+1)
	out = append(out, c.path...)
	if name != "" {
		out = append(out, name)
	}
	return out
}

func (c *Context) missing(name string) error {
	return c.fail(errors.FieldMissing(c.phase(), c.path, name))
}

func (c *Context) malformed(name, format string, args ...any) error {
	return c.fail(errors.Malformed(c.phase(), c.pathWith(name), c.Offset(), fmt.Sprintf(format, args...)))
}

func (c *Context) truncated(name, what string, declared int) error {
	return c.fail(errors.Truncated(c.phase(), c.pathWith(name), what, c.Offset(), declared, c.in.Remaining()))
}

func (c *Context) spaceExhausted(name string) error {
	return c.fail(errors.SpaceExhausted(c.pathWith(name), c.out.Len(), c.out.MaxSize))
}

func (c *Context) other(name, format string, args ...any) error {
	return c.fail(errors.Other(c.phase(), c.pathWith(name), fmt.Sprintf(format, args...)))
}

// absent handles a value that is not there: fine when optional, a
// missing-field failure otherwise.
func (c *Context) absent(optional bool, name string) error {
	if optional {
		return nil
	}
	return c.missing(name)
}

// absentValue is absent for a nil value being encoded or printed.
// Printing is best-effort and skips it.
func (c *Context) absentValue(optional bool, name string) error {
	if c.dir == Print {
		return nil
	}
	return c.absent(optional, name)
}

func (c *Context) pushPath(name string) bool {
	if name == "" {
		return false
	}
	c.path = append(c.path, name)
	return true
}

func (c *Context) popPath(pushed bool) {
	if pushed && len(c.path) > 0 {
		c.path = c.path[:len(c.path)-1]
	}
}

// alloc returns n arena bytes for a value read from the input.
func (c *Context) alloc(name string, n int) ([]byte, error) {
	a := c.Arena()
	if !a.CanAlloc(n) {
		return nil, c.other(name, "arena limit reached allocating %d bytes", n)
	}
	return a.Alloc(n), nil
}
