// Package asn1runtime provides a BER/ASN.1 codec engine for a legacy
// information-retrieval wire protocol family.
//
// Every protocol message type is built from a small algebra of codec
// combinators: primitives, implicit and explicit tagging, SEQUENCE, CHOICE
// and repetition. One codec function encodes, decodes or prints a value
// depending on the direction of the context that drives it.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	asn1runtime/         Root package with the Allocator and CompleteFunc boundaries
//	├── arena/           Block arena owning every value of one decode pass
//	├── codec/           Codec context, tags, lengths, primitives and combinators
//	├── frame/           Stream completion detectors (BER, HTTP, fixed width)
//	├── config/          TOML configuration of codec and framing limits
//	├── metrics/         Prometheus collectors for codec and framing activity
//	└── errors/          Structured error types for diagnostics
//
// # Quick Start
//
// Decode a value with a schema function built from the algebra:
//
//	c := codec.NewContext(codec.Decode)
//	defer c.Release()
//	c.SetInput(wire)
//
//	var req *InitRequest
//	if err := initRequestCodec(c, &req, false, "initRequest"); err != nil {
//	    log.Fatal(err) // *errors.Error with Kind, Field and Path
//	}
//
// Encode it again:
//
//	e := codec.NewContext(codec.Encode)
//	defer e.Release()
//	if err := initRequestCodec(e, &req, false, "initRequest"); err != nil {
//	    log.Fatal(err)
//	}
//	wire := e.Bytes()
//
// # Framing
//
// A transport reading from a socket asks a completion detector whether a full
// unit has arrived before decoding:
//
//	n, err := frame.Auto(buf)
//	switch {
//	case err != nil:  // not a known framing
//	case n == 0:      // need more bytes
//	default:          // buf[:n] is one unit
//	}
//
// # Thread Safety
//
// A Context and its Arena are used by one goroutine at a time. Registries
// and arm tables are read-only after construction and safe to share.
//
// # Memory Model
//
// Decoded values are owned by the arena attached to the context. Resetting
// the context rewinds the arena and invalidates every value it produced;
// copy what must outlive the pass.
package asn1runtime
