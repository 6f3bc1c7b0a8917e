// Package codec encodes, decodes and prints BER values through one set of
// codec functions.
//
// Every codec follows the same calling convention:
//
//	func(c *Context, p **T, optional bool, name string) error
//
// The Context direction decides what the call does. Decode reads the next
// element and stores an arena-owned value in *p, leaving *p nil when an
// optional element is absent. Encode writes *p. Print writes one
// "name: value" line. A schema is therefore written once and used for all
// three directions:
//
//	func codePerson(c *codec.Context, p **Person, optional bool, name string) error {
//		if ok, err := codec.SequenceBegin(c, p, optional, name); !ok || err != nil {
//			return err
//		}
//		if err := codec.VisibleString(c, &(*p).Name, false, "name"); err != nil {
//			return err
//		}
//		if err := codec.Implicit(codec.ClassContext, 0, codec.Integer)(c, &(*p).Age, true, "age"); err != nil {
//			return err
//		}
//		return codec.SequenceEnd(c)
//	}
//
// # Failures
//
// The first failure is recorded in the Context and returned by every later
// call until Reset. Failures are *errors.Error values carrying the kind
// (malformed, field_missing, space_exhausted, other), the path of field
// names and the byte offset.
//
// # Key Types
//
//	Context     - direction, cursor or output buffer, arena, error
//	Buffer      - growable output with length patching
//	Cursor      - bounded input reader
//	Func[T]     - the codec calling convention
//	ChoiceTable - immutable CHOICE alternative table
//	Registry    - OID names and EXTERNAL payload codecs
//
// # Encoding Notes
//
// Constructed elements are written in one pass. One length octet is
// reserved, the content is written, and the length is patched; content is
// moved when the length needs more octets. Decoding accepts definite and
// indefinite lengths and constructed string encodings.
package codec
