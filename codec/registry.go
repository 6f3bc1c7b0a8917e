package codec

import (
	"strings"
	"sync"
)

// OID groups used by the default registry.
const (
	GroupTransferSyntax = "transyn"
	GroupAttributeSet   = "attset"
	GroupDiagnosticSet  = "diagset"
	GroupRecordSyntax   = "recsyn"
)

// ValueCodec codes a payload whose Go type is known only at run time.
type ValueCodec func(c *Context, v *any, optional bool, name string) error

// Known adapts a typed codec to a ValueCodec. Decoded values are stored
// as *T.
func Known[T any](fn Func[T]) ValueCodec {
	return func(c *Context, v *any, optional bool, name string) error {
		var p *T
		if c.dir != Decode && *v != nil {
			tp, ok := (*v).(*T)
			if !ok {
				return c.other(name, "payload %T is not %T", *v, p)
			}
			p = tp
		}
		if err := fn(c, &p, optional, name); err != nil {
			return err
		}
		if c.dir == Decode && p != nil {
			*v = p
		}
		return nil
	}
}

// Entry names an OID and optionally gives the codec of its payload.
type Entry struct {
	OID   OID
	Group string
	Name  string
	Codec ValueCodec
}

// Registry maps OIDs to entries. It is read-only once built and safe for
// concurrent use.
type Registry struct {
	entries []Entry
	byOID   map[string]int
}

// NewRegistry builds a registry. A later entry for the same OID wins.
func NewRegistry(entries ...Entry) *Registry {
	r := &Registry{
		entries: make([]Entry, 0, len(entries)),
		byOID:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		key := e.OID.String()
		if i, ok := r.byOID[key]; ok {
			r.entries[i] = e
			continue
		}
		r.byOID[key] = len(r.entries)
		r.entries = append(r.entries, e)
	}
	return r
}

// Lookup returns the entry for oid.
func (r *Registry) Lookup(oid OID) (Entry, bool) {
	if r == nil {
		return Entry{}, false
	}
	i, ok := r.byOID[oid.String()]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// Find returns the first entry of group called name, ignoring case.
// An empty group matches any group.
func (r *Registry) Find(group, name string) (Entry, bool) {
	if r == nil {
		return Entry{}, false
	}
	for _, e := range r.entries {
		if (group == "" || e.Group == group) && strings.EqualFold(e.Name, name) {
			return e, true
		}
	}
	return Entry{}, false
}

// Name returns the registered name of oid or "".
func (r *Registry) Name(oid OID) string {
	e, _ := r.Lookup(oid)
	return e.Name
}

// Describe renders oid in dotted form followed by its name when known.
func (r *Registry) Describe(oid OID) string {
	if name := r.Name(oid); name != "" {
		return oid.String() + " (" + name + ")"
	}
	return oid.String()
}

// Entries returns a copy of all entries in registration order.
func (r *Registry) Entries() []Entry {
	if r == nil {
		return nil
	}
	return append([]Entry(nil), r.entries...)
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the well-known OIDs of the Z39.50 family. It is
// built once and shared.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry(defaultEntries()...)
	})
	return defaultRegistry
}

func defaultEntries() []Entry {
	z := func(group, name, arcs string) Entry {
		return Entry{OID: MustParseOID("1.2.840.10003." + arcs), Group: group, Name: name}
	}
	sutrs := z(GroupRecordSyntax, "SUTRS", "5.101")
	sutrs.Codec = Known(GeneralString)

	return []Entry{
		{OID: OID{2, 1, 1}, Group: GroupTransferSyntax, Name: "BER"},
		z(GroupTransferSyntax, "Z39.50-APDU", "2.1"),
		z(GroupAttributeSet, "Bib-1", "3.1"),
		z(GroupAttributeSet, "Exp-1", "3.2"),
		z(GroupAttributeSet, "Ext-1", "3.3"),
		z(GroupAttributeSet, "GILS", "3.5"),
		z(GroupDiagnosticSet, "Bib-1", "4.1"),
		z(GroupDiagnosticSet, "Diag-1", "4.2"),
		z(GroupRecordSyntax, "Unimarc", "5.1"),
		z(GroupRecordSyntax, "Intermarc", "5.2"),
		z(GroupRecordSyntax, "USmarc", "5.10"),
		z(GroupRecordSyntax, "UKmarc", "5.11"),
		z(GroupRecordSyntax, "Normarc", "5.12"),
		z(GroupRecordSyntax, "Librismarc", "5.13"),
		z(GroupRecordSyntax, "Danmarc", "5.14"),
		z(GroupRecordSyntax, "Finmarc", "5.15"),
		z(GroupRecordSyntax, "MAB", "5.16"),
		z(GroupRecordSyntax, "Canmarc", "5.17"),
		sutrs,
		z(GroupRecordSyntax, "OPAC", "5.102"),
		z(GroupRecordSyntax, "Summary", "5.103"),
		z(GroupRecordSyntax, "GRS-0", "5.104"),
		z(GroupRecordSyntax, "GRS-1", "5.105"),
		z(GroupRecordSyntax, "Extended", "5.106"),
		z(GroupRecordSyntax, "Fragment", "5.107"),
		z(GroupRecordSyntax, "XML", "5.109.10"),
	}
}
