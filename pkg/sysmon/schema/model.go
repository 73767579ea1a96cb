package schema

// Arity describes whether a configuration option carries a value.
type Arity string

const (
	// ArityNone means the option is a bare flag and must not carry a value.
	ArityNone Arity = "none"
	// ArityOptional means the option may carry zero or one value.
	ArityOptional Arity = "optional"
	// ArityRequired means the option must carry exactly one value.
	ArityRequired Arity = "required"
)

// Option is one top-level configuration option definition.
type Option struct {
	Name        string // element name in the configuration (unique)
	Switch      string // command-line switch, if any
	Argument    Arity  // whether the option carries a value
	IsRule      bool   // option participates in rule processing
	ForceConfig bool   // option is always written to the registry config
}

// Field is one data-field definition within an event.
type Field struct {
	Name    string // element name within the event filter (unique per event)
	InType  string // manifest input type (e.g. "win:UnicodeString")
	OutType string // manifest output type, empty when not declared
}

// Event is one event definition: a rule name plus its data fields in
// manifest order.
type Event struct {
	Name   string // rule name used in configurations (e.g. "ProcessCreate")
	Fields []Field

	fieldIndex map[string]int
}

// LookupField returns the field definition with the given name.
func (e *Event) LookupField(name string) (Field, bool) {
	i, ok := e.fieldIndex[name]
	if !ok {
		return Field{}, false
	}
	return e.Fields[i], true
}

// FieldNames returns the event's field names in manifest order.
func (e *Event) FieldNames() []string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Name
	}
	return names
}

// Allowed attribute values for rule grouping and match disposition. These
// are fixed by the configuration grammar rather than enumerated in the
// manifest.
var (
	groupRelations = []string{"and", "or"}
	onMatchValues  = []string{"include", "exclude"}
)

// Schema is the parsed configuration grammar. It is immutable after
// construction and safe for concurrent readers.
type Schema struct {
	version       Version
	binaryVersion string

	options     map[string]Option
	optionNames []string // manifest order

	events     map[string]*Event
	eventNames []string // manifest order

	filterOps   map[string]struct{}
	filterNames []string // manifest order
}

// Version returns the manifest's schema version.
func (s *Schema) Version() Version {
	return s.version
}

// BinaryVersion returns the Sysmon binary version declared by the manifest,
// or the empty string when absent.
func (s *Schema) BinaryVersion() string {
	return s.binaryVersion
}

// LookupOption returns the option definition for the given configuration
// element name. Lookup is a case-sensitive exact match.
func (s *Schema) LookupOption(name string) (Option, bool) {
	opt, ok := s.options[name]
	return opt, ok
}

// LookupEvent returns the event definition for the given rule name.
func (s *Schema) LookupEvent(name string) (*Event, bool) {
	ev, ok := s.events[name]
	return ev, ok
}

// OptionNames returns all option names in manifest order.
func (s *Schema) OptionNames() []string {
	return s.optionNames
}

// EventNames returns all event rule names in manifest order.
func (s *Schema) EventNames() []string {
	return s.eventNames
}

// GroupRelations returns the allowed groupRelation attribute values.
func (s *Schema) GroupRelations() []string {
	return groupRelations
}

// IsGroupRelation reports whether value is an allowed groupRelation.
func (s *Schema) IsGroupRelation(value string) bool {
	for _, r := range groupRelations {
		if value == r {
			return true
		}
	}
	return false
}

// OnMatchValues returns the allowed onmatch attribute values.
func (s *Schema) OnMatchValues() []string {
	return onMatchValues
}

// IsOnMatchValue reports whether value is an allowed onmatch disposition.
func (s *Schema) IsOnMatchValue(value string) bool {
	for _, v := range onMatchValues {
		if value == v {
			return true
		}
	}
	return false
}

// FilterOperators returns the schema-wide allowed filter operator tokens in
// manifest order.
func (s *Schema) FilterOperators() []string {
	return s.filterNames
}

// IsFilterOperator reports whether op is an allowed filter operator.
func (s *Schema) IsFilterOperator(op string) bool {
	_, ok := s.filterOps[op]
	return ok
}
