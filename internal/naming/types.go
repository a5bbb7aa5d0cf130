package naming

// FieldKind identifies the shape a naming field must take.
type FieldKind string

const (
	// KindFixedCode is a short code of fixed length starting with a letter (e.g. "STR").
	KindFixedCode FieldKind = "fixed_code"
	// KindNumericCounter is a zero-padded counter of fixed digit width (e.g. "001").
	KindNumericCounter FieldKind = "numeric_counter"
	// KindRevisionTag is a revision marker (e.g. "01", "P02", "REV01").
	KindRevisionTag FieldKind = "revision_tag"
	// KindFreeText accepts any value of at least MinLength runes.
	KindFreeText FieldKind = "free_text"
)

// FieldSpec describes one field of a compiled naming pattern.
type FieldSpec struct {
	Name string    `json:"name"`
	Kind FieldKind `json:"kind"`

	// Width is the digit count for NumericCounter and the code length for
	// FixedCode. Zero for the other kinds.
	Width int `json:"width,omitempty"`

	// SampleValues holds the distinct sample values, sorted.
	SampleValues []string `json:"sample_values,omitempty"`

	// MinLength is the shortest value a FreeText field accepts.
	MinLength int `json:"min_length,omitempty"`

	// RequireDigit is set on RevisionTag fields whose samples all carry a digit.
	RequireDigit bool `json:"require_digit,omitempty"`
}

// Pattern is a compiled naming convention. Immutable after CompilePattern returns.
type Pattern struct {
	Fields      []FieldSpec `json:"fields"`
	Separator   rune        `json:"-"`
	FieldCount  int         `json:"field_count"`
	StrictCodes bool        `json:"strict_codes,omitempty"`
}

// SeparatorString returns the separator as a one-character string.
func (p *Pattern) SeparatorString() string {
	return string(p.Separator)
}

// FieldNames returns the field names in order.
func (p *Pattern) FieldNames() []string {
	names := make([]string, len(p.Fields))
	for i, f := range p.Fields {
		names[i] = f.Name
	}
	return names
}

// Status is the classification outcome of a file.
type Status string

const (
	StatusCompliant    Status = "compliant"
	StatusNonCompliant Status = "non_compliant"
)

// Violation reasons. Field-specific reasons carry the field name after the prefix.
const (
	ReasonFieldCount     = "field count"
	ReasonWrongSeparator = "wrong separator"
	ReasonFieldShape     = "field shape: "
	ReasonUnknownValue   = "unknown value: "
)

// ClassifiedFile is the classification of a single path. Never mutated after creation.
type ClassifiedFile struct {
	Path          string            `json:"path"`
	Stem          string            `json:"stem"`
	Folder        string            `json:"folder,omitempty"`
	Status        Status            `json:"status"`
	Reason        string            `json:"reason,omitempty"`
	MatchedFields map[string]string `json:"matched_fields,omitempty"`
}

// Compliant reports whether the file passed every check.
func (c ClassifiedFile) Compliant() bool {
	return c.Status == StatusCompliant
}
