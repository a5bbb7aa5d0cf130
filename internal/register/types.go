package register

// Entry is one row of a deliverables register.
type Entry struct {
	// Row is the 1-based row number in the source table (header is row 1
	// when it is the first row).
	Row        int               `json:"row"`
	Identifier string            `json:"identifier"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Register is a parsed deliverables register.
type Register struct {
	Columns          []string  `json:"columns"`
	IdentifierColumn string    `json:"identifier_column"`
	Entries          []Entry   `json:"entries"`
	Warnings         []Warning `json:"warnings,omitempty"`
}

// WarningKind classifies register-quality warnings.
type WarningKind string

const (
	WarningDuplicateIdentifier WarningKind = "duplicate_identifier"
	WarningEmptyIdentifier     WarningKind = "empty_identifier"
)

// Warning is a non-fatal register-quality finding.
type Warning struct {
	Kind       WarningKind `json:"kind"`
	Identifier string      `json:"identifier,omitempty"`
	Rows       []int       `json:"rows"`
	Message    string      `json:"message"`
}
