// Package naming compiles naming-convention templates and classifies file
// paths against them.
//
// A template is a table: a header row naming the fields of a deliverable
// filename, followed by sample rows. Samples are either pre-split (one cell
// per field) or joined (the whole name in the first cell). The compiler
// infers, per field, one of four kinds:
//
//   - FixedCode: every sample starts with a letter and has the same length, at most 4
//   - NumericCounter: every sample is all digits; width is the modal digit length
//   - RevisionTag: letters mixed with digits at variable length, or a "REV" prefix
//   - FreeText: anything else; values need at least 3 runes, or the
//     length of the shortest sample when that is shorter
//
// When a column qualifies for more than one kind, FixedCode wins over
// NumericCounter, which wins over RevisionTag.
//
// # Separator
//
// An explicit "Delimiter" directive row wins. Otherwise the separator is the
// single non-alphanumeric rune that splits at least 90% of joined sample rows
// into exactly fieldCount parts. Templates without joined rows default to "-".
//
// # Classification
//
// Classification is an ordered rule chain, first match wins:
//
//  1. field count: splitting the stem on the separator does not give
//     fieldCount parts, and no other separator would
//  2. wrong separator: another non-alphanumeric rune, alone or mixed with the
//     separator, splits the stem into fieldCount parts
//
// Only the pattern's separator splits a stem, so FreeText values may hold
// spaces, dots or other punctuation.
//  3. field shape: <field>: a part fails its kind's shape check
//  4. unknown value: <field>: strict mode only, FixedCode value not in the samples
//
// Classification never fails. Every path yields exactly one ClassifiedFile.
package naming
