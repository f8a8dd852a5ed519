// Package export serializes audit records for external consumption and for
// retention archives. JSON preserves the full record structure, including
// the hashes needed to re-verify an archived segment; CSV flattens records
// for spreadsheet review while carrying the complete result as JSON in a
// dedicated column.
package export
