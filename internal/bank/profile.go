// Package bank holds the static catalog of known bank export formats and the
// detector that picks one for an arbitrary uploaded file.
package bank

// FileKind is the physical format of an export file.
type FileKind string

// File kind constants.
const (
	KindCSV FileKind = "csv"
	KindOFX FileKind = "ofx"
)

// ColumnMapping assigns semantic roles to CSV column indexes. A value of -1
// means the profile has no such column. Amount and Credit/Debit are mutually
// exclusive ways of carrying the value: some banks export one signed column,
// others split unsigned amounts across a credit and a debit column.
type ColumnMapping struct {
	Date        int
	Description int
	Amount      int
	Credit      int
	Debit       int
	Document    int
	Balance     int
}

// noColumns is the zero-value-safe starting point for mappings.
func noColumns() ColumnMapping {
	return ColumnMapping{Date: -1, Description: -1, Amount: -1, Credit: -1, Debit: -1, Document: -1, Balance: -1}
}

// Profile describes one bank's export layout. Profiles are created once at
// startup from the registry table and never mutated.
type Profile struct {
	ID                string
	DisplayName       string
	Encoding          string
	FileKind          FileKind
	Separator         rune
	HeaderFingerprint []string
	DateFormats       []string
	FooterMarkers     []string
	Columns           ColumnMapping
}

// Generic reports whether this is the fallback profile produced when no
// fingerprint matched.
func (p *Profile) Generic() bool {
	return p.ID == GenericProfileID
}
