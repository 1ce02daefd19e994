package domain

import "strings"

// Column names the pipeline depends on. The portfolio table is
// arbitrary-width; everything else is free-form business data.
const (
	ColName          = "Name"
	ColSenderName    = "Sender_Name"
	ColSourceChannel = "Source_Channel"
	ColTel           = "Tel"
	ColBusiness      = "Business"
	ColPotential     = "Potential"
)

// ExcludedSenders are hidden from every user regardless of role. Hard-coded
// to match the upstream sheet workflow; making this data-driven is an open
// stakeholder question.
var ExcludedSenders = []string{"Zana MAM", "Khemra BUTH"}

// placeholderTokens are spreadsheet artifacts that stand in for a missing
// value and collapse to the empty string.
var placeholderTokens = map[string]struct{}{
	"nan":      {},
	"NaN":      {},
	"None":     {},
	"none":     {},
	"NaT":      {},
	"null":     {},
	"<NA>":     {},
	"NoneType": {},
}

// PortfolioRecord is one customer/lead row, keyed by column header.
type PortfolioRecord map[string]string

// Name returns the customer name cell.
func (r PortfolioRecord) Name() string { return r[ColName] }

// Sender returns the record submitter cell.
func (r PortfolioRecord) Sender() string { return r[ColSenderName] }

// SourceChannel returns the acquisition channel cell.
func (r PortfolioRecord) SourceChannel() string { return r[ColSourceChannel] }

// NormalizeCell trims a cell and collapses placeholder tokens to empty.
func NormalizeCell(value string) string {
	value = strings.TrimSpace(value)
	if _, ok := placeholderTokens[value]; ok {
		return ""
	}
	return value
}

// Normalize returns a copy of the record with every cell normalized.
func (r PortfolioRecord) Normalize() PortfolioRecord {
	out := make(PortfolioRecord, len(r))
	for k, v := range r {
		out[k] = NormalizeCell(v)
	}
	return out
}

// ExcludedSender reports whether the record's sender is blacklisted.
func (r PortfolioRecord) ExcludedSender() bool {
	sender := strings.TrimSpace(r.Sender())
	for _, excluded := range ExcludedSenders {
		if sender == excluded {
			return true
		}
	}
	return false
}

// PotentialBucket dedupes the free-text potential-level cell into the three
// canonical buckets. Missing or unrecognized values count as low.
func PotentialBucket(raw string) string {
	value := strings.ToUpper(strings.TrimSpace(raw))
	if value == "" {
		return "L"
	}
	for _, p := range []string{"H (", "HIGH", "H"} {
		if strings.Contains(value, p) {
			return "H"
		}
	}
	for _, p := range []string{"M (", "M QR", "MEDIUM", "M"} {
		if strings.Contains(value, p) {
			return "M"
		}
	}
	return "L"
}
