package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCell_CollapsesPlaceholders(t *testing.T) {
	for _, token := range []string{"nan", "NaN", "None", "none", "NaT", "null", "<NA>", "NoneType", "  nan  ", ""} {
		assert.Equal(t, "", NormalizeCell(token), "token %q", token)
	}

	assert.Equal(t, "Sok Dara", NormalizeCell("  Sok Dara "))
	assert.Equal(t, "nanette", NormalizeCell("nanette"), "placeholder match is exact, not substring")
}

func TestNormalize_DoesNotMutateOriginal(t *testing.T) {
	record := PortfolioRecord{ColName: " A ", ColTel: "nan"}
	normalized := record.Normalize()

	assert.Equal(t, "A", normalized[ColName])
	assert.Equal(t, "", normalized[ColTel])
	assert.Equal(t, " A ", record[ColName])
}

func TestExcludedSender(t *testing.T) {
	assert.True(t, PortfolioRecord{ColSenderName: "Zana MAM"}.ExcludedSender())
	assert.True(t, PortfolioRecord{ColSenderName: "  Khemra BUTH "}.ExcludedSender())
	assert.False(t, PortfolioRecord{ColSenderName: "Sok Dara"}.ExcludedSender())
	assert.False(t, PortfolioRecord{}.ExcludedSender())
}

func TestPotentialBucket(t *testing.T) {
	cases := map[string]string{
		"H":           "H",
		"h":           "H",
		"H (QR)":      "H",
		"High":        "H",
		"M":           "M",
		"m qr":        "M",
		"Medium":      "M",
		"L":           "L",
		"low":         "L",
		"":            "L",
		"  ":          "L",
		"no idea yet": "L",
	}
	for raw, want := range cases {
		assert.Equal(t, want, PotentialBucket(raw), "raw %q", raw)
	}
}
