package model

import (
	"strconv"
	"strings"
)

// Language selects the extraction prompt locale.
type Language string

// Supported prompt locales.
const (
	LanguageEnglish    Language = "english"
	LanguageNederlands Language = "nederlands"
)

// Valid reports whether l is one of the supported locales.
func (l Language) Valid() bool {
	return l == LanguageEnglish || l == LanguageNederlands
}

// AssetCandidate is a single asset proposed by one extraction backend for one
// table. A candidate without a location is invalid and is dropped before
// verdict computation; a missing or unparsable count defaults to 1.
type AssetCandidate struct {
	Type     string
	Location string
	Count    int
}

// Verdict is the categorical outcome of comparing the two extraction
// backends' candidate lists for one table.
type Verdict int

const (
	// VerdictAgreed: both lists parsed, same length and same count sum.
	VerdictAgreed Verdict = iota
	// VerdictDisagreed: both lists parsed but length or count sum differ.
	VerdictDisagreed
	// VerdictSecondaryEmptyPrimaryNonEmpty: the secondary backend found no
	// assets while the primary did; a single placeholder row is emitted.
	VerdictSecondaryEmptyPrimaryNonEmpty
	// VerdictSecondaryParseFailed: the secondary backend's output was not
	// valid JSON; the primary list becomes authoritative.
	VerdictSecondaryParseFailed
)

// Reviewer-facing flag strings. These exact values are what human reviewers
// filter on in the review workbook, so they are stable.
const (
	FlagNone                 = ""
	FlagCheck                = "Check"
	FlagSecondaryParseFailed = "Check, Sonnet failed"
	FlagSecondaryEmpty       = "Sonnet assumed no assets, GPT did assume assets"
)

// Flag returns the review-row flag string for the verdict.
func (v Verdict) Flag() string {
	switch v {
	case VerdictAgreed:
		return FlagNone
	case VerdictDisagreed:
		return FlagCheck
	case VerdictSecondaryEmptyPrimaryNonEmpty:
		return FlagSecondaryEmpty
	case VerdictSecondaryParseFailed:
		return FlagSecondaryParseFailed
	default:
		return FlagCheck
	}
}

// NeedsReview reports whether the verdict flags the table for human attention.
func (v Verdict) NeedsReview() bool {
	return v != VerdictAgreed
}

func (v Verdict) String() string {
	switch v {
	case VerdictAgreed:
		return "agreed"
	case VerdictDisagreed:
		return "disagreed"
	case VerdictSecondaryEmptyPrimaryNonEmpty:
		return "secondary_empty_primary_non_empty"
	case VerdictSecondaryParseFailed:
		return "secondary_parse_failed"
	default:
		return "unknown"
	}
}

// AssetRecord is one row of the review-queue workbook. The Delete, SonnetWrong
// and RowAdded fields are human-editable control columns and are empty until a
// reviewer touches them; automated stages never set them.
type AssetRecord struct {
	Type      string
	Location  string
	Count     string
	SheetName string
	Flag      string

	Delete      string
	SonnetWrong string
	RowAdded    string
}

// ReviewColumns is the column order of the review-queue workbook.
var ReviewColumns = []string{
	"asset_type", "asset_location", "asset_count", "sheet_name", "flag",
	"delete", "sonnet_wrong", "row_added",
}

// MarkedDeleted reports whether a reviewer flagged the row for deletion.
// Anything that does not coerce to exactly 1 keeps the row.
func (r AssetRecord) MarkedDeleted() bool {
	return coerceInt(r.Delete) == 1
}

// UnitCount returns the number of physical units this row expands to.
// Rows with an empty type or count, or a count that does not coerce to a
// positive integer, contribute zero units.
func (r AssetRecord) UnitCount() int {
	if strings.TrimSpace(r.Type) == "" || strings.TrimSpace(r.Count) == "" {
		return 0
	}
	n := coerceInt(r.Count)
	if n <= 0 {
		return 0
	}
	return n
}

// coerceInt parses s as an integer, accepting float renderings such as "6.0".
// Unparsable or missing values coerce to 0.
func coerceInt(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

// ExpandedAssetUnit is one physical unit after count multiplication. Immutable
// once written.
type ExpandedAssetUnit struct {
	Type      string
	Location  string
	SheetName string
}

// ExpandedColumns is the column order of the multiplied-quantities workbook.
var ExpandedColumns = []string{"asset_type", "asset_location", "sheet_name"}

// GoldenRecord is one normalized row of the externally supplied reference list.
type GoldenRecord struct {
	Type     string
	Location string
}

// ReconciliationResult is the outcome of matching the produced units against
// the golden list. Recomputed in full on every run.
type ReconciliationResult struct {
	Missing         []GoldenRecord
	Extra           []ExpandedAssetUnit
	MatchPercentage float64
}
