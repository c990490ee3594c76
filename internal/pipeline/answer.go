package pipeline

import (
	"encoding/json"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/RoelRotti/legionella-exploration-milestone/internal/model"
)

// extractionAnswer is the JSON contract both backends are asked to honor.
type extractionAnswer struct {
	Assets []rawAsset `json:"assets"`
}

type rawAsset struct {
	Type     string     `json:"asset_type"`
	Location string     `json:"asset_location"`
	Count    flexString `json:"asset_count"`
}

// flexString tolerates backends rendering counts as either JSON strings or
// numbers.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(strconv.FormatFloat(n, 'f', -1, 64))
	return nil
}

// parseAssets parses a backend's answer into candidates. Candidates without a
// location are dropped; a missing or unparsable count defaults to 1. An error
// means the answer was not the expected JSON shape at all.
func parseAssets(backend, text string) ([]model.AssetCandidate, error) {
	var answer extractionAnswer
	if err := json.Unmarshal([]byte(cleanJSON(text)), &answer); err != nil {
		return nil, err
	}

	candidates := make([]model.AssetCandidate, 0, len(answer.Assets))
	for _, a := range answer.Assets {
		location := strings.TrimSpace(a.Location)
		if location == "" {
			zap.L().Debug("dropping asset without location",
				zap.String("backend", backend),
				zap.String("asset_type", a.Type),
			)
			continue
		}
		candidates = append(candidates, model.AssetCandidate{
			Type:     strings.TrimSpace(a.Type),
			Location: location,
			Count:    parseCount(string(a.Count)),
		})
	}
	return candidates, nil
}

// parseCount parses a count field, defaulting to 1 only when the value is
// missing or unparsable. Explicit values are carried through verbatim, even
// non-positive ones; the expander drops those rows when multiplying.
func parseCount(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 1
}

// cleanJSON strips markdown code fences and any prose around the outermost
// JSON object.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}
