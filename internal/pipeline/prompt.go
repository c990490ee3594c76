package pipeline

import (
	"embed"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/RoelRotti/legionella-exploration-milestone/internal/model"
)

//go:embed prompts/*.txt
var promptFS embed.FS

// BuildPrompt assembles the extraction prompt for one table. The same prompt
// is sent to both backends so their answers stay comparable. assetsKnown
// selects the stricter instruction variant used when a human already filtered
// the source pages down to asset tables.
func BuildPrompt(lang model.Language, assetsKnown bool, table model.Table) (string, error) {
	if !lang.Valid() {
		return "", eris.Errorf("pipeline: unsupported language %q", lang)
	}

	variant := "unknown"
	if assetsKnown {
		variant = "known"
	}
	tmpl, err := promptFS.ReadFile(fmt.Sprintf("prompts/instructions_%s_%s.txt", lang, variant))
	if err != nil {
		return "", eris.Wrap(err, "pipeline: read instruction template")
	}
	vocab, err := promptFS.ReadFile(fmt.Sprintf("prompts/vocab_%s.txt", lang))
	if err != nil {
		return "", eris.Wrap(err, "pipeline: read vocabulary")
	}

	r := strings.NewReplacer(
		"{{vocabulary}}", strings.TrimRight(string(vocab), "\n"),
		"{{table}}", table.ToCSV(),
	)
	return r.Replace(string(tmpl)), nil
}
