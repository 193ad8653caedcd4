// Copyright (c) 2025 Berik Ashimov

package planio

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"sort"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"subnetlab/internal/problem"
)

const (
	MaxWorksheetItems = 200
	// worksheetRetries is how many times one item is regenerated after a
	// *problem.GenerationError before the worksheet fails.
	worksheetRetries = 3
)

type WorksheetItem struct {
	Number  int          `json:"number" yaml:"number"`
	Kind    problem.Kind `json:"kind" yaml:"kind"`
	Prompt  string       `json:"prompt" yaml:"prompt"`
	Options []string     `json:"options,omitempty" yaml:"options,omitempty"`
	Answer  string       `json:"answer" yaml:"answer"`
}

type Worksheet struct {
	Items []WorksheetItem `json:"items" yaml:"items"`
}

// BuildWorksheet generates count problems, cycling through kinds.
func BuildWorksheet(g *problem.Generator, kinds []problem.Kind, tier problem.Tier, count int) (Worksheet, error) {
	if count < 1 || count > MaxWorksheetItems {
		return Worksheet{}, pkgerrors.Errorf("worksheet size must be between 1 and %d", MaxWorksheetItems)
	}
	if len(kinds) == 0 {
		return Worksheet{}, pkgerrors.New("worksheet needs at least one problem kind")
	}
	ws := Worksheet{Items: make([]WorksheetItem, 0, count)}
	for i := 0; i < count; i++ {
		kind := kinds[i%len(kinds)]
		var p problem.Problem
		var err error
		for attempt := 0; attempt <= worksheetRetries; attempt++ {
			p, err = g.Generate(kind, tier)
			var gen *problem.GenerationError
			if !errors.As(err, &gen) {
				break
			}
		}
		if err != nil {
			return Worksheet{}, pkgerrors.Wrapf(err, "worksheet item %d", i+1)
		}
		card := p.Card()
		ws.Items = append(ws.Items, WorksheetItem{
			Number:  i + 1,
			Kind:    kind,
			Prompt:  promptText(card),
			Options: card.Options,
			Answer:  answerText(p),
		})
	}
	return ws, nil
}

func promptText(card problem.Card) string {
	if len(card.Table) == 0 {
		return card.Prompt
	}
	lines := make([]string, 0, len(card.Table)+1)
	lines = append(lines, card.Prompt)
	for _, row := range card.Table {
		lines = append(lines, strings.Join(row, "  "))
	}
	return strings.Join(lines, "\n")
}

// answerText renders the expected answer of p. Troubleshooting answers list
// the faulty rows.
func answerText(p problem.Problem) string {
	if s, ok := p.(problem.TroubleshootingScenario); ok {
		var names []string
		for _, row := range s.Faulty() {
			names = append(names, s.Devices[row].Name)
		}
		return strings.Join(names, ", ")
	}
	want := p.Check(problem.Submission{}).Expected
	if v, ok := want[problem.FieldChoice]; ok && len(want) == 1 {
		return v
	}
	keys := make([]string, 0, len(want))
	for k := range want {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+want[k])
	}
	return strings.Join(parts, "; ")
}

// WriteWorksheet renders ws. XLSX output keeps answers on a separate
// "Answer Key" sheet.
func WriteWorksheet(format Format, w io.Writer, ws Worksheet) error {
	switch format {
	case CSV:
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"number", "kind", "prompt", "options", "answer"}); err != nil {
			return err
		}
		for _, it := range ws.Items {
			if err := cw.Write([]string{strconv.Itoa(it.Number), string(it.Kind), it.Prompt, strings.Join(it.Options, " | "), it.Answer}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ws)
	case YAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(ws)
	case XLSX:
		f := excelize.NewFile()
		defer f.Close()
		if err := f.SetSheetName("Sheet1", "Problems"); err != nil {
			return err
		}
		problems := [][]interface{}{{"#", "kind", "prompt", "options"}}
		answers := [][]interface{}{{"#", "answer"}}
		for _, it := range ws.Items {
			problems = append(problems, []interface{}{it.Number, string(it.Kind), it.Prompt, strings.Join(it.Options, " | ")})
			answers = append(answers, []interface{}{it.Number, it.Answer})
		}
		if err := writeSheetRows(f, "Problems", problems); err != nil {
			return err
		}
		if _, err := f.NewSheet("Answer Key"); err != nil {
			return err
		}
		if err := writeSheetRows(f, "Answer Key", answers); err != nil {
			return err
		}
		_, err := f.WriteTo(w)
		return pkgerrors.Wrap(err, "write xlsx")
	default:
		return pkgerrors.Errorf("unsupported format %q", format)
	}
}
