package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"sigs.k8s.io/yaml"

	"github.com/anvil-platform/moneta/internal/amount"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

type contextView struct {
	Precision    int    `json:"precision"`
	MaxScale     int    `json:"maxScale"`
	Flavor       string `json:"flavor"`
	RoundingMode string `json:"roundingMode,omitempty"`
}

func newContextView(c amount.Context) contextView {
	return contextView{
		Precision:    c.Precision,
		MaxScale:     c.MaxScale,
		Flavor:       c.Flavor.String(),
		RoundingMode: string(c.RoundingMode),
	}
}

func (c contextView) String() string {
	s := fmt.Sprintf("precision=%d maxScale=%d flavor=%s", c.Precision, c.MaxScale, c.Flavor)
	if c.RoundingMode != "" {
		s += " rounding=" + c.RoundingMode
	}
	return s
}

func validateOutput(format string) error {
	switch format {
	case outputText, outputJSON, outputYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output %q: use text, json or yaml", format)
	}
}

// writeStructured writes v as JSON or YAML. It reports false for text output.
func writeStructured(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case outputJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return true, err
		}
		_, err = fmt.Fprintln(w, string(data))
		return true, err
	case outputYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return true, err
		}
		_, err = w.Write(data)
		return true, err
	default:
		return false, nil
	}
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}
