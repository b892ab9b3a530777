package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

var formats = []string{"table", "json", "yaml"}

// row is the result of evaluating at one input.
type row struct {
	Input  string `json:"t" yaml:"t"`
	Output string `json:"value,omitempty" yaml:"value,omitempty"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`

	err error
}

type report struct {
	Expr string `json:"expr" yaml:"expr"`
	Tree string `json:"tree,omitempty" yaml:"tree,omitempty"`
	Rows []row  `json:"results" yaml:"results"`
}

// write renders rep to w in the named format.
func write(w io.Writer, format string, rep *report) error {
	switch format {
	case "table":
		return writeTable(w, rep)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeTable(w io.Writer, rep *report) error {
	if rep.Tree != "" {
		if _, err := fmt.Fprintln(w, rep.Tree); err != nil {
			return err
		}
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "T\tVALUE")
	for _, r := range rep.Rows {
		v := r.Output
		if r.Error != "" {
			v = "error: " + r.Error
		}
		fmt.Fprintf(tw, "%s\t%s\n", r.Input, v)
	}
	return tw.Flush()
}
