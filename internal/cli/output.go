package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
)

// emit writes v as indented JSON or renders it through text.
func (a *app) emit(v any, text func(w io.Writer)) error {
	if a.opts.Output == "json" {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	text(tw)
	return tw.Flush()
}

// row writes tab-separated cells terminated by a newline.
func row(w io.Writer, cells ...any) {
	for i, c := range cells {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		switch v := c.(type) {
		case float64:
			fmt.Fprintf(w, "%.6g", v)
		default:
			fmt.Fprint(w, v)
		}
	}
	fmt.Fprintln(w)
}
