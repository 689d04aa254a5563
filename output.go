package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"toydbms/pkg/tuple"
)

const (
	formatTSV   = "tsv"
	formatTable = "table"
)

// writeRows prints a header line followed by one line per row.
func writeRows(w io.Writer, format string, h *tuple.Header, rows []*tuple.Row) error {
	if format == formatTable {
		table := tablewriter.NewWriter(w)
		table.SetAutoFormatHeaders(false)
		table.SetAutoWrapText(false)
		table.SetHeader(h.Names())
		for _, r := range rows {
			table.Append(fields(r))
		}
		table.Render()
		_, err := fmt.Fprintf(w, "(%d row%s)\n", len(rows), plural(len(rows)))
		return err
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, strings.Join(h.Names(), "\t"))
	for _, r := range rows {
		fmt.Fprintln(bw, strings.Join(fields(r), "\t"))
	}
	return bw.Flush()
}

func fields(r *tuple.Row) []string {
	out := make([]string, r.Len())
	for i, v := range r.Values() {
		out[i] = v.String()
	}
	return out
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
