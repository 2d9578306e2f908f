package app

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"zerostour/internal/catalog"
	"zerostour/internal/listing"

	"github.com/gosuri/uitable"
)

const maxColWidth = 40

func printScreens(w io.Writer, infos []catalog.Info) {
	table := uitable.New()
	table.MaxColWidth = maxColWidth
	table.AddRow("SCREEN", "TITLE", "RESOURCE", "OPTIONS")
	for _, info := range infos {
		table.AddRow(info.Slug, info.Title, info.Name, info.HasOptions)
	}
	fmt.Fprintln(w, table)
}

func printOutcome(w io.Writer, info catalog.Info, out catalog.Outcome) {
	table := uitable.New()
	table.MaxColWidth = maxColWidth
	table.AddRow(cells(info.Columns)...)
	for _, row := range out.Rows {
		table.AddRow(cells(row)...)
	}
	fmt.Fprintln(w, table)

	if out.Footer.Error != "" {
		fmt.Fprintf(w, "Error: could not load %s\n", info.Title)
		return
	}
	if len(out.Rows) == 0 {
		fmt.Fprintln(w, "No records.")
	}
	fmt.Fprintf(w, "%s  page %s\n", out.Footer.Summary, renderLinks(out.Footer.Links))
}

func cells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// renderLinks prints the page selector, e.g. "1 … [6] 7 8 … 10".
func renderLinks(links []listing.Link) string {
	if len(links) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(links))
	for _, l := range links {
		switch {
		case l.Ellipsis:
			parts = append(parts, "…")
		case l.Active:
			parts = append(parts, "["+strconv.Itoa(l.Page)+"]")
		default:
			parts = append(parts, strconv.Itoa(l.Page))
		}
	}
	return strings.Join(parts, " ")
}
