package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/ukaji3/csv2xlsx-go/pkg/csv2xlsx/models"
)

// renderSummary lists one line per sheet with source paths shown relative
// to the input directory.
func renderSummary(result *models.WorkbookResult, inputDir string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Sheet", "Source", "Delimiter", "Rows", "Cols", "Status"})

	for _, s := range result.Sheets {
		source := s.Source
		if rel, err := filepath.Rel(inputDir, s.Source); err == nil {
			source = filepath.ToSlash(rel)
		}
		delimiter := s.Delimiter
		if delimiter != "" && s.Sniffed {
			delimiter += " (detected)"
		}
		status := "ok"
		if !s.OK() {
			status = "warning"
		}
		tw.AppendRow(table.Row{s.Title, source, delimiter, humanize.Comma(int64(s.Rows)), strconv.Itoa(s.Cols), status})
	}

	tw.AppendFooter(table.Row{
		fmt.Sprintf("%d sheets", len(result.Sheets)),
		humanize.Bytes(uint64(result.Size)),
		"",
		humanize.Comma(int64(result.TotalRows())),
		"",
		fmt.Sprintf("%d warnings", result.Warnings()),
	})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	return tw.Render()
}
