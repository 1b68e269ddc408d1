package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"renamer/internal/app/hashsum"
	"renamer/internal/domain/model"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func renderResult(res model.CommandResult) string {
	title := res.Command
	if res.PlanID != "" {
		title += " " + res.PlanID
	}
	if res.DryRun {
		title += " (dry run)"
	}

	parts := []string{headerStyle.Render(title)}
	if len(res.Items) > 0 {
		parts = append(parts, itemsTable(res.Items))
	}
	if fds, ok := res.Digests.([]hashsum.FileDigests); ok && len(fds) > 0 {
		parts = append(parts, digestsTable(fds))
	}
	parts = append(parts, faintStyle.Render(summaryLine(res.Summary)))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return cellStyle.Bold(true)
			}
			return cellStyle
		})
}

func itemsTable(items []model.RenameItem) string {
	t := newTable("#", "Original", "New", "Size", "Result")
	for i, it := range items {
		if it.Dummy {
			t.Row(fmt.Sprint(i+1), "<placeholder>", "", "", it.Result)
			continue
		}
		result := it.Result
		if it.Error != "" {
			result += ": " + it.Error
		}
		t.Row(fmt.Sprint(i+1), it.OriginalName, it.CandidateName, model.FormatSize(it.SizeBytes), result)
	}
	return t.String()
}

func digestsTable(fds []hashsum.FileDigests) string {
	kindSet := make(map[string]bool)
	for _, fd := range fds {
		for k := range fd.Digests {
			kindSet[k] = true
		}
	}
	kinds := make([]string, 0, len(kindSet))
	for k := range kindSet {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	headers := append([]string{"Path"}, kinds...)
	t := newTable(append(headers, "Error")...)
	for _, fd := range fds {
		row := []string{fd.Path}
		for _, k := range kinds {
			row = append(row, fd.Digests[k])
		}
		t.Row(append(row, fd.Error)...)
	}
	return t.String()
}

func summaryLine(s model.Summary) string {
	fields := []string{
		fmt.Sprintf("total=%d", s.ItemsTotal),
		fmt.Sprintf("selected=%d", s.ItemsSelected),
		fmt.Sprintf("named=%d", s.ItemsNamed),
		fmt.Sprintf("renamed=%d", s.ItemsRenamed),
	}
	if s.Passes > 0 {
		fields = append(fields, fmt.Sprintf("passes=%d", s.Passes))
	}
	if s.Outcome != "" {
		fields = append(fields, "outcome="+string(s.Outcome))
	}
	fields = append(fields, fmt.Sprintf("errors=%d", s.Errors))
	return strings.Join(fields, " ")
}
