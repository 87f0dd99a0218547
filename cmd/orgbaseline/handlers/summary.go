package handlers

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/imamik/orgbaseline/internal/orchestration"
)

var (
	summaryColorGreen = lipgloss.Color("#22c55e")
	summaryColorBlue  = lipgloss.Color("#3b82f6")
	summaryColorDim   = lipgloss.Color("#6b7280")
	summaryColorWhite = lipgloss.Color("#f9fafb")
)

type summaryStyles struct {
	title   lipgloss.Style
	section lipgloss.Style
	name    lipgloss.Style
	value   lipgloss.Style
	dim     lipgloss.Style
}

func newSummaryStyles(styled bool) summaryStyles {
	if !styled {
		plain := lipgloss.NewStyle()
		return summaryStyles{title: plain, section: plain, name: plain, value: plain, dim: plain}
	}
	return summaryStyles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(summaryColorWhite),
		section: lipgloss.NewStyle().Bold(true).Foreground(summaryColorBlue),
		name:    lipgloss.NewStyle().Foreground(summaryColorDim),
		value:   lipgloss.NewStyle().Foreground(summaryColorGreen),
		dim:     lipgloss.NewStyle().Foreground(summaryColorDim),
	}
}

// renderSummary formats the run result. Terminal output is styled.
func renderSummary(result *orchestration.Result, styled bool) string {
	s := newSummaryStyles(styled)
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(s.title.Render("  Bootstrap complete"))
	b.WriteString("\n")
	b.WriteString(s.dim.Render("  " + strings.Repeat("═", 30)))
	b.WriteString("\n")

	writeSection(&b, s, "Organization", [][2]string{
		{"Organization", result.OrganizationID},
		{"Root", result.RootID},
		{"Policy", result.PolicyID},
		{"Policy ARN", result.PolicyARN},
	})

	stack := result.Stack
	if stack == nil {
		return b.String()
	}

	writeSection(&b, s, "Stack", [][2]string{
		{"Name", stack.Name},
		{"Status", stack.Status},
		{"ID", stack.ID},
	})

	if len(stack.Outputs) > 0 {
		rows := make([][2]string, 0, len(stack.Outputs))
		for _, o := range stack.Outputs {
			rows = append(rows, [2]string{o.Key, o.Value})
		}
		writeSection(&b, s, "Outputs", rows)
	}

	if len(stack.Parameters) > 0 {
		keys := make([]string, 0, len(stack.Parameters))
		for k := range stack.Parameters {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		rows := make([][2]string, 0, len(keys))
		for _, k := range keys {
			rows = append(rows, [2]string{k, stack.Parameters[k]})
		}
		writeSection(&b, s, "Parameters", rows)
	}

	return b.String()
}

func writeSection(b *strings.Builder, s summaryStyles, title string, rows [][2]string) {
	width := 0
	for _, row := range rows {
		width = max(width, len(row[0]))
	}

	b.WriteString("\n")
	b.WriteString(s.section.Render("  " + title))
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString("    ")
		b.WriteString(s.name.Render(fmt.Sprintf("%-*s", width, row[0])))
		b.WriteString("  ")
		b.WriteString(s.value.Render(row[1]))
		b.WriteString("\n")
	}
}
