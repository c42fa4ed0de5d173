package rackview

import (
	"fmt"
	"strings"

	"dcmonitor/internal/rack"
	"dcmonitor/internal/service"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#22D3EE"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	emptyFace  = lipgloss.NewStyle().Background(lipgloss.Color("#374151"))
)

const (
	faceWidth   = 2
	cellSpacing = " "
)

func faceStyle(b rack.Bucket) lipgloss.Style {
	hex := b.Hex()
	if hex == "" {
		return emptyFace
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(hex))
}

// faceBuckets colors of the left and right face of a heatmap cell.
func faceBuckets(c service.HeatmapCell) (left, right rack.Bucket, err error) {
	p, err := rack.ResolvePositions(c.ColumnLabel)
	if err != nil {
		return 0, 0, err
	}
	if p.Intake == rack.SideLeft {
		return c.FrontColor, c.BackColor, nil
	}
	return c.BackColor, c.FrontColor, nil
}

func renderCell(c service.HeatmapCell) string {
	left, right, err := faceBuckets(c)
	blank := strings.Repeat(" ", faceWidth)
	if err != nil {
		return emptyFace.Render(blank + blank)
	}
	return faceStyle(left).Render(blank) + faceStyle(right).Render(blank)
}

func renderGrid(h *service.HeatmapResponse) string {
	cells := make(map[[2]int]service.HeatmapCell, len(h.Data))
	for _, c := range h.Data {
		cells[[2]int{c.Row, c.Col}] = c
	}

	var b strings.Builder
	b.WriteString("    ")
	for _, label := range rack.ColumnLabels() {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", 2*faceWidth, " "+label)))
		b.WriteString(cellSpacing)
	}
	b.WriteString("\n")

	blank := emptyFace.Render(strings.Repeat(" ", 2*faceWidth))
	for row := 1; row <= rack.Rows; row++ {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%3d ", row)))
		for col := 1; col <= rack.Columns; col++ {
			if c, ok := cells[[2]int{row, col}]; ok {
				b.WriteString(renderCell(c))
			} else {
				b.WriteString(blank)
			}
			b.WriteString(cellSpacing)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderLegend(h *service.HeatmapResponse) string {
	parts := make([]string, 0, len(h.Scale.Colors)+1)
	parts = append(parts, labelStyle.Render(fmt.Sprintf("%s..%s",
		rack.FormatValue(h.Scale.Min, h.Type), rack.FormatValue(h.Scale.Max, h.Type))))
	for _, c := range h.Scale.Colors {
		parts = append(parts, faceStyle(c).Render("  ")+" "+c.String())
	}
	return strings.Join(parts, "  ")
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("dcmonitor  %s  %s", m.room(), m.metric)))
	if m.loading {
		b.WriteString(labelStyle.Render("  loading..."))
	}
	b.WriteString("\n\n")

	if m.heatmap != nil {
		b.WriteString(renderGrid(m.heatmap))
		b.WriteString("\n")
		b.WriteString(renderLegend(m.heatmap))
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("updated " + m.updated.Format("15:04:05")))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("t/h/a metric  n/p room  r refresh  q quit"))
	return b.String()
}
