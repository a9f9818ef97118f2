package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sarchlab/fftsim/timing/config"
	"github.com/sarchlab/fftsim/timing/system"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"})

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"})

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#888888", Dark: "#888888"})

	passStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#1B7F3B", Dark: "#5FD787"})

	failStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#B00020", Dark: "#FF5F5F"})

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
)

func printReport(
	w io.Writer,
	sc *scenario,
	cfg *config.Config,
	stats system.Stats,
	runs [][]system.Output,
	results []blockResult,
) {
	var b strings.Builder

	b.WriteString(titleStyle.Render("FFTSim - "+sc.name) + "\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf(
		"N=%d  cores=%d  hop=%d  addr=%db  data=%db",
		cfg.FFTSize, cfg.NumCores, cfg.HopSize, cfg.AddrWidth, cfg.DataWidth)) + "\n\n")

	b.WriteString(headerStyle.Render("System") + "\n")
	fmt.Fprintf(&b, "  Cycles:         %d\n", stats.Cycles)
	fmt.Fprintf(&b, "  Starts:         %d\n", stats.Starts)
	fmt.Fprintf(&b, "  Ignored starts: %d\n\n", stats.IgnoredStarts)

	b.WriteString(headerStyle.Render("Cores") + "\n")
	for i, c := range stats.Cores {
		fmt.Fprintf(&b, "  core %d: transfers=%d in=%d out=%d blocks=%d\n",
			i, c.Transfers, c.SamplesIn, c.SamplesOut, c.Blocks)
	}
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Outputs") + "\n")
	for r, outs := range runs {
		for _, o := range outs {
			fmt.Fprintf(&b, "  run %d cycle %4d core %d [%d] %v\n", r, o.Cycle, o.Core, o.Index, o.Data)
		}
	}
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Verification") + "\n")
	for _, r := range results {
		label := fmt.Sprintf("  run %d core %d block %d (%d outputs): ", r.run, r.core, r.block, r.outputs)
		switch {
		case r.partial:
			b.WriteString(label + dimStyle.Render("partial, not compared") + "\n")
		case len(r.mismatches) == 0:
			b.WriteString(label + passStyle.Render("PASS") + "\n")
		default:
			b.WriteString(label + failStyle.Render(fmt.Sprintf("FAIL (%d)", len(r.mismatches))) + "\n")
			for _, m := range r.mismatches {
				b.WriteString("    " + m.String() + "\n")
			}
		}
	}

	fmt.Fprintln(w, boxStyle.Render(strings.TrimRight(b.String(), "\n")))
}
