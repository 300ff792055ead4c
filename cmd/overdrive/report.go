package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/cwbudde/algo-overdrive/dsp/pedal"
)

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#A40000")).
	MarginBottom(1)

var labelStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#FFA500")).
	Width(14)

var valueStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#00AAAA")).
	Bold(true)

var noteStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#888888")).
	Italic(true)

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FFA500")).
	Padding(0, 1)

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func field(label, format string, args ...any) string {
	return labelStyle.Render(label) + valueStyle.Render(fmt.Sprintf(format, args...))
}

func printRender(c *renderCmd, e *pedal.Engine, s renderStats) {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("overdrive render"))
	sb.WriteString("\n")

	tone := fmt.Sprintf("%.3f", c.Tone)
	if c.Sweep {
		tone = "sweep 0 -> 1"
	}

	lines := []string{
		field("input", "%.1f Hz at %.1f dBFS, %.2f s", c.Freq, c.Level, c.Seconds),
		field("stream", "%.0f Hz, %d-sample blocks, %dx %s", c.Rate, c.Block, e.Oversampling(), c.Quality),
		field("controls", "tone %s, drive %.1f dB, %s clipper", tone, c.Drive, c.Clipper),
		field("peak", "%.2f dBFS", s.peakDB),
		field("rms", "%.2f dBFS", s.rmsDB),
		field("latency", "%.3f samples (reported %d)", s.latency, s.latencyInt),
	}

	if s.analysis.FundamentalLevel > 0 {
		lines = append(lines,
			field("thd", "%.3f%% (%.1f dB)", 100*s.analysis.THD, s.analysis.THDdB),
			field("alias+noise", "%.1f dB re fundamental", s.analysis.AliasRatioDB),
		)
	} else {
		lines = append(lines, noteStyle.Render("no fundamental found; distortion figures skipped"))
	}

	sb.WriteString(lipgloss.JoinVertical(lipgloss.Left, lines...))
	fmt.Println(sb.String())
}

func paramsTable(params []pedal.Param) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(noteStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			return cellStyle
		}).
		Headers("ID", "Name", "Min", "Max", "Step", "Default", "Unit")

	for _, p := range params {
		t.Row(p.ID, p.Name,
			fmt.Sprintf("%g", p.Min), fmt.Sprintf("%g", p.Max),
			fmt.Sprintf("%g", p.Step), fmt.Sprintf("%g", p.Default), p.Unit)
	}

	return t.String()
}
