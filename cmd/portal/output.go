// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Styles for terminal output. Rendering degrades to plain text when
// stdout is not a TTY or --no-color is set.
var (
	styleHeader  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	styleMuted   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleLabel   = lipgloss.NewStyle().Bold(true)

	stylesEnabled = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
)

func disableStyles() {
	stylesEnabled = false
}

func render(style lipgloss.Style, s string) string {
	if !stylesEnabled {
		return s
	}
	return style.Render(s)
}

func headerf(format string, args ...any) {
	fmt.Println(render(styleHeader, fmt.Sprintf(format, args...)))
}

func successf(format string, args ...any) {
	fmt.Println(render(styleSuccess, fmt.Sprintf(format, args...)))
}

func errorf(format string, args ...any) {
	fmt.Fprintln(os.Stderr, render(styleError, fmt.Sprintf(format, args...)))
}

func mutedf(format string, args ...any) {
	fmt.Println(render(styleMuted, fmt.Sprintf(format, args...)))
}

// field prints an aligned "Label: value" line.
func field(label, value string) {
	fmt.Printf("  %s %s\n", render(styleLabel, label+":"), value)
}

// table prints rows with columns padded to the widest cell.
func table(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	for i, h := range headers {
		b.WriteString(pad(h, widths[i]))
		b.WriteString("  ")
	}
	fmt.Println(render(styleLabel, strings.TrimRight(b.String(), " ")))

	for _, row := range rows {
		b.Reset()
		for i, cell := range row {
			if i < len(widths) {
				b.WriteString(pad(cell, widths[i]))
				b.WriteString("  ")
			}
		}
		fmt.Println(strings.TrimRight(b.String(), " "))
	}
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
