// Package tui holds terminal presentation helpers for the CLI.
package tui

import (
	"fmt"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// PrintBanner outputs the ASCII art banner for interactive sessions.
// It stays silent when stdout is not a terminal so piped artifact
// output is never polluted.
func PrintBanner() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return
	}

	p := termenv.ColorProfile()
	lines := []string{
		"   __                      _            ",
		"  / _| ___  _   _ _ __   __| |_ __ _   _ ",
		" | |_ / _ \\| | | | '_ \\ / _` | '__| | | |",
		" |  _| (_) | |_| | | | | (_| | |  | |_| |",
		" |_|  \\___/ \\__,_|_| |_|\\__,_|_|   \\__, |",
		"                                   |___/ ",
	}
	colors := []string{"#818cf8", "#a78bfa", "#c084fc", "#e879f9", "#f472b6", "#fb7185"}

	fmt.Println()
	for i, line := range lines {
		fmt.Println(termenv.String(line).Foreground(p.Color(colors[i])))
	}
	fmt.Println()
}
