package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner shown by long-running commands.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	// Subtle gradient, teal to indigo
	s1 := termenv.String(" _       _   _   _          ").Foreground(p.Color("#2dd4bf"))
	s2 := termenv.String("| | __ _| |_| |_(_) ___ ___ ").Foreground(p.Color("#38bdf8"))
	s3 := termenv.String("| |/ _` | __| __| |/ __/ _ \\").Foreground(p.Color("#60a5fa"))
	s4 := termenv.String("| | (_| | |_| |_| | (_|  __/").Foreground(p.Color("#818cf8"))
	s5 := termenv.String("|_|\\__,_|\\__|\\__|_|\\___\\___|").Foreground(p.Color("#a78bfa"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println(termenv.String(fmt.Sprintf("  architecture flow analyzer %s", version)).Faint())
	fmt.Println()
}
