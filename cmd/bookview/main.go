// Command bookview is a terminal viewer for a running matching engine's
// order book, polling its introspection HTTP endpoints and rendering
// the resting ladder with bubbletea.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	addr := flag.String("addr", "http://localhost:8080", "matching engine introspection base URL")
	pair := flag.String("pair", "index/numeraire", "trading pair label to display")
	flag.Parse()

	c := newClient(*addr)
	m := newModel(c, *pair)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "bookview: %v\n", err)
		os.Exit(1)
	}
}
