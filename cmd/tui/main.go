package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sparklabs/sparkchat/internal/client"
	"github.com/sparklabs/sparkchat/internal/tui"
)

func main() {
	baseURL := strings.TrimSpace(os.Getenv("SPARKCHAT_API_URL"))
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	api := client.New(baseURL)

	p := tea.NewProgram(tui.New(api), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error running chat UI: %v\n", err)
		os.Exit(1)
	}
}
