package main

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/agent-call/console/internal/app"
	"github.com/agent-call/console/internal/call"
	"github.com/agent-call/console/internal/client"
	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	serverURL := flag.String("server", "http://127.0.0.1:8080", "Base URL of the agent server")
	debugLog := flag.String("debug", "", "Write a debug log to this file")
	flag.Parse()

	if *debugLog != "" {
		f, err := tea.LogToFile(*debugLog, "call-tui")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	}

	tokens := client.NewTokenClient(*serverURL)
	fabric := client.NewFabric(deriveWSURL(*serverURL))
	ctrl := call.NewController(tokens, call.WrapFabric(fabric))

	m := app.New(ctrl)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// deriveWSURL converts http://host:port → ws://host:port/ws
func deriveWSURL(base string) string {
	u, err := url.Parse(base)
	if err != nil {
		return "ws://127.0.0.1:8080/ws"
	}
	scheme := "ws"
	if strings.HasPrefix(u.Scheme, "https") {
		scheme = "wss"
	}
	return fmt.Sprintf("%s://%s/ws", scheme, u.Host)
}
