package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	inkpad "github.com/driftlab/inkpad"
	"github.com/driftlab/inkpad/ai"
	"github.com/driftlab/inkpad/app"
	"github.com/driftlab/inkpad/config"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Println("inkpad", inkpad.VersionTag())
		return
	}

	settings := config.Load(config.DefaultPath())
	env := config.LoadEnv()

	// Environment overrides win over the settings file for the AI knobs
	// so a missing key can disable the assistant without editing JSON.
	enabled := settings.AIEnabled && env.Enabled
	client := ai.NewClient(ai.Config{
		APIKey:      env.APIKey,
		Model:       env.Model,
		Temperature: env.Temperature,
		MaxTokens:   env.MaxTokens,
		Enabled:     enabled,
	})
	if env.DelayMS > 0 {
		settings.AISuggestionMS = env.DelayMS
	}
	settings.AIAutoSuggest = settings.AIAutoSuggest && env.AutoSuggest

	m := app.New(settings, client, os.Args[1:])
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "inkpad:", err)
		os.Exit(1)
	}
}
