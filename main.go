package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jkarlsen/vitals/internal/health"
	"github.com/jkarlsen/vitals/internal/tui"
)

func main() {
	var (
		dbPath string
		demo   bool
	)
	flag.StringVar(&dbPath, "db", "", "path to the health database (default: user config dir)")
	flag.BoolVar(&demo, "demo", false, "seed a 30-day demo dataset into an empty database")
	flag.Parse()

	if dbPath == "" {
		p, err := health.DefaultDBPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		dbPath = p
	}

	s, err := health.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening health database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	if demo {
		if err := s.SeedDemo(30); err != nil {
			fmt.Fprintf(os.Stderr, "error seeding demo data: %v\n", err)
			os.Exit(1)
		}
	}

	app := tui.NewApp(s)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
