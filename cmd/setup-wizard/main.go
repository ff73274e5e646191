// Command setup-wizard finishes a first OAuth login from the terminal. Pass the
// URL the backend redirected the browser to after sign-in.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"jobportal/internal/tui"
	"jobportal/internal/wizard"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	api := flag.String("api", "http://localhost:8375", "Backend base URL")
	frontend := flag.String("frontend", "http://localhost:5173", "Frontend base URL for the final redirect")
	markers := flag.String("markers", "", "Marker file (defaults to the user config directory)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: setup-wizard [flags] <callback-url>\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cb, err := wizard.ParseCallback(flag.Arg(0))
	if err != nil {
		log.Fatalf("Invalid callback URL: %v", err)
	}

	path := *markers
	if path == "" {
		if path, err = wizard.DefaultMarkerPath(); err != nil {
			log.Fatalf("Cannot locate config directory: %v", err)
		}
	}

	machine := wizard.NewMachine(wizard.NewClient(*api), wizard.NewFileMarkerStore(path))
	final, err := tea.NewProgram(tui.New(machine, cb, *frontend)).Run()
	if err != nil {
		log.Fatalf("Wizard failed: %v", err)
	}

	if target := final.(tui.Model).Target(); target != "" {
		fmt.Println(target)
		return
	}
	os.Exit(1)
}
