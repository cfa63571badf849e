package main

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/fillblanks/internal/deck"
	"github.com/lox/fillblanks/internal/game"
)

// DeckCmd groups deck subcommands
type DeckCmd struct {
	Check DeckCheckCmd `cmd:"" help:"Validate a deck file and print its statistics"`
}

// DeckCheckCmd loads a deck the same way the server does and reports on it
type DeckCheckCmd struct {
	File        string `arg:"" optional:"" help:"Deck file (JSON or HCL); the built-in deck when omitted"`
	BlankMarker string `default:"{blank}" help:"Blank marker used by the prompts"`
	MaxPicks    int    `default:"3" help:"Largest number of cards a prompt may ask for"`
}

var (
	deckTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	deckWarnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFEAA7"))
)

func (c *DeckCheckCmd) Run() error {
	source, err := loadDeck(c.File)
	if err != nil {
		return err
	}
	name := c.File
	if name == "" {
		name = "built-in deck"
	}
	return c.report(os.Stdout, name, source)
}

func (c *DeckCheckCmd) report(w io.Writer, name string, source *deck.Source) error {
	stats := source.Stats(c.BlankMarker)

	fmt.Fprintln(w, deckTitleStyle.Render(name))
	fmt.Fprintf(w, "Prompts: %d\n", stats.Prompts)
	fmt.Fprintf(w, "Answers: %d\n", stats.Answers)

	blanks := make([]int, 0, len(stats.BlanksHistogram))
	for n := range stats.BlanksHistogram {
		blanks = append(blanks, n)
	}
	slices.Sort(blanks)
	for _, n := range blanks {
		fmt.Fprintf(w, "  %d blank(s): %d\n", n, stats.BlanksHistogram[n])
	}

	var problems []string
	if stats.Prompts == 0 {
		problems = append(problems, "no prompts, every round uses the default prompt")
	}
	if stats.Answers == 0 {
		problems = append(problems, "no answers, hands will stay empty")
	}
	for _, p := range source.Prompts {
		if game.CountBlanks(p, c.BlankMarker) > c.MaxPicks {
			problems = append(problems, fmt.Sprintf("prompt asks for more than %d cards: %q", c.MaxPicks, p))
		}
	}

	for _, p := range problems {
		fmt.Fprintln(w, deckWarnStyle.Render("warning: "+p))
	}
	if stats.Prompts == 0 && stats.Answers == 0 {
		return fmt.Errorf("deck %s is empty", name)
	}
	return nil
}
