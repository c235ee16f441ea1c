package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ayush-velhal/portfolio/internal/store"
)

var (
	accent = lipgloss.Color("#8BC34A")
	muted  = lipgloss.Color("#6c7a89")
	danger = lipgloss.Color("#e53935")

	titleStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true).
			MarginBottom(1)

	metaStyle = lipgloss.NewStyle().
			Foreground(muted)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(danger).
			Bold(true)
)

func newMessagesCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "messages",
		Short: "List received contact messages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			records, err := a.store.LoadAll()
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render("Could not read "+a.store.Location()))
				return err
			}
			return printMessages(cmd.OutOrStdout(), a.store.Location(), records, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print messages as JSON")
	return cmd
}

// printMessages writes records oldest first.
func printMessages(w io.Writer, location string, records []store.ContactMessage, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%d message(s) in %s", len(records), location)))
	if len(records) == 0 {
		fmt.Fprintln(w, metaStyle.Render("No messages yet."))
		return nil
	}

	for _, r := range records {
		var b strings.Builder
		b.WriteString(lipgloss.NewStyle().Bold(true).Render(r.Name))
		b.WriteString(" ")
		b.WriteString(metaStyle.Render("<" + r.Email + "> " + r.Timestamp))
		b.WriteString("\n")
		b.WriteString(r.Message)
		fmt.Fprintln(w, cardStyle.Render(b.String()))
	}
	return nil
}
