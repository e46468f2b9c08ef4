// Package cli runs the interactive terminal menu for the guest list.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"wedding-guests/internal/export"
	"wedding-guests/internal/form"
	"wedding-guests/internal/handler"
	"wedding-guests/internal/models"
	"wedding-guests/internal/store"
	"wedding-guests/internal/view"
)

// Sharer sends the guest list somewhere outside the app
type Sharer interface {
	Send(ctx context.Context) error
}

type Config struct {
	Store     *store.Store
	Grid      *view.Grid
	ExportDir string
	// Share is optional; nil disables the share command
	Share Sharer
}

type CLI struct {
	scanner *bufio.Scanner
	out     io.Writer
	cfg     Config
	log     zerolog.Logger
	exports sync.WaitGroup
}

func New(in io.Reader, out io.Writer, cfg Config, log zerolog.Logger) *CLI {
	return &CLI{
		scanner: bufio.NewScanner(in),
		out:     out,
		cfg:     cfg,
		log:     log.With().Str("component", "cli").Logger(),
	}
}

// Run shows the menu until the user exits or input ends
func (c *CLI) Run(ctx context.Context) {
	for {
		c.printf("\nCommands:\n")
		c.printf("  1. Add guest\n")
		c.printf("  2. View guests\n")
		c.printf("  3. Edit guest\n")
		c.printf("  4. Delete guests\n")
		c.printf("  5. Export to Excel\n")
		c.printf("  6. Share list via WhatsApp\n")
		c.printf("  7. Clear list\n")
		c.printf("  8. Exit\n")

		command, ok := c.prompt("\nEnter command (1-8): ")
		if !ok {
			return
		}

		switch command {
		case "1":
			c.addGuest()
		case "2":
			c.viewGuests()
		case "3":
			c.editGuest()
		case "4":
			c.deleteGuests()
		case "5":
			c.exportGuests()
		case "6":
			c.shareGuests(ctx)
		case "7":
			c.clearGuests()
		case "8":
			c.printf("Exiting...\n")
			return
		default:
			c.printf("Invalid command. Please try again.\n")
		}
	}
}

// Wait blocks until background exports have finished
func (c *CLI) Wait() {
	c.exports.Wait()
}

func (c *CLI) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *CLI) prompt(label string) (string, bool) {
	c.printf("%s", label)
	if !c.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.scanner.Text()), true
}

var fieldLabels = map[form.Field]string{
	form.FirstName:   "First name",
	form.LastName:    "Last name",
	form.Description: "Description",
	form.Side:        "Side",
	form.Relation:    "Relation",
}

func (c *CLI) addGuest() {
	f := form.New(form.Config{
		OnSubmit: func(input models.NewGuest) {
			g := c.cfg.Store.Add(input)
			c.printf("✅ Added %s\n", g.FullName)
		},
	})

	pending := form.Fields
	for {
		for _, field := range pending {
			value, ok := c.askField(field)
			if !ok {
				return
			}
			f.Set(field, value)
		}

		err := f.Submit()
		if err == nil {
			return
		}
		var verrs form.ValidationErrors
		if !errors.As(err, &verrs) {
			c.printf("❌ %v\n", err)
			return
		}

		pending = pending[:0:0]
		for _, field := range form.Fields {
			if msg, bad := verrs[field]; bad {
				c.printf("❌ %s: %s\n", fieldLabels[field], msg)
				pending = append(pending, field)
			}
		}
	}
}

func (c *CLI) askField(field form.Field) (string, bool) {
	var options []string
	switch field {
	case form.Side:
		options = models.Sides
	case form.Relation:
		options = models.Relations
	}
	if len(options) == 0 {
		return c.prompt(fieldLabels[field] + ": ")
	}

	for i, o := range options {
		c.printf("  %d. %s\n", i+1, o)
	}
	value, ok := c.prompt(fieldLabels[field] + " (number, text or empty): ")
	if !ok {
		return "", false
	}
	if n, err := strconv.Atoi(value); err == nil && n >= 1 && n <= len(options) {
		return options[n-1], true
	}
	return value, true
}

func (c *CLI) viewGuests() {
	rows := c.cfg.Grid.Rows()
	if len(rows) == 0 {
		c.printf("\nNo guests found.\n")
		return
	}

	c.printf("\n📋 All Guests (%d total):\n", len(rows))
	c.printf("%s\n", strings.Repeat("-", 60))
	for i, g := range rows {
		c.printf("%d. %s | %s | %s | %s\n", i+1, g.FullName, g.Description, g.Side, g.Relation)
	}
	c.printf("%s\n", strings.Repeat("-", 60))
}

// pickRow asks for a 1-based row number and returns that guest
func (c *CLI) pickRow(rows []models.Guest, label string) (models.Guest, bool) {
	value, ok := c.prompt(label)
	if !ok {
		return models.Guest{}, false
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 || n > len(rows) {
		c.printf("Invalid row.\n")
		return models.Guest{}, false
	}
	return rows[n-1], true
}

var editFields = []struct {
	name  string
	label string
}{
	{models.FieldFullName, "Full name"},
	{models.FieldDescription, "Description"},
	{models.FieldSide, "Side"},
	{models.FieldRelation, "Relation"},
}

func (c *CLI) editGuest() {
	rows := c.cfg.Grid.Rows()
	if len(rows) == 0 {
		c.printf("\nNo guests found.\n")
		return
	}
	c.viewGuests()

	guest, ok := c.pickRow(rows, "Row to edit: ")
	if !ok {
		return
	}

	for i, f := range editFields {
		c.printf("  %d. %s\n", i+1, f.label)
	}
	choice, ok := c.prompt("Field (1-4): ")
	if !ok {
		return
	}
	n, err := strconv.Atoi(choice)
	if err != nil || n < 1 || n > len(editFields) {
		c.printf("Invalid field.\n")
		return
	}

	value, ok := c.prompt("New value: ")
	if !ok {
		return
	}
	edit, err := models.ParseFieldEdit(editFields[n-1].name, value)
	if err != nil {
		c.printf("❌ %v\n", err)
		return
	}
	c.cfg.Grid.CommitEdit(guest.ID, edit)
	c.printf("✅ Updated\n")
}

func (c *CLI) deleteGuests() {
	rows := c.cfg.Grid.Rows()
	if len(rows) == 0 {
		c.printf("\nNo guests found.\n")
		return
	}
	c.viewGuests()

	value, ok := c.prompt("Rows to delete (e.g. 1,3): ")
	if !ok {
		return
	}

	c.cfg.Grid.ClearSelection()
	for _, part := range strings.Split(value, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 1 || n > len(rows) {
			continue
		}
		c.cfg.Grid.Select(rows[n-1].ID, true)
	}
	if !c.cfg.Grid.CanDelete() {
		c.printf("Nothing selected.\n")
		return
	}

	deleted := c.cfg.Grid.DeleteSelected()
	c.printf("🗑  Deleted %d guest(s)\n", deleted)
}

// exportGuests writes the workbook in the background; the outcome is only
// logged
func (c *CLI) exportGuests() {
	records := export.Relabel(c.cfg.Grid.Rows())

	c.exports.Add(1)
	go func() {
		defer c.exports.Done()
		path, err := export.ToDir(c.cfg.ExportDir, records)
		if err != nil {
			c.log.Error().Err(err).Msg("Export failed")
			return
		}
		if path != "" {
			c.log.Info().Str("path", path).Int("guests", len(records)).Msg("Exported guest list")
		}
	}()
}

func (c *CLI) shareGuests(ctx context.Context) {
	if c.cfg.Share == nil {
		c.printf("WhatsApp sharing is disabled.\n")
		return
	}

	c.printf("Sending guest list...\n")
	err := c.cfg.Share.Send(ctx)
	switch {
	case errors.Is(err, handler.ErrNothingToShare):
		c.printf("No guests to share.\n")
	case err != nil:
		c.printf("❌ Error sharing guest list: %v\n", err)
	default:
		c.printf("✅ Guest list sent!\n")
	}
}

func (c *CLI) clearGuests() {
	answer, ok := c.prompt("Clear the whole list? (y/N): ")
	if !ok {
		return
	}
	if !strings.EqualFold(answer, "y") {
		c.printf("Cancelled.\n")
		return
	}
	c.cfg.Store.Clear()
	c.printf("List cleared.\n")
}
