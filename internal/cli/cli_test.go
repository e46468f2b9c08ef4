package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"wedding-guests/internal/export"
	"wedding-guests/internal/form"
	"wedding-guests/internal/handler"
	"wedding-guests/internal/models"
	"wedding-guests/internal/storage"
	"wedding-guests/internal/store"
	"wedding-guests/internal/view"
)

type fakeSharer struct {
	calls int
	err   error
}

func (f *fakeSharer) Send(context.Context) error {
	f.calls++
	return f.err
}

func run(t *testing.T, s *store.Store, cfg Config, input ...string) string {
	t.Helper()
	grid := view.NewGrid(s)
	t.Cleanup(grid.Close)
	cfg.Store = s
	cfg.Grid = grid

	var out bytes.Buffer
	c := New(strings.NewReader(strings.Join(input, "\n")+"\n"), &out, cfg, zerolog.Nop())
	c.Run(context.Background())
	c.Wait()
	return out.String()
}

func newStore() *store.Store {
	return store.Open(storage.NewMemory(), zerolog.Nop())
}

func TestAddGuestRepromptsInvalidFields(t *testing.T) {
	s := newStore()
	out := run(t, s, Config{},
		"1", "D", "Cohen", "cousin", "1", "2",
		"Dana",
		"8",
	)

	require.Contains(t, out, "First name: "+form.MsgMinLen(2))
	guests := s.Guests()
	require.Len(t, guests, 1)
	require.Equal(t, "Dana Cohen", guests[0].FullName)
	require.Equal(t, "cousin", guests[0].Description)
	require.Equal(t, models.Sides[0], guests[0].Side)
	require.Equal(t, models.Relations[1], guests[0].Relation)
}

func TestEditAndDelete(t *testing.T) {
	s := newStore()
	s.Add(models.NewGuest{FirstName: "Dana", LastName: "Cohen", Side: "צד כלה", Relation: "משפחה"})
	avi := s.Add(models.NewGuest{FirstName: "Avi", LastName: "Levi", Side: "צד חתן"})

	run(t, s, Config{},
		"3", "2", "2", "best man",
		"4", "1",
		"8",
	)

	guests := s.Guests()
	require.Len(t, guests, 1)
	want := avi
	want.Description = "best man"
	require.Equal(t, want, guests[0])
}

func TestDeleteIgnoresBadRows(t *testing.T) {
	s := newStore()
	s.Add(models.NewGuest{FirstName: "Dana", LastName: "Cohen"})

	out := run(t, s, Config{}, "4", "7, x", "8")

	require.Contains(t, out, "Nothing selected.")
	require.Equal(t, 1, s.Len())
}

func TestClearNeedsConfirmation(t *testing.T) {
	s := newStore()
	s.Add(models.NewGuest{FirstName: "Dana", LastName: "Cohen"})

	run(t, s, Config{}, "7", "n", "8")
	require.Equal(t, 1, s.Len())

	run(t, s, Config{}, "7", "y", "8")
	require.Zero(t, s.Len())
}

func TestExportWritesFile(t *testing.T) {
	dir := t.TempDir()
	s := newStore()

	run(t, s, Config{ExportDir: dir}, "5", "8")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries, "empty list exports nothing")

	s.Add(models.NewGuest{FirstName: "Dana", LastName: "Cohen"})
	run(t, s, Config{ExportDir: dir}, "5", "8")
	_, err = os.Stat(filepath.Join(dir, export.FileName))
	require.NoError(t, err)
}

func TestShare(t *testing.T) {
	s := newStore()

	out := run(t, s, Config{}, "6", "8")
	require.Contains(t, out, "WhatsApp sharing is disabled.")

	sharer := &fakeSharer{}
	out = run(t, s, Config{Share: sharer}, "6", "8")
	require.Equal(t, 1, sharer.calls)
	require.Contains(t, out, "Guest list sent!")

	out = run(t, s, Config{Share: &fakeSharer{err: handler.ErrNothingToShare}}, "6", "8")
	require.Contains(t, out, "No guests to share.")
}

func TestEOFStops(t *testing.T) {
	out := run(t, newStore(), Config{}, "2")
	require.Contains(t, out, "No guests found.")
}
