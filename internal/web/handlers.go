package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"wedding-guests/internal/export"
	"wedding-guests/internal/form"
	"wedding-guests/internal/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type row struct {
	models.Guest
	Selected bool
}

type pageData struct {
	Title     string
	Values    form.Values
	Errors    map[string]string
	Rows      []row
	Sides     []string
	Relations []string
}

func (s *Server) page(values form.Values, errs form.ValidationErrors) pageData {
	guests := s.grid.Rows()
	rows := make([]row, len(guests))
	for i, g := range guests {
		rows[i] = row{Guest: g, Selected: s.grid.IsSelected(g.ID)}
	}
	messages := make(map[string]string, len(errs))
	for field, msg := range errs {
		messages[string(field)] = msg
	}
	return pageData{
		Title:     s.title,
		Values:    values,
		Errors:    messages,
		Rows:      rows,
		Sides:     models.Sides,
		Relations: models.Relations,
	}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, "index.html", data); err != nil {
		s.respondError(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleIndex renders the page with an empty form
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, s.page(form.Values{}, nil))
}

// handleAddGuest validates the form and adds the guest
func (s *Server) handleAddGuest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, http.StatusBadRequest, err)
		return
	}

	f := form.New(form.Config{
		OnSubmit: func(input models.NewGuest) {
			g := s.store.Add(input)
			s.log.Info().Str("id", g.ID).Str("name", g.FullName).Msg("Guest added")
		},
	})
	values := form.Values{
		FirstName:   r.PostForm.Get(string(form.FirstName)),
		LastName:    r.PostForm.Get(string(form.LastName)),
		Description: r.PostForm.Get(string(form.Description)),
		Side:        r.PostForm.Get(string(form.Side)),
		Relation:    r.PostForm.Get(string(form.Relation)),
	}
	f.SetValues(values)

	if err := f.Submit(); err != nil {
		var verrs form.ValidationErrors
		if !errors.As(err, &verrs) {
			s.respondError(w, r, http.StatusInternalServerError, err)
			return
		}
		s.render(w, r, http.StatusUnprocessableEntity, s.page(values, verrs))
		return
	}

	redirectHome(w, r)
}

// handleUpdateField commits an inline cell edit
func (s *Server) handleUpdateField(w http.ResponseWriter, r *http.Request) {
	edit, err := models.ParseFieldEdit(chi.URLParam(r, "field"), r.PostFormValue("value"))
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, err)
		return
	}

	s.grid.CommitEdit(chi.URLParam(r, "id"), edit)
	redirectHome(w, r)
}

// handleDeleteSelected deletes the rows ticked in the table
func (s *Server) handleDeleteSelected(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, http.StatusBadRequest, err)
		return
	}

	ids := r.PostForm["id"]
	if len(ids) == 0 {
		s.respondError(w, r, http.StatusBadRequest, errors.New("no rows selected"))
		return
	}

	s.selectMu.Lock()
	s.grid.SetSelection(ids)
	deleted := s.grid.DeleteSelected()
	s.selectMu.Unlock()

	s.log.Info().Int("deleted", deleted).Msg("Guests deleted")
	redirectHome(w, r)
}

// handleClear empties the list
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.store.Clear()
	s.log.Info().Msg("Guest list cleared")
	redirectHome(w, r)
}

// handleExport downloads the list as a workbook; an empty list yields 204
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	wrote, err := export.Write(&buf, export.Relabel(s.grid.Rows()))
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, err)
		return
	}
	if !wrote {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition",
		`attachment; filename="guests.xlsx"; filename*=UTF-8''`+url.PathEscape(export.FileName))
	w.Write(buf.Bytes())
}

// handleListGuests returns the list as JSON
func (s *Server) handleListGuests(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.grid.Rows()); err != nil {
		s.log.Error().Err(err).Msg("json encode error")
	}
}

// respondError logs err and writes a plain error response
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.log.Warn().
		Err(err).
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("path", r.URL.Path).
		Int("status", status).
		Msg("request error")
	http.Error(w, err.Error(), status)
}
