package models

import (
	"errors"
	"fmt"
	"strings"
)

// Guest represents one invitee on the list
type Guest struct {
	ID          string `json:"id"`
	FullName    string `json:"fullName"`
	Description string `json:"description,omitempty"`
	Side        string `json:"side,omitempty"`
	Relation    string `json:"relation,omitempty"`
}

// NewGuest is the validated form input a guest is created from
type NewGuest struct {
	FirstName   string
	LastName    string
	Description string
	Side        string
	Relation    string
}

// FullName joins first and last name the way it is stored on the guest.
func (n NewGuest) FullName() string {
	return n.FirstName + " " + n.LastName
}

// Side and relation labels offered by the form. They are not enforced once a
// guest exists.
var (
	Sides     = []string{"צד כלה", "צד חתן"}
	Relations = []string{"משפחה", "חברים", "חברים של הורים"}
)

// Field names used on the wire for inline edits
const (
	FieldFullName    = "fullName"
	FieldDescription = "description"
	FieldSide        = "side"
	FieldRelation    = "relation"
)

var ErrUnknownField = errors.New("unknown guest field")

// FieldEdit replaces exactly one editable field of a guest. The set of
// implementations is closed: SetFullName, SetDescription, SetSide, SetRelation.
type FieldEdit interface {
	Field() string
	Value() string
	apply(g *Guest)
}

type (
	SetFullName    string
	SetDescription string
	SetSide        string
	SetRelation    string
)

func (e SetFullName) Field() string    { return FieldFullName }
func (e SetDescription) Field() string { return FieldDescription }
func (e SetSide) Field() string        { return FieldSide }
func (e SetRelation) Field() string    { return FieldRelation }

func (e SetFullName) Value() string    { return string(e) }
func (e SetDescription) Value() string { return string(e) }
func (e SetSide) Value() string        { return string(e) }
func (e SetRelation) Value() string    { return string(e) }

func (e SetFullName) apply(g *Guest)    { g.FullName = string(e) }
func (e SetDescription) apply(g *Guest) { g.Description = string(e) }
func (e SetSide) apply(g *Guest)        { g.Side = string(e) }
func (e SetRelation) apply(g *Guest)    { g.Relation = string(e) }

// ValidUTF8 returns g with invalid UTF-8 in its text fields replaced by
// U+FFFD, the form it takes once encoded as JSON.
func (g Guest) ValidUTF8() Guest {
	g.ID = strings.ToValidUTF8(g.ID, "\uFFFD")
	g.FullName = strings.ToValidUTF8(g.FullName, "\uFFFD")
	g.Description = strings.ToValidUTF8(g.Description, "\uFFFD")
	g.Side = strings.ToValidUTF8(g.Side, "\uFFFD")
	g.Relation = strings.ToValidUTF8(g.Relation, "\uFFFD")
	return g
}

// With returns a copy of g with the edit applied
func (g Guest) With(edit FieldEdit) Guest {
	edit.apply(&g)
	return g
}

// ParseFieldEdit maps a wire field name and value to a FieldEdit
func ParseFieldEdit(field, value string) (FieldEdit, error) {
	switch field {
	case FieldFullName:
		return SetFullName(value), nil
	case FieldDescription:
		return SetDescription(value), nil
	case FieldSide:
		return SetSide(value), nil
	case FieldRelation:
		return SetRelation(value), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
}
