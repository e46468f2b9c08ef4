// Package form validates guest input and hands valid submissions to a
// callback.
package form

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"wedding-guests/internal/models"
)

// Field names an input of the add-guest form
type Field string

const (
	FirstName   Field = "firstName"
	LastName    Field = "lastName"
	Description Field = "description"
	Side        Field = "side"
	Relation    Field = "relation"
)

// Fields lists the form inputs in display order
var Fields = []Field{FirstName, LastName, Description, Side, Relation}

const (
	MsgRequired = "שדה זה הינו חובה"
	msgMinLen   = "שדה זה חייב להכיל לפחות %d תווים"
)

// MsgMinLen returns the too-short message for n characters
func MsgMinLen(n int) string {
	return fmt.Sprintf(msgMinLen, n)
}

// Values holds the raw form inputs
type Values struct {
	FirstName   string
	LastName    string
	Description string
	Side        string
	Relation    string
}

// Get returns the value of f
func (v Values) Get(f Field) string {
	switch f {
	case FirstName:
		return v.FirstName
	case LastName:
		return v.LastName
	case Description:
		return v.Description
	case Side:
		return v.Side
	case Relation:
		return v.Relation
	}
	return ""
}

func (v *Values) set(f Field, value string) bool {
	switch f {
	case FirstName:
		v.FirstName = value
	case LastName:
		v.LastName = value
	case Description:
		v.Description = value
	case Side:
		v.Side = value
	case Relation:
		v.Relation = value
	default:
		return false
	}
	return true
}

// Rule constrains one field. A zero MinLen means no length check.
type Rule struct {
	Field    Field
	Required bool
	MinLen   int
}

func (r Rule) check(value string) string {
	if value == "" {
		if r.Required {
			return MsgRequired
		}
		return ""
	}
	if r.MinLen > 0 && utf8.RuneCountInString(value) < r.MinLen {
		return MsgMinLen(r.MinLen)
	}
	return ""
}

// DefaultRules requires first and last name with at least two characters each
func DefaultRules() []Rule {
	return []Rule{
		{Field: FirstName, Required: true, MinLen: 2},
		{Field: LastName, Required: true, MinLen: 2},
	}
}

// ValidationErrors maps each invalid field to its message
type ValidationErrors map[Field]string

func (e ValidationErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, string(f))
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[Field(f)])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Config configures a Form
type Config struct {
	InitialValues Values
	Rules         []Rule
	OnSubmit      func(models.NewGuest)
}

// Form holds the state of one add-guest form
type Form struct {
	cfg    Config
	values Values
	errors ValidationErrors
}

// New creates a form; nil Rules means DefaultRules
func New(cfg Config) *Form {
	if cfg.Rules == nil {
		cfg.Rules = DefaultRules()
	}
	return &Form{
		cfg:    cfg,
		values: cfg.InitialValues,
		errors: ValidationErrors{},
	}
}

// Set updates a field and re-validates it. Unknown fields are ignored.
func (f *Form) Set(field Field, value string) {
	if !f.values.set(field, value) {
		return
	}
	delete(f.errors, field)
	for _, r := range f.cfg.Rules {
		if r.Field != field {
			continue
		}
		if msg := r.check(value); msg != "" {
			f.errors[field] = msg
			break
		}
	}
}

// SetValues replaces every field and re-validates all of them
func (f *Form) SetValues(v Values) {
	for _, field := range Fields {
		f.Set(field, v.Get(field))
	}
}

func (f *Form) Values() Values {
	return f.values
}

// Errors returns the current per-field messages
func (f *Form) Errors() ValidationErrors {
	errs := make(ValidationErrors, len(f.errors))
	for k, v := range f.errors {
		errs[k] = v
	}
	return errs
}

// Validate checks every rule and returns ValidationErrors when any fail
func (f *Form) Validate() error {
	errs := ValidationErrors{}
	for _, r := range f.cfg.Rules {
		if _, seen := errs[r.Field]; seen {
			continue
		}
		if msg := r.check(f.values.Get(r.Field)); msg != "" {
			errs[r.Field] = msg
		}
	}
	f.errors = errs
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Submit validates and, when valid, passes the input to OnSubmit and resets
// the form.
func (f *Form) Submit() error {
	if err := f.Validate(); err != nil {
		return err
	}

	if f.cfg.OnSubmit != nil {
		f.cfg.OnSubmit(models.NewGuest{
			FirstName:   f.values.FirstName,
			LastName:    f.values.LastName,
			Description: f.values.Description,
			Side:        f.values.Side,
			Relation:    f.values.Relation,
		})
	}
	f.Reset()
	return nil
}

// Reset restores the initial values and clears errors
func (f *Form) Reset() {
	f.values = f.cfg.InitialValues
	f.errors = ValidationErrors{}
}
