package form

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"wedding-guests/internal/models"
)

func newRecordingForm() (*Form, *[]models.NewGuest) {
	var submitted []models.NewGuest
	f := New(Config{
		OnSubmit: func(g models.NewGuest) { submitted = append(submitted, g) },
	})
	return f, &submitted
}

func TestSubmitValid(t *testing.T) {
	f, submitted := newRecordingForm()
	f.SetValues(Values{FirstName: "Dana", LastName: "Cohen", Side: "צד כלה", Relation: "משפחה", Description: "cousin"})

	require.NoError(t, f.Submit())
	require.Equal(t, []models.NewGuest{{
		FirstName: "Dana", LastName: "Cohen", Description: "cousin", Side: "צד כלה", Relation: "משפחה",
	}}, *submitted)
	require.Equal(t, Values{}, f.Values())
	require.Empty(t, f.Errors())
}

func TestSubmitMinimumLength(t *testing.T) {
	f, submitted := newRecordingForm()
	f.SetValues(Values{FirstName: "Al", LastName: "Bo"})
	require.NoError(t, f.Submit())
	require.Len(t, *submitted, 1)

	// Hebrew names count characters, not bytes
	f.SetValues(Values{FirstName: "דן", LastName: "כץ"})
	require.NoError(t, f.Submit())
	require.Len(t, *submitted, 2)
}

func TestSubmitInvalid(t *testing.T) {
	tests := []struct {
		name   string
		values Values
		want   ValidationErrors
	}{
		{"both empty", Values{}, ValidationErrors{FirstName: MsgRequired, LastName: MsgRequired}},
		{"short first", Values{FirstName: "D", LastName: "Cohen"}, ValidationErrors{FirstName: MsgMinLen(2)}},
		{"short last", Values{FirstName: "Dana", LastName: "C"}, ValidationErrors{LastName: MsgMinLen(2)}},
		{"empty last", Values{FirstName: "Dana", Description: "x"}, ValidationErrors{LastName: MsgRequired}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, submitted := newRecordingForm()
			f.SetValues(tt.values)

			err := f.Submit()
			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			require.Equal(t, tt.want, verrs)
			require.Equal(t, tt.want, f.Errors())
			require.Empty(t, *submitted)
			require.Equal(t, tt.values, f.Values(), "values are kept after a failed submit")
		})
	}
}

func TestSetRevalidatesField(t *testing.T) {
	f, _ := newRecordingForm()

	f.Set(FirstName, "D")
	require.Equal(t, ValidationErrors{FirstName: MsgMinLen(2)}, f.Errors())

	f.Set(FirstName, "Da")
	require.Empty(t, f.Errors())

	f.Set(Description, "")
	require.Empty(t, f.Errors())

	f.Set(Field("phone"), "123")
	require.Equal(t, Values{FirstName: "Da"}, f.Values())
}

func TestResetUsesInitialValues(t *testing.T) {
	initial := Values{Side: "צד חתן"}
	f := New(Config{InitialValues: initial})
	f.SetValues(Values{FirstName: "Avi", LastName: "Levi", Side: "צד כלה"})
	require.NoError(t, f.Submit())
	require.Equal(t, initial, f.Values())
}

func TestValidationErrorsMessage(t *testing.T) {
	err := ValidationErrors{LastName: "b", FirstName: "a"}
	require.Equal(t, "validation failed: firstName: a; lastName: b", err.Error())
}
