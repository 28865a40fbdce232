package validation_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmarkiv/filmarkiv-server/internal/domain"
	domainerrors "github.com/filmarkiv/filmarkiv-server/internal/errors"
	"github.com/filmarkiv/filmarkiv-server/internal/validation"
)

func validMovie() *domain.Movie {
	m := domain.NewMovie()
	m.Title = "Spirited Away"
	m.Genre = []string{"Animation", "Adventure"}
	m.Description = "A girl wanders into a world of spirits."
	m.Director = "Hayao Miyazaki"
	m.Year = 2001
	m.Rating = 8.6
	return m
}

func messagesOf(t *testing.T, err error) []string {
	t.Helper()
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)

	msgs := make([]string, len(domainErr.Fields))
	for i, f := range domainErr.Fields {
		msgs[i] = f.Message
	}
	assert.Equal(t, strings.Join(msgs, ", "), domainErr.Message)
	return msgs
}

func TestValidateMovie_Success(t *testing.T) {
	v := validation.New()
	assert.NoError(t, v.ValidateMovie(validMovie(), true, nil))
}

func TestValidateMovie_BoundaryValues(t *testing.T) {
	v := validation.New()

	m := validMovie()
	m.Title = strings.Repeat("å", 100)
	m.Description = strings.Repeat("x", 2000)
	m.Rating = 10
	assert.NoError(t, v.ValidateMovie(m, true, nil), "limits are inclusive and count characters")

	m.Rating = 0
	m.Year = 0
	assert.NoError(t, v.ValidateMovie(m, true, nil), "a provided zero year is a value")
}

func TestValidateMovie_FieldMessages(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name    string
		mutate  func(m *domain.Movie)
		yearSet bool
		want    []string
	}{
		{
			name:    "missing title",
			mutate:  func(m *domain.Movie) { m.Title = "" },
			yearSet: true,
			want:    []string{"Please add a title"},
		},
		{
			name:    "title too long",
			mutate:  func(m *domain.Movie) { m.Title = strings.Repeat("a", 101) },
			yearSet: true,
			want:    []string{"Title cannot be more than 100 characters"},
		},
		{
			name:    "missing genre",
			mutate:  func(m *domain.Movie) { m.Genre = nil },
			yearSet: true,
			want:    []string{"Path `genre` is required."},
		},
		{
			name:    "empty genre",
			mutate:  func(m *domain.Movie) { m.Genre = []string{} },
			yearSet: true,
			want:    []string{"Path `genre` must contain at least one value."},
		},
		{
			name:    "unknown genres",
			mutate:  func(m *domain.Movie) { m.Genre = []string{"Action", "Western", "action"} },
			yearSet: true,
			want: []string{
				"`Western` is not a valid enum value for path `genre`.",
				"`action` is not a valid enum value for path `genre`.",
			},
		},
		{
			name:    "missing description",
			mutate:  func(m *domain.Movie) { m.Description = "" },
			yearSet: true,
			want:    []string{"Please add a description"},
		},
		{
			name:    "description too long",
			mutate:  func(m *domain.Movie) { m.Description = strings.Repeat("a", 2001) },
			yearSet: true,
			want:    []string{"Description cannot be more than 2000 characters"},
		},
		{
			name:    "missing director",
			mutate:  func(m *domain.Movie) { m.Director = "" },
			yearSet: true,
			want:    []string{"Please add a director"},
		},
		{
			name:    "missing year",
			mutate:  func(*domain.Movie) {},
			yearSet: false,
			want:    []string{"Please add a release year"},
		},
		{
			name:    "rating below range",
			mutate:  func(m *domain.Movie) { m.Rating = -1 },
			yearSet: true,
			want:    []string{"Path `rating` (-1) is less than minimum allowed value (0)."},
		},
		{
			name:    "rating above range",
			mutate:  func(m *domain.Movie) { m.Rating = 10.5 },
			yearSet: true,
			want:    []string{"Path `rating` (10.5) is more than maximum allowed value (10)."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validMovie()
			tt.mutate(m)
			assert.Equal(t, tt.want, messagesOf(t, v.ValidateMovie(m, tt.yearSet, nil)))
		})
	}
}

func TestValidateMovie_ReportsEveryViolationInFieldOrder(t *testing.T) {
	v := validation.New()

	m := domain.NewMovie()
	m.Rating = 11

	got := messagesOf(t, v.ValidateMovie(m, false, nil))
	assert.Equal(t, []string{
		"Please add a title",
		"Path `genre` must contain at least one value.",
		"Please add a description",
		"Please add a director",
		"Please add a release year",
		"Path `rating` (11) is more than maximum allowed value (10).",
	}, got)
}

func TestValidateMovie_CastErrorsReplaceRequiredMessage(t *testing.T) {
	v := validation.New()

	m := validMovie()
	m.Director = ""
	casts := []domainerrors.FieldError{{
		Field:   "year",
		Message: `Cast to Number failed for value "soon" (type string) at path "year"`,
	}}

	got := messagesOf(t, v.ValidateMovie(m, false, casts))
	assert.Equal(t, []string{
		"Please add a director",
		`Cast to Number failed for value "soon" (type string) at path "year"`,
	}, got)
}
