// Package validation checks catalog documents against their schema using the validator/v10 library.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/filmarkiv/filmarkiv-server/internal/domain"
	domainerrors "github.com/filmarkiv/filmarkiv-server/internal/errors"
	"github.com/filmarkiv/filmarkiv-server/internal/genre"
)

// fieldOrder is the order messages are reported in, matching the document layout.
var fieldOrder = []string{"title", "genre", "description", "director", "year", "rating"}

// movieSchema is the validated view of a movie. Year is a pointer because zero
// is a value a client can send, so absence has to be told apart.
type movieSchema struct {
	Title       string   `json:"title" validate:"required,max=100"`
	Genre       []string `json:"genre" validate:"required,min=1,dive,genre"`
	Description string   `json:"description" validate:"required,max=2000"`
	Director    string   `json:"director" validate:"required"`
	Year        *int     `json:"year" validate:"required"`
	Rating      float64  `json:"rating" validate:"gte=0,lte=10"`
}

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator configured for the catalog schema.
func New() *Validator {
	v := validator.New()

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("genre", func(fl validator.FieldLevel) bool {
		return genre.IsValid(fl.Field().String())
	})

	return &Validator{v: v}
}

// ValidateMovie checks m against the movie schema. yearSet reports whether the
// year was ever provided; casts are field errors produced while decoding the
// request and are reported alongside the schema violations.
//
// It returns nil or a VALIDATION error whose Fields are ordered by field.
func (v *Validator) ValidateMovie(m *domain.Movie, yearSet bool, casts []domainerrors.FieldError) error {
	s := movieSchema{
		Title:       m.Title,
		Genre:       m.Genre,
		Description: m.Description,
		Director:    m.Director,
		Rating:      m.Rating,
	}
	if yearSet {
		year := m.Year
		s.Year = &year
	}

	var fields []domainerrors.FieldError
	fields = append(fields, casts...)

	if err := v.v.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			return err
		}
		for _, e := range validationErrs {
			field := rootField(e.Field())
			// A value that failed to cast has already been reported.
			if hasField(casts, field) {
				continue
			}
			fields = append(fields, domainerrors.FieldError{Field: field, Message: movieMessage(e)})
		}
	}

	if len(fields) == 0 {
		return nil
	}
	slices.SortStableFunc(fields, func(a, b domainerrors.FieldError) int {
		return position(a.Field) - position(b.Field)
	})
	return domainerrors.Validation(fields)
}

//nolint:gocyclo // Switch statement covering schema fields is intentionally exhaustive.
func movieMessage(e validator.FieldError) string {
	switch rootField(e.Field()) {
	case "title":
		if e.Tag() == "max" {
			return "Title cannot be more than 100 characters"
		}
		return "Please add a title"
	case "genre":
		switch e.Tag() {
		case "required":
			return "Path `genre` is required."
		case "min":
			return "Path `genre` must contain at least one value."
		default:
			return fmt.Sprintf("`%v` is not a valid enum value for path `genre`.", e.Value())
		}
	case "description":
		if e.Tag() == "max" {
			return "Description cannot be more than 2000 characters"
		}
		return "Please add a description"
	case "director":
		return "Please add a director"
	case "year":
		return "Please add a release year"
	case "rating":
		value := formatNumber(e.Value())
		if e.Tag() == "gte" {
			return fmt.Sprintf("Path `rating` (%s) is less than minimum allowed value (0).", value)
		}
		return fmt.Sprintf("Path `rating` (%s) is more than maximum allowed value (10).", value)
	default:
		return fmt.Sprintf("Path `%s` is invalid.", e.Field())
	}
}

// rootField strips an element index: "genre[2]" -> "genre".
func rootField(f string) string {
	name, _, _ := strings.Cut(f, "[")
	return name
}

func hasField(fields []domainerrors.FieldError, name string) bool {
	return slices.ContainsFunc(fields, func(f domainerrors.FieldError) bool { return f.Field == name })
}

func position(field string) int {
	if i := slices.Index(fieldOrder, field); i >= 0 {
		return i
	}
	return len(fieldOrder)
}

func formatNumber(v any) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
