package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/filmarkiv/filmarkiv-server/internal/errors"
	"github.com/filmarkiv/filmarkiv-server/internal/genre"
)

// MovieInput is a partially specified movie as sent by a client.
// A nil field was not provided. Decoding is lenient the way the admin form
// needs it: numbers may arrive as strings and a single genre as a bare string.
// Values that cannot be coerced are collected in CastErrors instead of failing
// the whole decode, so they are reported next to the other field messages.
type MovieInput struct {
	Title       *string
	Genre       *[]string
	Description *string
	Director    *string
	Year        *int
	ImageURL    *string
	Rating      *float64

	CastErrors []errors.FieldError
}

// UnmarshalJSON decodes a JSON object into the input. Only a body that is not
// a JSON object at all is an error.
func (in *MovieInput) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return nil
	}

	in.Title = in.castString(raw, "title")
	in.Genre = in.castStrings(raw, "genre")
	in.Description = in.castString(raw, "description")
	in.Director = in.castString(raw, "director")
	in.Year = in.castInt(raw, "year")
	in.ImageURL = in.castString(raw, "imageUrl")
	in.Rating = in.castFloat(raw, "rating")
	return nil
}

// ApplyTo copies every provided field onto m. An empty image URL resets the
// default. Genre values are trimmed and NFC-composed before validation.
func (in *MovieInput) ApplyTo(m *Movie) {
	if in.Title != nil {
		m.Title = strings.TrimSpace(*in.Title)
	}
	if in.Genre != nil {
		gs := make([]string, len(*in.Genre))
		for i, g := range *in.Genre {
			gs[i] = genre.Normalize(g)
		}
		m.Genre = gs
	}
	if in.Description != nil {
		m.Description = *in.Description
	}
	if in.Director != nil {
		m.Director = *in.Director
	}
	if in.Year != nil {
		m.Year = *in.Year
	}
	if in.ImageURL != nil {
		m.ImageURL = *in.ImageURL
		if m.ImageURL == "" {
			m.ImageURL = DefaultImageURL
		}
	}
	if in.Rating != nil {
		m.Rating = *in.Rating
	}
}

func (in *MovieInput) castFailed(kind, field string, value json.RawMessage) {
	shown, typ := describeJSON(value)
	in.CastErrors = append(in.CastErrors, errors.FieldError{
		Field:   field,
		Message: fmt.Sprintf("Cast to %s failed for value %q (type %s) at path %q", kind, shown, typ, field),
	})
}

func (in *MovieInput) castString(raw map[string]json.RawMessage, field string) *string {
	v, ok := raw[field]
	if !ok || isNull(v) {
		return nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return &s
	}
	switch v[0] {
	case '{', '[':
		in.castFailed("string", field, v)
		return nil
	}
	// Numbers and booleans are stored as their literal text.
	s = string(v)
	return &s
}

func (in *MovieInput) castStrings(raw map[string]json.RawMessage, field string) *[]string {
	v, ok := raw[field]
	if !ok || isNull(v) {
		return nil
	}
	var single string
	if err := json.Unmarshal(v, &single); err == nil {
		return &[]string{single}
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(v, &elems); err != nil {
		in.castFailed("[string]", field, v)
		return nil
	}
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		var s string
		if err := json.Unmarshal(e, &s); err == nil {
			out = append(out, s)
			continue
		}
		if isNull(e) || e[0] == '{' || e[0] == '[' {
			in.castFailed("[string]", field, v)
			return nil
		}
		out = append(out, string(e))
	}
	return &out
}

func (in *MovieInput) castFloat(raw map[string]json.RawMessage, field string) *float64 {
	v, ok := raw[field]
	if !ok || isNull(v) {
		return nil
	}
	f, present, ok := parseNumber(v)
	if !ok {
		in.castFailed("Number", field, v)
		return nil
	}
	if !present {
		return nil
	}
	return &f
}

func (in *MovieInput) castInt(raw map[string]json.RawMessage, field string) *int {
	v, ok := raw[field]
	if !ok || isNull(v) {
		return nil
	}
	f, present, ok := parseNumber(v)
	if !ok || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		in.castFailed("Number", field, v)
		return nil
	}
	if !present {
		return nil
	}
	n := int(f)
	return &n
}

// parseNumber accepts a JSON number or a string holding one. An empty or
// blank string reports present=false.
func parseNumber(v json.RawMessage) (f float64, present, ok bool) {
	if err := json.Unmarshal(v, &f); err == nil {
		return f, true, true
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return 0, false, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false, false
	}
	return f, true, true
}

func isNull(v json.RawMessage) bool {
	return len(v) == 0 || bytes.Equal(v, []byte("null"))
}

// describeJSON returns the value as shown in a cast message along with its JSON type.
func describeJSON(v json.RawMessage) (shown, typ string) {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s, "string"
	}
	switch v[0] {
	case '{', '[':
		return string(v), "object"
	case 't', 'f':
		return string(v), "boolean"
	default:
		return string(v), "number"
	}
}
