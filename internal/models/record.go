// Package models defines the phonebook entities, their field-level update
// rules and their canonical Record form.
package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/phonebook/internal/timex"
)

var (
	// ErrMissingRequiredField is returned when a Record lacks a field an
	// entity cannot exist without.
	ErrMissingRequiredField = errors.New("missing required field")
	// ErrMalformedField is returned when a Record field cannot be parsed.
	ErrMalformedField = errors.New("malformed field")
)

// Record is the canonical string-keyed form of an entity. Keys are the field
// names of the data files; an absent key is an absent value.
type Record map[string]string

func (r Record) required(key string) (string, error) {
	v, ok := r[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingRequiredField, key)
	}
	return v, nil
}

func (r Record) int64(key string) (int64, error) {
	v, err := r.required(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrMalformedField, key, v)
	}
	return n, nil
}

func (r Record) stringOr(key, def string) string {
	if v, ok := r[key]; ok {
		return v
	}
	return def
}

func (r Record) boolOr(key string, def bool) bool {
	if v, ok := r[key]; ok {
		return ParseBool(v)
	}
	return def
}

// time returns the zero time for an absent key.
func (r Record) time(key string) (time.Time, error) {
	v, ok := r[key]
	if !ok {
		return time.Time{}, nil
	}
	t, err := timex.ParseISO(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s=%q", ErrMalformedField, key, v)
	}
	return t, nil
}

func (r Record) optionalTime(key string) (*time.Time, error) {
	if _, ok := r[key]; !ok {
		return nil, nil
	}
	t, err := r.time(key)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseBool is true only for a case-insensitive "true".
func ParseBool(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}

// FormatBool writes lowercase true/false.
func FormatBool(b bool) string {
	return strconv.FormatBool(b)
}

func setTime(r Record, key string, t *time.Time) {
	if t != nil {
		r[key] = timex.FormatISO(*t)
	}
}
