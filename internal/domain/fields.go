package domain

import (
	"strings"
	"time"

	"github.com/oapi-codegen/nullable"
)

// RequiredText trims v and rejects an empty result.
func RequiredText(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", ErrRequiredField.WithDetail("%s", field)
	}
	return v, nil
}

// OptionalText returns nil for a blank value.
func OptionalText(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}

// RequiredDate parses a mandatory calendar date.
func RequiredDate(field, v string) (Date, error) {
	if strings.TrimSpace(v) == "" {
		return Date{}, ErrRequiredField.WithDetail("%s", field)
	}
	d, err := ParseDate(v)
	if err != nil {
		return Date{}, ErrInvalidDate.WithDetail("%s", field)
	}
	return d, nil
}

// OptionalDate parses a calendar date, nil for a missing or blank value.
func OptionalDate(field string, v *string) (*Date, error) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil, nil
	}
	d, err := ParseDate(*v)
	if err != nil {
		return nil, ErrInvalidDate.WithDetail("%s", field)
	}
	return &d, nil
}

// RequiredInstant parses a mandatory timestamp or calendar date.
func RequiredInstant(field, v string) (time.Time, error) {
	if strings.TrimSpace(v) == "" {
		return time.Time{}, ErrRequiredField.WithDetail("%s", field)
	}
	t, err := ParseInstant(v)
	if err != nil {
		return time.Time{}, ErrInvalidDate.WithDetail("%s", field)
	}
	return t, nil
}

// The Patch helpers apply one tri-state update field. They report whether the
// field was present in the request; absent fields leave dst untouched.

// PatchText applies a field that may not be cleared.
func PatchText(field string, n nullable.Nullable[string], dst *string) (bool, error) {
	if !n.IsSpecified() {
		return false, nil
	}
	if n.IsNull() {
		return true, ErrRequiredField.WithDetail("%s", field)
	}
	v, err := RequiredText(field, n.MustGet())
	if err != nil {
		return true, err
	}
	*dst = v
	return true, nil
}

// PatchOptionalText applies a field where null or blank clears the value.
func PatchOptionalText(n nullable.Nullable[string], dst **string) bool {
	if !n.IsSpecified() {
		return false
	}
	if n.IsNull() {
		*dst = nil
		return true
	}
	v := n.MustGet()
	*dst = OptionalText(&v)
	return true
}

func PatchDate(field string, n nullable.Nullable[string], dst *Date) (bool, error) {
	if !n.IsSpecified() {
		return false, nil
	}
	if n.IsNull() {
		return true, ErrRequiredField.WithDetail("%s", field)
	}
	d, err := RequiredDate(field, n.MustGet())
	if err != nil {
		return true, err
	}
	*dst = d
	return true, nil
}

func PatchOptionalDate(field string, n nullable.Nullable[string], dst **Date) (bool, error) {
	if !n.IsSpecified() {
		return false, nil
	}
	if n.IsNull() {
		*dst = nil
		return true, nil
	}
	v := n.MustGet()
	d, err := OptionalDate(field, &v)
	if err != nil {
		return true, err
	}
	*dst = d
	return true, nil
}

func PatchInstant(field string, n nullable.Nullable[string], dst *time.Time) (bool, error) {
	if !n.IsSpecified() {
		return false, nil
	}
	if n.IsNull() {
		return true, ErrRequiredField.WithDetail("%s", field)
	}
	t, err := RequiredInstant(field, n.MustGet())
	if err != nil {
		return true, err
	}
	*dst = t
	return true, nil
}

// PatchStep applies one update field and reports whether it was present.
type PatchStep func() (bool, error)

// ApplyPatches runs every step, stopping at the first validation error. When
// no step found its field present the update is rejected with ErrNoUpdateData.
func ApplyPatches(steps ...PatchStep) error {
	applied := false
	for _, step := range steps {
		ok, err := step()
		if err != nil {
			return err
		}
		applied = applied || ok
	}
	if !applied {
		return ErrNoUpdateData
	}
	return nil
}
