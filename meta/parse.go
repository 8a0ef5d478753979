/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package meta

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/suparena/metastore/errors"
	"github.com/suparena/metastore/schema"
)

const urnPrefix = "urn:uuid:"

// ParseValue converts user supplied text into a value of the field's kind.
func ParseValue(f schema.Field, text string) (Value, error) {
	var v Value
	switch ValueKindOf(f.Kind) {
	case KindCount:
		return Value{}, errors.NewValidationError(string(f.ID), "count fields are derived and cannot be set")
	case KindString:
		v = Text(text)
	case KindInt:
		n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil {
			return Value{}, errors.NewValidationError(string(f.ID), fmt.Sprintf("not an integer: %q", text))
		}
		v = Int(n)
	case KindFloat:
		n, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return Value{}, errors.NewValidationError(string(f.ID), fmt.Sprintf("not a number: %q", text))
		}
		v = Float(n)
	case KindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(text))
		if err != nil {
			return Value{}, errors.NewValidationError(string(f.ID), fmt.Sprintf("not a boolean: %q", text))
		}
		v = Bool(b)
	case KindTimestamp:
		text = strings.TrimSpace(text)
		dt, err := strfmt.ParseDateTime(text)
		if err != nil || text == "" {
			return Value{}, errors.NewValidationError(string(f.ID), fmt.Sprintf("not a timestamp: %q", text))
		}
		v = Time(dt)
	case KindBytes:
		raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(text))
		if err != nil {
			return Value{}, errors.NewValidationError(string(f.ID), "binary values must be base64 encoded")
		}
		v = Bytes(raw)
	default:
		return Value{}, errors.NewValidationError(string(f.ID), fmt.Sprintf("unsupported kind %q", f.Kind))
	}
	if err := Validate(f, v); err != nil {
		return Value{}, err
	}
	return v, nil
}

// Validate checks that v may be stored in f. The absent value is always
// accepted since writing it clears the field.
func Validate(f schema.Field, v Value) error {
	if !v.IsPresent() {
		return nil
	}
	if f.Kind == schema.KindCount {
		return errors.NewValidationError(string(f.ID), "count fields are derived and cannot be set")
	}
	if want := ValueKindOf(f.Kind); v.Kind() != want {
		return errors.NewValidationError(string(f.ID), fmt.Sprintf("expected %s value, got %s", want, v.Kind()))
	}
	switch f.Kind {
	case schema.KindEnum:
		s, _ := v.AsString()
		if !f.AllowsEnum(s) {
			return errors.NewValidationError(string(f.ID),
				fmt.Sprintf("%q is not one of %s", s, strings.Join(f.Enum, ", ")))
		}
	case schema.KindUUID:
		s, _ := v.AsString()
		if !IsUUID(s) {
			return errors.NewValidationError(string(f.ID), fmt.Sprintf("%q is not a UUID", s))
		}
	}
	return nil
}

// IsUUID reports whether s is a UUID, with or without the urn:uuid: prefix.
func IsUUID(s string) bool {
	return strfmt.IsUUID(strings.TrimPrefix(s, urnPrefix))
}

// Now returns the current time as a timestamp value.
func Now() Value {
	return Time(strfmt.DateTime(time.Now().UTC()))
}
