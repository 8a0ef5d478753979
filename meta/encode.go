/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package meta

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	"github.com/go-openapi/strfmt"
)

// Encode renders a present value as a kind name and a text payload, the
// representation persistent stores keep on disk.
func Encode(v Value) (kind, text string, err error) {
	switch v.kind {
	case KindAbsent:
		return "", "", fmt.Errorf("cannot encode an absent value")
	case KindBytes:
		text = base64.StdEncoding.EncodeToString(v.raw)
	case KindTimestamp:
		text = time.Time(v.t).UTC().Format(time.RFC3339Nano)
	default:
		text = v.String()
	}
	return v.kind.String(), text, nil
}

// Decode is the inverse of Encode.
func Decode(kind, text string) (Value, error) {
	k, err := ParseValueKind(kind)
	if err != nil {
		return Value{}, err
	}
	switch k {
	case KindCount:
		n, err := strconv.Atoi(text)
		if err != nil {
			return Value{}, fmt.Errorf("decode count: %w", err)
		}
		return Count(n), nil
	case KindString:
		return Text(text), nil
	case KindInt:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("decode int: %w", err)
		}
		return Int(n), nil
	case KindFloat:
		n, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, fmt.Errorf("decode float: %w", err)
		}
		return Float(n), nil
	case KindBool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return Value{}, fmt.Errorf("decode bool: %w", err)
		}
		return Bool(b), nil
	case KindTimestamp:
		if t, err := time.Parse(time.RFC3339Nano, text); err == nil {
			return Time(strfmt.DateTime(t)), nil
		}
		dt, err := strfmt.ParseDateTime(text)
		if err != nil {
			return Value{}, fmt.Errorf("decode timestamp: %w", err)
		}
		return Time(dt), nil
	case KindBytes:
		raw, err := base64.StdEncoding.DecodeString(text)
		if err != nil {
			return Value{}, fmt.Errorf("decode bytes: %w", err)
		}
		return Bytes(raw), nil
	}
	return Value{}, fmt.Errorf("cannot decode %s value", k)
}
