// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating request data:
// path segments, JSON bodies and the lenient amount type used by every
// numeric field.

package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"financeiro/internal/core"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

var errBadRequest = errors.New("bad request")

// Amount is a JSON amount that accepts a number or a string. Strings use a
// dot or comma decimal separator. Anything that is not a number decodes
// to 0 instead of failing the request.
type Amount float64

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*a = 0
			return nil
		}
		*a = Amount(core.CoerceAmount(s))
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		*a = 0
		return nil
	}
	*a = Amount(core.SanitizeAmount(f))
	return nil
}

// Float returns the amount as a float64.
func (a Amount) Float() float64 {
	return float64(a)
}

// floatPtr converts an optional amount.
func (a *Amount) floatPtr() *float64 {
	if a == nil {
		return nil
	}
	v := float64(*a)
	return &v
}

// pathInt parses the named path segment as an integer.
func pathInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number, got %q", errBadRequest, name, raw)
	}
	return v, nil
}

// yearMonth parses the {year} and {month} path segments.
func yearMonth(r *http.Request) (year, month int, err error) {
	if year, err = pathInt(r, "year"); err != nil {
		return 0, 0, err
	}
	if month, err = pathInt(r, "month"); err != nil {
		return 0, 0, err
	}
	return year, month, nil
}

// decodeJSON reads a single JSON value from the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body required", errBadRequest)
		}
		return fmt.Errorf("%w: invalid JSON: %v", errBadRequest, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: unexpected data after JSON body", errBadRequest)
	}
	return nil
}
