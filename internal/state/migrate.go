package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"financeiro/internal/core"
)

// Shape names the layout a stored payload was recognized as.
type Shape string

const (
	ShapeDocument   Shape = "document"    // {"years": [...], "reserve": n}
	ShapeLegacyList Shape = "legacy_list" // bare [...] of years, no reserve
	ShapeDefault    Shape = "default"     // nothing usable; first-run document
)

var errShapeMismatch = errors.New("payload does not match shape")

// decoder recognizes one stored layout and converts it to the current
// document. It returns errShapeMismatch when the payload is not its shape.
type decoder struct {
	shape  Shape
	decode func(raw []byte) (core.AppState, error)
}

// decoders are tried in order. Supporting a new layout means adding one
// entry here.
var decoders = []decoder{
	{shape: ShapeLegacyList, decode: decodeLegacyList},
	{shape: ShapeDocument, decode: decodeDocument},
}

func decodeLegacyList(raw []byte) (core.AppState, error) {
	if !bytes.HasPrefix(raw, []byte("[")) {
		return core.AppState{}, errShapeMismatch
	}
	var years []core.YearData
	if err := json.Unmarshal(raw, &years); err != nil {
		return core.AppState{}, fmt.Errorf("decode legacy year list: %w", err)
	}
	if len(years) == 0 {
		return core.AppState{}, errShapeMismatch
	}
	return core.AppState{Years: years, Reserve: 0}, nil
}

func decodeDocument(raw []byte) (core.AppState, error) {
	if !bytes.HasPrefix(raw, []byte("{")) {
		return core.AppState{}, errShapeMismatch
	}
	var doc core.AppState
	if err := json.Unmarshal(raw, &doc); err != nil {
		return core.AppState{}, fmt.Errorf("decode document: %w", err)
	}
	if len(doc.Years) == 0 {
		return core.AppState{}, errShapeMismatch
	}
	doc.Reserve = core.SanitizeAmount(doc.Reserve)
	return doc, nil
}

// Resolution is the outcome of loading a stored payload.
type Resolution struct {
	State core.AppState
	Shape Shape
	// Err is the decode failure that forced the default document, if any.
	// It is informational: resolution always yields a usable document.
	Err error
}

// Resolve turns a stored payload into a document. A bare list of years is
// adopted with a zero reserve, an object with a non-empty years field is
// adopted as-is, and anything else (absent, empty, malformed) yields the
// first-run document from r.
func (r *Reducer) Resolve(raw []byte, present bool) Resolution {
	if !present {
		return Resolution{State: r.InitializeDefault(), Shape: ShapeDefault}
	}
	raw = bytes.TrimSpace(raw)
	var lastErr error
	for _, d := range decoders {
		s, err := d.decode(raw)
		if err == nil {
			return Resolution{State: s, Shape: d.shape}
		}
		if !errors.Is(err, errShapeMismatch) {
			lastErr = err
		}
	}
	return Resolution{State: r.InitializeDefault(), Shape: ShapeDefault, Err: lastErr}
}
