// Package jsonwire is the seam every JSON-bearing packet body marshals
// and unmarshals through. The concrete library is a wiring choice
// (github.com/goccy/go-json, a drop-in encoding/json replacement) rather
// than a hard dependency of handler code, matching the "JSON library
// selection is out of scope for the core" framing in the specification.
package jsonwire

import gojson "github.com/goccy/go-json"

// Marshal encodes v as JSON.
func Marshal(v any) ([]byte, error) {
	return gojson.Marshal(v)
}

// Unmarshal decodes JSON data into v.
func Unmarshal(data []byte, v any) error {
	return gojson.Unmarshal(data, v)
}
