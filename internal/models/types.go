// internal/models/types.go
// Package models describes the models a backend serves and normalizes the
// free-form size tags backends attach to them.
package models

import (
	"strconv"
	"strings"
)

// Normalized parameter size tokens. A Descriptor never carries anything else.
const (
	Size3B      = "3B"
	Size7B      = "7B"
	Size11B     = "11B"
	Size13B     = "13B"
	Size27B     = "27B"
	Size70B     = "70B"
	SizeUnknown = "Unknown"
)

// KnownSizes lists the recognized size tokens in ascending order.
var KnownSizes = []string{Size3B, Size7B, Size11B, Size13B, Size27B, Size70B}

// Descriptor identifies one model served by a backend.
type Descriptor struct {
	Name          string `json:"name"`
	ParameterSize string `json:"parameter_size"`
}

// NewDescriptor builds a Descriptor, normalizing rawSize into one of the
// known size tokens.
func NewDescriptor(name, rawSize string) Descriptor {
	return Descriptor{
		Name:          name,
		ParameterSize: NormalizeParameterSize(rawSize),
	}
}

// ParameterCount returns the size in billions of parameters. The boolean is
// false when the size is Unknown.
func (d Descriptor) ParameterCount() (float64, bool) {
	raw := strings.TrimSuffix(strings.TrimSpace(d.ParameterSize), "B")
	if raw == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// String renders the descriptor as "name (size)".
func (d Descriptor) String() string {
	size := d.ParameterSize
	if size == "" {
		size = SizeUnknown
	}
	return d.Name + " (" + size + ")"
}

// ModelDetails mirrors the details object both backends attach to a listing entry.
type ModelDetails struct {
	Family            string `json:"family,omitempty"`
	Format            string `json:"format,omitempty"`
	ParameterSize     string `json:"parameter_size,omitempty"`
	QuantizationLevel string `json:"quantization_level,omitempty"`
}
