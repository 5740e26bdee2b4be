package metadata

import "strings"

// Unknown replaces missing or placeholder label values before normalization.
const Unknown = "Unknown"

// Record is one parsed metadata row describing a file to relocate.
type Record struct {
	Filename  string
	BaseModel string
	ModelName string
	ModelType string
}

// EffectiveModel returns the label used for the second taxonomy level: the
// base model for LORA-type rows, the model name for everything else.
func (r Record) EffectiveModel() string {
	if strings.EqualFold(strings.TrimSpace(r.ModelType), "lora") {
		return r.BaseModel
	}
	return r.ModelName
}

// cleanLabel trims a field and substitutes placeholder values.
func cleanLabel(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "nan") {
		return Unknown
	}
	return value
}
