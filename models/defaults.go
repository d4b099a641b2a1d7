package models

// Documented defaults used both by the reference-data bootstrap and by sync
// normalization: a required-but-empty field is filled with its baseline value
// instead of failing the upload.
const (
	DefaultSpiceLevel = "mild"
	DefaultDietary    = "non_veg"
	DefaultStatus     = "active"
	DefaultPrice      = "0"
)
