// Package formatter fills delimited placeholders in a template with the
// field values of a record. The record is serialized into a flat field
// map (JSON by default) and every field must have its placeholder in the
// template; placeholders without a matching field are left untouched.
//
// Delimiters default to "{{" and "}}". They can be set on a Formatter or,
// per record type, by implementing Delimited.
package formatter
