// Package templating expands template files from records. The Engine
// loads and merges record files (JSON, YAML or stamp info files), applies
// NAME=VALUE variables, fills the template through the formatter package
// with configurable delimiters (default "{{" and "}}"), and writes the
// result to a file or stdout.
//
// Every record field must have a placeholder in the template. The
// template is formatted before the output is opened, so a failing
// expansion never touches an existing output file.
package templating
