// Package record loads the records fed to the formatter from files: JSON
// objects, the first mapping of a YAML stream, or Bazel workspace status
// files ("KEY VALUE" per line). Records loaded from several sources can be
// merged and overridden with NAME=VALUE variables, whose values may
// reference string fields as {KEY}.
package record
