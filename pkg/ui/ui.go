// Package ui selects how results are presented: rich terminal output,
// plain text, or machine-readable JSON and YAML.
package ui
