// Package model defines the declarative form schema consumed by the renderer,
// the field validator and the submission controller. A FormDefinition is
// plain data: sections hold ordered fields, fields carry a closed Kind, an
// optional ValidationRule and, for select/checkbox/radio kinds, an ordered
// option list. Definitions decode from JSON or YAML (`type` for the field
// kind, `action` for the submission target) and are validated once with
// Validate before rendering.
package model
