// Package validation evaluates field values against their declared rules.
//
// Checks run in a fixed order and the first failure wins: required, pattern,
// length, then kind-specific checks (email shape, numeric parse and bounds).
// A Validator never mutates presentation state; callers apply each Result.
package validation
