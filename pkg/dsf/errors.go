// pkg/dsf/errors.go
// Copyright(c) 2024 Holger Teutsch, licensed under the MIT License
// SPDX: MIT

package dsf

import "fmt"

// FormatError reports malformed or truncated binary input. Offset is the
// byte position in the input where decoding failed, Tag the atom being
// decoded, if any.
type FormatError struct {
	Offset int
	Tag    string
	Msg    string
}

func (e *FormatError) Error() string {
	if e.Tag != "" {
		return fmt.Sprintf("offset %d: atom %q: %s", e.Offset, e.Tag, e.Msg)
	}
	return fmt.Sprintf("offset %d: %s", e.Offset, e.Msg)
}

func formatErrorf(offset int, tag string, format string, args ...any) error {
	return &FormatError{Offset: offset, Tag: tag, Msg: fmt.Sprintf(format, args...)}
}

// StructureError reports a well-formed file that is missing sections this
// tool requires; such a file is out of scope for conversion.
type StructureError struct {
	Missing string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("required %q atom not present", e.Missing)
}

// EncodingError reports an internal invariant violation while rebuilding
// atom payloads. It indicates a logic bug, not bad input.
type EncodingError struct {
	Msg string
}

func (e *EncodingError) Error() string {
	return e.Msg
}

func encodingErrorf(format string, args ...any) error {
	return &EncodingError{Msg: fmt.Sprintf(format, args...)}
}
