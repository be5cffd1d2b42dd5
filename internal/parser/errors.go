package parser

import (
	"errors"
	"fmt"
)

// MalformedBlockError reports a block-start marker with no matching
// block-end marker before end of input. It is fatal to the whole run:
// the verifier never executes any block from a malformed document.
type MalformedBlockError struct {
	// Path is the source document, when known.
	Path string
	// StartLine is the 1-based line number of the unmatched marker.
	StartLine int
}

// Error implements the error interface.
func (e *MalformedBlockError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s:%d: unterminated code block", e.Path, e.StartLine)
	}
	return fmt.Sprintf("line %d: unterminated code block", e.StartLine)
}

// IsMalformed checks if the error is or wraps a MalformedBlockError.
func IsMalformed(err error) bool {
	var mbe *MalformedBlockError
	return errors.As(err, &mbe)
}

func asMalformed(err error, target **MalformedBlockError) bool {
	return errors.As(err, target)
}
