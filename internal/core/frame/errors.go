package frame

import (
	"fmt"
	"strings"
)

// AmbiguousColumnError reports a frame holding several datetime
// columns when none was named
type AmbiguousColumnError struct {
	Candidates []string
}

func (e *AmbiguousColumnError) Error() string {
	return fmt.Sprintf("frame: %d datetime columns (%s); name the one to use",
		len(e.Candidates), strings.Join(e.Candidates, ", "))
}

// NoDatetimeColumnError reports a frame holding no datetime column
type NoDatetimeColumnError struct{}

func (e *NoDatetimeColumnError) Error() string {
	return "frame: no datetime column"
}
