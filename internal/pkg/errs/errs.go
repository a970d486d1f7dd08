package errs

import (
	"fmt"
	"strings"

	cr "github.com/cockroachdb/errors"
)

// Wrap annotates err with msg and a stack trace. A nil err stays nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

func New(msg string) error {
	return cr.New(msg)
}

// Mark makes err match markErr under errors.Is without changing its message.
func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return cr.Mark(err, markErr)
}

// ExtractStackLines renders err with its stack and returns at most maxLines
// non-blank lines for structured logs.
func ExtractStackLines(err error, maxLines int) []string {
	if err == nil {
		return nil
	}
	var lines []string
	for _, l := range strings.Split(fmt.Sprintf("%+v", err), "\n") {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		lines = append(lines, l)
		if maxLines > 0 && len(lines) == maxLines {
			break
		}
	}
	return lines
}
