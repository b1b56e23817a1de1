// Package checks reports configuration problems as structured issues so
// that a whole schema can be examined before anything fails.
package checks

import (
	"errors"
	"fmt"
	"strings"
)

// Level is the severity of an issue.
type Level int

const (
	Debug    Level = 10
	Info     Level = 20
	Warning  Level = 30
	Error    Level = 40
	Critical Level = 50
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warning:
		return "WARNING"
	case Error:
		return "ERROR"
	case Critical:
		return "CRITICAL"
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// Issue is a single diagnostic with a stable identifier such as
// "fields.E160".
type Issue struct {
	Level Level
	ID    string
	Msg   string
	Hint  string
	Obj   string
}

// NewError builds an Error level issue.
func NewError(id, obj, msg, hint string) Issue {
	return Issue{Level: Error, ID: id, Obj: obj, Msg: msg, Hint: hint}
}

// NewWarning builds a Warning level issue.
func NewWarning(id, obj, msg, hint string) Issue {
	return Issue{Level: Warning, ID: id, Obj: obj, Msg: msg, Hint: hint}
}

// IsSerious reports whether the issue should stop a strict run.
func (i Issue) IsSerious() bool {
	return i.Level >= Error
}

func (i Issue) String() string {
	var sb strings.Builder
	if i.Obj != "" {
		sb.WriteString(i.Obj)
		sb.WriteString(": ")
	}
	if i.ID != "" {
		sb.WriteString("(" + i.ID + ") ")
	}
	sb.WriteString(i.Msg)
	if i.Hint != "" {
		sb.WriteString("\n\tHINT: ")
		sb.WriteString(i.Hint)
	}
	return sb.String()
}

func (i Issue) Error() string {
	return i.String()
}

// Checker is anything that can examine itself.
type Checker interface {
	Check() []Issue
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func() []Issue

func (f CheckerFunc) Check() []Issue {
	return f()
}

// Run collects the issues of every checker, in order.
func Run(checkers ...Checker) []Issue {
	var issues []Issue
	for _, c := range checkers {
		if c == nil {
			continue
		}
		issues = append(issues, c.Check()...)
	}
	return issues
}

// Serious filters issues down to the ones at Error level or above.
func Serious(issues []Issue) []Issue {
	var serious []Issue
	for _, issue := range issues {
		if issue.IsSerious() {
			serious = append(serious, issue)
		}
	}
	return serious
}

// AsError joins the serious issues into one error, or returns nil.
func AsError(issues []Issue) error {
	var errs []error
	for _, issue := range Serious(issues) {
		errs = append(errs, issue)
	}
	return errors.Join(errs...)
}
