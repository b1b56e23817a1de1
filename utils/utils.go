package utils

import (
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"unicode"
)

var moduleSourceDir string

func init() {
	_, file, _, _ := runtime.Caller(0)
	moduleSourceDir = sourceDir(file)
}

// sourceDir returns the module root for the path of this file, with a
// trailing slash, so callers can tell module frames from user frames.
func sourceDir(file string) string {
	dir := filepath.Dir(filepath.Dir(file))
	return filepath.ToSlash(dir) + "/"
}

func fromModule(file string) bool {
	return strings.HasPrefix(filepath.ToSlash(file), moduleSourceDir) && !strings.HasSuffix(file, "_test.go")
}

// CallerFrame returns the first frame outside the module, test files
// excepted.
func CallerFrame() runtime.Frame {
	pcs := [13]uintptr{}
	// skip runtime.Callers and CallerFrame itself
	n := runtime.Callers(2, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !fromModule(frame.File) {
			return frame
		}
		if !more {
			break
		}
	}
	return runtime.Frame{}
}

// FileWithLineNum return the file name and line number of the current file
func FileWithLineNum() string {
	frame := CallerFrame()
	if frame.PC == 0 {
		return ""
	}
	return frame.File + ":" + strconv.FormatInt(int64(frame.Line), 10)
}

// IsValidDBNameChar reports characters that cannot appear in a plain
// identifier.
func IsValidDBNameChar(c rune) bool {
	return !unicode.IsLetter(c) && !unicode.IsNumber(c) && c != '.' && c != '_' && c != '$'
}

// CheckTruth check string true or not
func CheckTruth(vals ...string) bool {
	for _, val := range vals {
		if val != "" && !strings.EqualFold(val, "false") {
			return true
		}
	}
	return false
}
