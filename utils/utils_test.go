package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidDBNameChar(t *testing.T) {
	for _, db := range []string{"ts_field_1", "tsrecord", "forced.ts", "t1$"} {
		if fields := strings.FieldsFunc(db, IsValidDBNameChar); len(fields) != 1 {
			t.Fatalf("failed to parse db name %v", db)
		}
	}
	assert.Len(t, strings.FieldsFunc("a b", IsValidDBNameChar), 2)
}

func TestSourceDir(t *testing.T) {
	cases := []struct {
		file string
		want string
	}{
		{
			file: "/Users/name/go/pkg/mod/github.com/forcedfields/forcedfields@v1.2.3/utils/utils.go",
			want: "/Users/name/go/pkg/mod/github.com/forcedfields/forcedfields@v1.2.3/",
		},
		{
			file: "/go/work/forcedfields/utils/utils.go",
			want: "/go/work/forcedfields/",
		},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, sourceDir(c.file), c.file)
	}
}

func TestFileWithLineNum(t *testing.T) {
	file := FileWithLineNum()
	assert.Contains(t, file, "utils_test.go:")
}

func TestCallerFrame(t *testing.T) {
	frame := CallerFrame()
	assert.NotZero(t, frame.PC)
	assert.True(t, strings.HasSuffix(frame.File, "utils_test.go"))
}

func TestCheckTruth(t *testing.T) {
	assert.True(t, CheckTruth("1"))
	assert.True(t, CheckTruth("", "yes"))
	assert.False(t, CheckTruth(""))
	assert.False(t, CheckTruth("FALSE", ""))
}
