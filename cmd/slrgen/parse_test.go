package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func compileForParse(t *testing.T, src string) string {
	t.Helper()

	grmPath := writeTempFile(t, "grammar.txt", src)
	outPath := filepath.Join(t.TempDir(), "grammar.json")
	_, _, err := runCommand(t, "", "compile", grmPath, "-o", outPath)
	if err != nil {
		t.Fatal(err)
	}
	return outPath
}

func Test_Parse(t *testing.T) {
	descPath := compileForParse(t, "E -> E + T | T\nT -> id\n")

	t.Run("prints an AST by default", func(t *testing.T) {
		assert := assert.New(t)

		stdout, _, err := runCommand(t, "id + id", "parse", descPath)
		if !assert.NoError(err) {
			return
		}
		assert.Equal(`E
├─ id "id"
├─ + "+"
└─ id "id"
`, stdout)
	})

	t.Run("prints a CST", func(t *testing.T) {
		assert := assert.New(t)

		srcPath := writeTempFile(t, "src.txt", "id")
		stdout, _, err := runCommand(t, "", "parse", descPath, "--cst", "-s", srcPath)
		if !assert.NoError(err) {
			return
		}
		assert.Equal(`E
└─ T
   └─ id "id"
`, stdout)
	})

	t.Run("reports a syntax error", func(t *testing.T) {
		assert := assert.New(t)

		stdout, stderr, err := runCommand(t, "id id", "parse", descPath)
		assert.Error(err)
		assert.Empty(stdout)
		assert.Equal("1:4: unexpected token: 'id'; expected: +, $\n", stderr)
	})
}

func Test_Test(t *testing.T) {
	grmPath := writeTempFile(t, "grammar.txt", "E -> E + T | T\nT -> id\n")

	t.Run("passes", func(t *testing.T) {
		assert := assert.New(t)

		casePath := writeTempFile(t, "case.txt", "id\n---\nE\n└─ T\n   └─ id \"id\"\n")
		stdout, _, err := runCommand(t, "", "test", grmPath, casePath)
		assert.NoError(err)
		assert.Equal("Passed "+casePath+"\n", stdout)
	})

	t.Run("fails", func(t *testing.T) {
		assert := assert.New(t)

		casePath := writeTempFile(t, "case.txt", "id\n---\n<syntax error>\n")
		stdout, _, err := runCommand(t, "", "test", grmPath, casePath)
		assert.Error(err)
		assert.Contains(stdout, "Failed "+casePath)
	})
}
