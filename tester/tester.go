package tester

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nihei9/slrgen/driver"
	gspec "github.com/nihei9/slrgen/spec/grammar"
)

// testCaseDelimiter separates a source from its expected output in a test case file.
const testCaseDelimiter = "---"

// expectRejection is the expected output of a source that must fail to parse.
const expectRejection = "<syntax error>"

// TestCase is a source and the CST that the parser must print for it. When Rejected is true, the source
// must cause a syntax error.
type TestCase struct {
	Source   []byte
	Output   []string
	Rejected bool
}

// ParseTestCase reads a test case in the following format. Lines after the delimiter are compared with
// the output of driver.PrintTree after trimming trailing spaces.
//
//	<source>
//	---
//	<expected CST or <syntax error>>
func ParseTestCase(r io.Reader) (*TestCase, error) {
	var src []string
	var out []string
	delimited := false
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := s.Text()
		if !delimited && strings.TrimSpace(line) == testCaseDelimiter {
			delimited = true
			continue
		}
		if delimited {
			out = append(out, line)
		} else {
			src = append(src, line)
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if !delimited {
		return nil, fmt.Errorf("a test case needs the delimiter '%v'", testCaseDelimiter)
	}

	out = trimLines(out)
	if len(out) == 0 {
		return nil, fmt.Errorf("a test case needs an expected output")
	}
	if len(out) == 1 && out[0] == expectRejection {
		return &TestCase{
			Source:   []byte(strings.Join(src, "\n")),
			Rejected: true,
		}, nil
	}

	return &TestCase{
		Source: []byte(strings.Join(src, "\n")),
		Output: out,
	}, nil
}

// trimLines removes trailing spaces of each line and blank lines at both ends.
func trimLines(lines []string) []string {
	trimmed := make([]string, 0, len(lines))
	for _, l := range lines {
		trimmed = append(trimmed, strings.TrimRight(l, " \t\r"))
	}
	for len(trimmed) > 0 && trimmed[0] == "" {
		trimmed = trimmed[1:]
	}
	for len(trimmed) > 0 && trimmed[len(trimmed)-1] == "" {
		trimmed = trimmed[:len(trimmed)-1]
	}
	return trimmed
}

type TreeDiff struct {
	Line     int
	Expected string
	Actual   string
}

type TestResult struct {
	TestCasePath string
	Error        error
	Diffs        []*TreeDiff
}

func (r *TestResult) String() string {
	if r.Error != nil {
		const indent1 = "    "
		const indent2 = indent1 + indent1

		msgLines := strings.Split(r.Error.Error(), "\n")
		msg := fmt.Sprintf("Failed %v:\n%v%v", r.TestCasePath, indent1, strings.Join(msgLines, "\n"+indent1))
		if len(r.Diffs) == 0 {
			return msg
		}
		var diffLines []string
		for _, diff := range r.Diffs {
			diffLines = append(diffLines, fmt.Sprintf("line %v:", diff.Line))
			diffLines = append(diffLines, fmt.Sprintf("%vexpected: %v", indent1, diff.Expected))
			diffLines = append(diffLines, fmt.Sprintf("%vactual:   %v", indent1, diff.Actual))
		}
		return fmt.Sprintf("%v\n%v%v", msg, indent2, strings.Join(diffLines, "\n"+indent2))
	}
	return fmt.Sprintf("Passed %v", r.TestCasePath)
}

type TestCaseWithMetadata struct {
	TestCase *TestCase
	FilePath string
	Error    error
}

func ListTestCases(testPath string) []*TestCaseWithMetadata {
	fi, err := os.Stat(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	if !fi.IsDir() {
		c, err := parseTestCase(testPath)
		return []*TestCaseWithMetadata{
			{
				TestCase: c,
				FilePath: testPath,
				Error:    err,
			},
		}
	}

	es, err := os.ReadDir(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	var cases []*TestCaseWithMetadata
	for _, e := range es {
		cs := ListTestCases(filepath.Join(testPath, e.Name()))
		cases = append(cases, cs...)
	}
	return cases
}

func parseTestCase(testCasePath string) (*TestCase, error) {
	f, err := os.Open(testCasePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseTestCase(f)
}

type Tester struct {
	Description *gspec.Description
	Cases       []*TestCaseWithMetadata
}

func (t *Tester) Run() []*TestResult {
	var rs []*TestResult
	for _, c := range t.Cases {
		if c.Error != nil {
			rs = append(rs, &TestResult{
				TestCasePath: c.FilePath,
				Error:        c.Error,
			})
			continue
		}
		rs = append(rs, runTest(t.Description, c))
	}
	return rs
}

func runTest(desc *gspec.Description, c *TestCaseWithMetadata) *TestResult {
	var p *driver.Parser
	var treeAct *driver.SyntaxTreeActionSet
	{
		gram, err := driver.NewGrammar(desc)
		if err != nil {
			return &TestResult{
				TestCasePath: c.FilePath,
				Error:        err,
			}
		}
		toks, err := driver.NewTokenStream(gram, bytes.NewReader(c.TestCase.Source))
		if err != nil {
			return &TestResult{
				TestCasePath: c.FilePath,
				Error:        err,
			}
		}
		treeAct = driver.NewSyntaxTreeActionSet(gram, false, true)
		p, err = driver.NewParser(toks, gram, driver.SemanticAction(treeAct))
		if err != nil {
			return &TestResult{
				TestCasePath: c.FilePath,
				Error:        err,
			}
		}
	}

	err := p.Parse()
	if err != nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        err,
		}
	}

	synErrs := p.SyntaxErrors()
	if c.TestCase.Rejected {
		if len(synErrs) == 0 {
			return &TestResult{
				TestCasePath: c.FilePath,
				Error:        fmt.Errorf("a syntax error was expected, but the source was accepted"),
			}
		}
		return &TestResult{
			TestCasePath: c.FilePath,
		}
	}
	if len(synErrs) > 0 {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        fmt.Errorf("parse tree was not generated: %v", synErrs[0]),
		}
	}

	var b strings.Builder
	driver.PrintTree(&b, treeAct.CST())
	diffs := diffLines(c.TestCase.Output, trimLines(strings.Split(b.String(), "\n")))
	if len(diffs) > 0 {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        fmt.Errorf("output mismatch"),
			Diffs:        diffs,
		}
	}
	return &TestResult{
		TestCasePath: c.FilePath,
	}
}

func diffLines(expected, actual []string) []*TreeDiff {
	var diffs []*TreeDiff
	n := len(expected)
	if len(actual) > n {
		n = len(actual)
	}
	for i := 0; i < n; i++ {
		var e, a string
		if i < len(expected) {
			e = expected[i]
		}
		if i < len(actual) {
			a = actual[i]
		}
		if e == a {
			continue
		}
		diffs = append(diffs, &TreeDiff{
			Line:     i + 1,
			Expected: e,
			Actual:   a,
		})
	}
	return diffs
}
