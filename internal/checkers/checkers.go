// Package checkers provides quicktest checkers shared by the test suites.
package checkers

import (
	"encoding/json"
	"fmt"

	qt "github.com/frankban/quicktest"
	"github.com/yalp/jsonpath"
)

// JSONPathEquals returns a checker asserting that the value selected by path
// in a JSON document equals the wanted value. The document may be a string
// or a []byte; numbers decode as float64.
//
//	c.Assert(body, checkers.JSONPathEquals("$.status"), "ok")
func JSONPathEquals(path string) qt.Checker {
	return &jsonPathChecker{path: path, eq: qt.DeepEquals}
}

type jsonPathChecker struct {
	path string
	eq   qt.Checker
}

// ArgNames implements qt.Checker.
func (j *jsonPathChecker) ArgNames() []string {
	return []string{"json doc", "want"}
}

// Check implements qt.Checker.
func (j *jsonPathChecker) Check(got any, args []any, note func(key string, value any)) error {
	var raw []byte
	switch v := got.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		note("got type", fmt.Sprintf("%T", got))
		return qt.BadCheckf("first argument is not a JSON string or []byte")
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("cannot parse JSON: %w", err)
	}
	value, err := jsonpath.Read(doc, j.path)
	if err != nil {
		note("path", j.path)
		return fmt.Errorf("cannot read path: %w", err)
	}
	note("path", j.path)
	return j.eq.Check(value, args, note)
}
