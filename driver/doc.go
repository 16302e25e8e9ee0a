// Package driver runs a table-driven parser over a compiled description.
package driver

import "github.com/npillmayer/schuko/tracing"

func tracer() tracing.Trace {
	return tracing.Select("slrgen.driver")
}
