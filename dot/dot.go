// Package dot serializes groups of people into the graphviz description
// consumed by the renderer.
//
// Each group becomes one edge chain, so a group of two names is a single
// edge and longer groups form a path. Names are upper-cased and quoted but
// not escaped: a name containing a double quote produces an invalid
// description.
package dot

import (
	"strconv"
	"strings"
)

const (
	DefaultName   = "meetup_graph"
	DefaultLayout = "circo"
	DefaultWidth  = 60
	DefaultHeight = 60
)

// Option configures the graph header.
type Option func(*options)

type options struct {
	name   string
	layout string
	width  int
	height int
}

// WithName sets the graph name.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLayout sets the graphviz layout engine, such as circo or neato.
func WithLayout(engine string) Option {
	return func(o *options) {
		o.layout = engine
	}
}

// WithSize sets the maximum drawing size in inches.
func WithSize(width, height int) Option {
	return func(o *options) {
		o.width = width
		o.height = height
	}
}

// Serialize writes one line per group, in order, without sorting or removing
// duplicates. Groups of zero or one names still produce a line. The result
// has no trailing newline.
func Serialize(groups [][]string, opts ...Option) string {
	o := options{
		name:   DefaultName,
		layout: DefaultLayout,
		width:  DefaultWidth,
		height: DefaultHeight,
	}
	for _, opt := range opts {
		opt(&o)
	}

	var sb strings.Builder
	sb.WriteString("strict graph " + o.name + " {\n")
	sb.WriteString("layout=" + o.layout + "\n")
	sb.WriteString(`size="` + strconv.Itoa(o.width) + "," + strconv.Itoa(o.height) + "\"\n")
	sb.WriteString("oneblock=true\n")

	for _, group := range groups {
		for i, name := range group {
			if i > 0 {
				sb.WriteString(" -- ")
			}
			sb.WriteString(`"` + strings.ToUpper(name) + `"`)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("}")
	return sb.String()
}
