// Package demo holds the sample UIs `arbor run` opens.
package demo

import (
	"maps"
	"slices"

	"github.com/agiangrant/arbor/geom"
	"github.com/agiangrant/arbor/retained"
)

// Demos maps a demo name to its root constructor.
var Demos = map[string]func() retained.Component{
	"counter": func() retained.Component { return &Counter{Step: 1} },
	"todo":    func() retained.Component { return &Todo{} },
}

// Names returns the demo names in order.
func Names() []string {
	return slices.Sorted(maps.Keys(Demos))
}

func column(gap float32) retained.Layout {
	return retained.Layout{
		Direction: retained.Column,
		Gap:       gap,
		Padding:   geom.All(16),
		Size:      retained.Dims(retained.Pct(100), retained.Pct(100)),
	}
}

func row(gap float32) retained.Layout {
	return retained.Layout{Direction: retained.Row, Gap: gap, CrossAlign: retained.AlignCenter}
}

func buttonLayout() retained.Layout {
	return retained.Layout{Padding: geom.Symmetric(6, 12)}
}
