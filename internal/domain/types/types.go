// Package types contains common types used across the application
package types

// View is the responsive pane arrangement.
type View string

const (
	// ViewBoth shows list and map side by side (wide viewport).
	ViewBoth View = "both"
	// ViewList shows only the list pane (narrow viewport).
	ViewList View = "list"
	// ViewMap shows only the map pane (narrow viewport).
	ViewMap View = "map"
)

// Narrow reports whether v is one of the single-pane mobile states.
func (v View) Narrow() bool {
	return v == ViewList || v == ViewMap
}

// String implements fmt.Stringer.
func (v View) String() string { return string(v) }
