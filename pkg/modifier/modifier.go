// Package modifier defines the style and layout payload attached to emitted
// nodes. The composition core never interprets it: a Chain travels with each
// emission, is stored on the matched node, and is handed unmodified to the
// presentation layer. The vocabulary is a closed set of variants rather than
// an open interface, since nothing in the runtime dispatches on modifier
// behavior.
package modifier

import (
	"fmt"
	"strings"
)

// Kind identifies a modifier variant.
type Kind int

const (
	// KindPadding insets content on each side.
	KindPadding Kind = iota + 1
	// KindSize fixes width and/or height.
	KindSize
	// KindFillMaxWidth expands to the maximum available width.
	KindFillMaxWidth
	// KindFillMaxHeight expands to the maximum available height.
	KindFillMaxHeight
	// KindFillMaxSize expands to the maximum available size.
	KindFillMaxSize
	// KindBackground fills the node's bounds with a color.
	KindBackground
	// KindBorder strokes the node's bounds.
	KindBorder
	// KindWeight distributes remaining space among siblings.
	KindWeight
	// KindClickable attaches a tap handler.
	KindClickable
	// KindContent carries leaf content (text label) for the presentation layer.
	KindContent
)

func (k Kind) String() string {
	switch k {
	case KindPadding:
		return "padding"
	case KindSize:
		return "size"
	case KindFillMaxWidth:
		return "fillMaxWidth"
	case KindFillMaxHeight:
		return "fillMaxHeight"
	case KindFillMaxSize:
		return "fillMaxSize"
	case KindBackground:
		return "background"
	case KindBorder:
		return "border"
	case KindWeight:
		return "weight"
	case KindClickable:
		return "clickable"
	case KindContent:
		return "content"
	default:
		return "unknown"
	}
}

// Color is an 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 0xff}
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// Modifier is one variant of the closed modifier vocabulary. Which fields
// are meaningful depends on Kind; the rest are zero.
type Modifier struct {
	Kind Kind

	// Padding, in logical pixels, for KindPadding.
	Top, Right, Bottom, Left float64

	// Fixed dimensions for KindSize. Zero means unconstrained.
	Width, Height float64

	// Color for KindBackground and KindBorder.
	Color Color

	// Stroke thickness for KindBorder.
	Thickness float64

	// Flex weight for KindWeight.
	Weight float64

	// Tap handler for KindClickable. Handler identity is not part of the
	// visual payload and is excluded from String output.
	OnClick func()

	// Leaf content for KindContent.
	Text string
}

func (m Modifier) String() string {
	switch m.Kind {
	case KindPadding:
		if m.Top == m.Right && m.Top == m.Bottom && m.Top == m.Left {
			return fmt.Sprintf("padding(%g)", m.Top)
		}
		return fmt.Sprintf("padding(%g,%g,%g,%g)", m.Top, m.Right, m.Bottom, m.Left)
	case KindSize:
		return fmt.Sprintf("size(%gx%g)", m.Width, m.Height)
	case KindBackground:
		return fmt.Sprintf("background(%s)", m.Color)
	case KindBorder:
		return fmt.Sprintf("border(%g,%s)", m.Thickness, m.Color)
	case KindWeight:
		return fmt.Sprintf("weight(%g)", m.Weight)
	case KindContent:
		return fmt.Sprintf("content(%q)", m.Text)
	default:
		return m.Kind.String()
	}
}

// Padding insets content by the same amount on all sides.
func Padding(all float64) Modifier {
	return Modifier{Kind: KindPadding, Top: all, Right: all, Bottom: all, Left: all}
}

// PaddingValues insets content by individual amounts per side.
func PaddingValues(top, right, bottom, left float64) Modifier {
	return Modifier{Kind: KindPadding, Top: top, Right: right, Bottom: bottom, Left: left}
}

// Size fixes both dimensions.
func Size(width, height float64) Modifier {
	return Modifier{Kind: KindSize, Width: width, Height: height}
}

// Width fixes the width only.
func Width(width float64) Modifier {
	return Modifier{Kind: KindSize, Width: width}
}

// Height fixes the height only.
func Height(height float64) Modifier {
	return Modifier{Kind: KindSize, Height: height}
}

// FillMaxWidth expands to the maximum available width.
func FillMaxWidth() Modifier { return Modifier{Kind: KindFillMaxWidth} }

// FillMaxHeight expands to the maximum available height.
func FillMaxHeight() Modifier { return Modifier{Kind: KindFillMaxHeight} }

// FillMaxSize expands to the maximum available size.
func FillMaxSize() Modifier { return Modifier{Kind: KindFillMaxSize} }

// Background fills the node's bounds with a color.
func Background(c Color) Modifier {
	return Modifier{Kind: KindBackground, Color: c}
}

// Border strokes the node's bounds.
func Border(thickness float64, c Color) Modifier {
	return Modifier{Kind: KindBorder, Color: c, Thickness: thickness}
}

// Weight distributes remaining space among siblings proportionally.
func Weight(w float64) Modifier {
	return Modifier{Kind: KindWeight, Weight: w}
}

// Clickable attaches a tap handler.
func Clickable(onClick func()) Modifier {
	return Modifier{Kind: KindClickable, OnClick: onClick}
}

// Content carries leaf content such as a text label.
func Content(text string) Modifier {
	return Modifier{Kind: KindContent, Text: text}
}

// Chain is an ordered sequence of modifiers. Order is preserved; the
// presentation layer applies modifiers first to last.
type Chain []Modifier

// NewChain builds a chain from the given modifiers.
func NewChain(mods ...Modifier) Chain {
	return Chain(mods)
}

// Then returns a new chain with m appended.
func (c Chain) Then(m Modifier) Chain {
	out := make(Chain, 0, len(c)+1)
	out = append(out, c...)
	out = append(out, m)
	return out
}

// Content returns the text of the first content modifier, or "".
func (c Chain) Content() string {
	for _, m := range c {
		if m.Kind == KindContent {
			return m.Text
		}
	}
	return ""
}

// ClickHandler returns the handler of the first clickable modifier, or nil.
func (c Chain) ClickHandler() func() {
	for _, m := range c {
		if m.Kind == KindClickable && m.OnClick != nil {
			return m.OnClick
		}
	}
	return nil
}

func (c Chain) String() string {
	if len(c) == 0 {
		return ""
	}
	parts := make([]string, len(c))
	for i, m := range c {
		parts[i] = m.String()
	}
	return strings.Join(parts, ".")
}
