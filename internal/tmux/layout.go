package tmux

import (
	"fmt"
	"strconv"
	"strings"
)

// LayoutKind tells a leaf cell from the two kinds of split.
type LayoutKind int

const (
	// LayoutPane is a leaf cell holding one pane.
	LayoutPane LayoutKind = iota
	// LayoutHorizontal lays its children side by side (`{...}`).
	LayoutHorizontal
	// LayoutVertical stacks its children top to bottom (`[...]`).
	LayoutVertical
)

func (k LayoutKind) String() string {
	switch k {
	case LayoutPane:
		return "pane"
	case LayoutHorizontal:
		return "horizontal"
	case LayoutVertical:
		return "vertical"
	default:
		return "unknown"
	}
}

// LayoutCell is one rectangle of a window layout.
type LayoutCell struct {
	Width, Height int
	X, Y          int
	Kind          LayoutKind
	// Pane is set on leaf cells.
	Pane     PaneID
	Children []LayoutCell
}

// Layout is a parsed `#{window_layout}` string such as
//
//	c0c5,199x50,0,0{99x50,0,0,1,99x50,100,0[99x25,100,0,2,99x24,100,26,3]}
type Layout struct {
	Checksum uint16
	// Body is the layout text after the checksum, the part tmux checksums.
	Body string
	Root LayoutCell
}

const layoutIntent = "##{window_layout}"

// ParseLayout parses a tmux window layout string.
func ParseLayout(input string) (Layout, error) {
	s := newScanner(input)
	csum := s.hex16()
	s.lit(',')
	body := s.rest
	root := s.layoutCell()
	if err := s.finish("WindowLayout", layoutIntent); err != nil {
		return Layout{}, err
	}
	return Layout{Checksum: csum, Body: body, Root: root}, nil
}

// Valid reports whether the checksum matches the layout body.
func (l Layout) Valid() bool {
	return layoutChecksum(l.Body) == l.Checksum
}

// PaneIDs returns the panes of the layout in tmux's tree order.
func (l Layout) PaneIDs() []PaneID {
	var ids []PaneID
	var walk func(c LayoutCell)
	walk = func(c LayoutCell) {
		if c.Kind == LayoutPane {
			ids = append(ids, c.Pane)
			return
		}
		for _, child := range c.Children {
			walk(child)
		}
	}
	walk(l.Root)
	return ids
}

// layoutChecksum is tmux's 16-bit rotate-and-add checksum.
func layoutChecksum(body string) uint16 {
	var csum uint16
	for i := 0; i < len(body); i++ {
		csum = (csum >> 1) + ((csum & 1) << 15)
		csum += uint16(body[i])
	}
	return csum
}

// FormatLayout renders a cell tree in the textual form `select-layout`
// accepts, with a freshly computed checksum.
func FormatLayout(root LayoutCell) string {
	body := formatCell(root)
	return fmt.Sprintf("%04x,%s", layoutChecksum(body), body)
}

func formatCell(c LayoutCell) string {
	head := fmt.Sprintf("%dx%d,%d,%d", c.Width, c.Height, c.X, c.Y)
	var left, right byte
	switch c.Kind {
	case LayoutPane:
		return head + "," + strings.TrimPrefix(string(c.Pane), "%")
	case LayoutHorizontal:
		left, right = '{', '}'
	default:
		left, right = '[', ']'
	}
	out := []byte(head)
	out = append(out, left)
	for i, child := range c.Children {
		if i > 0 {
			out = append(out, ',')
		}
		out = append(out, formatCell(child)...)
	}
	return string(append(out, right))
}

func (s *scanner) hex16() uint16 {
	if s.err != nil {
		return 0
	}
	if len(s.rest) < 4 {
		s.err = expected("4-digit hex checksum", s.rest)
		return 0
	}
	n, err := strconv.ParseUint(s.rest[:4], 16, 16)
	if err != nil {
		s.err = expected("4-digit hex checksum", s.rest)
		return 0
	}
	s.rest = s.rest[4:]
	return uint16(n)
}

func (s *scanner) digitsToken() string {
	if s.err != nil {
		return ""
	}
	var ds string
	s.rest, ds, s.err = digits(s.rest)
	return ds
}

// layoutCell parses `WxH,X,Y` followed by `,N`, `{cells}` or `[cells]`.
func (s *scanner) layoutCell() LayoutCell {
	var c LayoutCell
	c.Width = s.uint()
	s.lit('x')
	c.Height = s.uint()
	s.lit(',')
	c.X = s.uint()
	s.lit(',')
	c.Y = s.uint()
	if s.err != nil {
		return c
	}

	switch {
	case hasPrefix(s.rest, ","):
		s.lit(',')
		c.Kind = LayoutPane
		if ds := s.digitsToken(); s.err == nil {
			c.Pane = PaneID("%" + ds)
		}
	case hasPrefix(s.rest, "{"):
		c.Kind = LayoutHorizontal
		c.Children = s.layoutChildren('{', '}')
	case hasPrefix(s.rest, "["):
		c.Kind = LayoutVertical
		c.Children = s.layoutChildren('[', ']')
	default:
		s.err = expected("pane number or split", s.rest)
	}
	return c
}

func (s *scanner) layoutChildren(left, right byte) []LayoutCell {
	s.lit(left)
	var children []LayoutCell
	for s.err == nil {
		children = append(children, s.layoutCell())
		if s.err != nil || !hasPrefix(s.rest, ",") {
			break
		}
		s.lit(',')
	}
	s.lit(right)
	return children
}
