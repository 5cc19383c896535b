// Package render draws a level's BSP tree onto a Canvas: subsector segs, the
// selected node's partition line and the bounding boxes of its children.
package render

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	wad "github.com/stuarthighley/wadnodes"
)

// Canvas is a drawing surface in screen coordinates, y growing downwards.
type Canvas interface {
	Size() (w, h int)
	Clear(c color.Color)
	Line(x1, y1, x2, y2 float32, c color.Color)
}

var (
	Background = color.RGBA{0, 0, 0, 0xff}
	NormalLine = color.RGBA{79, 79, 79, 0xff}
	SplitLine  = color.RGBA{119, 255, 111, 0xff}
	SplitRay   = color.RGBA{32, 68, 24, 0xff}
	LightBox   = color.RGBA{0, 0, 203, 0xff}
	DimBox     = color.RGBA{0, 0, 83, 0xff}
)

// View maps world coordinates to a canvas. Offset is the world center of the
// view already scaled by Zoom.
type View struct {
	Offset        mgl32.Vec2
	Zoom          float32
	Width, Height int
}

const bufferFactor = 1.02

// CalculateView fits the two child boxes of node into a w by h canvas. A
// negative node fits the whole level.
func CalculateView(level *wad.Level, w, h, node int) View {
	var lo, hi mgl32.Vec2
	if node >= 0 && node < len(level.Nodes) {
		n := &level.Nodes[node]
		lo = mgl32.Vec2{min(n.BBox[0].Left, n.BBox[1].Left), min(n.BBox[0].Bottom, n.BBox[1].Bottom)}
		hi = mgl32.Vec2{max(n.BBox[0].Right, n.BBox[1].Right), max(n.BBox[0].Top, n.BBox[1].Top)}
	} else if len(level.Vertexes) > 0 {
		lo, hi = level.Vertexes[0].Vec2(), level.Vertexes[0].Vec2()
		for _, v := range level.Vertexes[1:] {
			lo = mgl32.Vec2{min(lo.X(), v.X), min(lo.Y(), v.Y)}
			hi = mgl32.Vec2{max(hi.X(), v.X), max(hi.Y(), v.Y)}
		}
	}

	extent := hi.Sub(lo)
	zoom := float32(math.Min(
		float64(w)/(float64(max(abs(extent.X()), 1))*bufferFactor),
		float64(h)/(float64(max(abs(extent.Y()), 1))*bufferFactor),
	))
	center := lo.Add(extent.Mul(0.5))
	return View{Offset: center.Mul(zoom), Zoom: zoom, Width: w, Height: h}
}

// ToScreen converts a world point to canvas coordinates.
func (v View) ToScreen(p mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{
		float32(v.Width/2) - v.Offset.X() + p.X()*v.Zoom,
		float32(v.Height/2) + v.Offset.Y() - p.Y()*v.Zoom,
	}
}

// ToWorld converts a canvas point to world coordinates.
func (v View) ToWorld(x, y float32) mgl32.Vec2 {
	return mgl32.Vec2{
		(x - float32(v.Width/2) + v.Offset.X()) / v.Zoom,
		(float32(v.Height/2) - y + v.Offset.Y()) / v.Zoom,
	}
}

// State is what the viewer has selected.
type State struct {
	SelectedNode    int
	HighlightedSide int
}

// StateOf reads the selection from a navigator.
func StateOf(n *wad.Navigator) State {
	return State{SelectedNode: n.Selected(), HighlightedSide: n.HighlightedSide()}
}

// DrawMap clears c and draws the whole tree of level.
func DrawMap(c Canvas, level *wad.Level, view View, state State) {
	c.Clear(Background)
	d := drawer{c: c, level: level, view: view, state: state, visited: make([]bool, len(level.Nodes))}
	if len(level.Nodes) == 0 {
		d.subSector(0)
		return
	}
	d.node(wad.ChildRef(level.RootNode()))
}

type drawer struct {
	c     Canvas
	level *wad.Level
	view  View
	state State

	// Each node is drawn once, even when the table shares or cycles subtrees
	visited []bool
}

func (d *drawer) node(cursor wad.ChildRef) {
	var split *wad.Node
	for cursor != wad.NoChild && !cursor.IsLeaf() {
		if cursor.Node() >= len(d.level.Nodes) || d.visited[cursor.Node()] {
			return
		}
		d.visited[cursor.Node()] = true
		node := &d.level.Nodes[cursor.Node()]
		if cursor.Node() == d.state.SelectedNode {
			d.box(node.BoundBox(d.state.HighlightedSide^1), DimBox)
			ext := mgl32.Vec2{node.DX, node.DY}.Mul(128)
			origin := mgl32.Vec2{node.X, node.Y}
			d.line(origin.Sub(ext), origin.Add(ext.Mul(2)), SplitRay)
			split = node
		}
		d.node(node.Child(0))
		cursor = node.Child(1)
	}
	if cursor.IsLeaf() {
		d.subSector(cursor.SubSector())
	}

	if split != nil {
		d.box(split.BoundBox(d.state.HighlightedSide), LightBox)
		origin := mgl32.Vec2{split.X, split.Y}
		d.line(origin, origin.Add(mgl32.Vec2{split.DX, split.DY}), SplitLine)
	}
}

func (d *drawer) subSector(i int) {
	if i < 0 || i >= len(d.level.SubSectors) {
		return
	}
	ss := d.level.SubSectors[i]
	for _, seg := range d.level.Segs[ss.FirstSeg : ss.FirstSeg+ss.NumSegs] {
		d.line(d.level.Vertexes[seg.V1].Vec2(), d.level.Vertexes[seg.V2].Vec2(), NormalLine)
	}
}

func (d *drawer) box(b *wad.BoundBox, c color.Color) {
	tl := mgl32.Vec2{b.Left, b.Top}
	tr := mgl32.Vec2{b.Right, b.Top}
	bl := mgl32.Vec2{b.Left, b.Bottom}
	br := mgl32.Vec2{b.Right, b.Bottom}
	d.line(tl, bl, c)
	d.line(tr, br, c)
	d.line(tl, tr, c)
	d.line(bl, br, c)
}

func (d *drawer) line(a, b mgl32.Vec2, c color.Color) {
	p, q := d.view.ToScreen(a), d.view.ToScreen(b)
	d.c.Line(p.X(), p.Y(), q.X(), q.Y(), c)
}

func abs(f float32) float32 {
	return float32(math.Abs(float64(f)))
}
