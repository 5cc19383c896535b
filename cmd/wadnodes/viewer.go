package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	wad "github.com/stuarthighley/wadnodes"
	"github.com/stuarthighley/wadnodes/render"
)

// viewer holds the currently open level and the node selection on it.
type viewer struct {
	store   *wad.Store
	markers []wad.LumpNum
	index   int
	level   *wad.Level
	nav     *wad.Navigator
}

func newViewer(store *wad.Store, markers []wad.LumpNum) *viewer {
	return &viewer{store: store, markers: markers}
}

// open loads level i. On failure the previous level stays open.
func (v *viewer) open(i int) error {
	level, err := v.store.ReadLevel(v.markers[i])
	if err != nil {
		return err
	}
	v.index = i
	v.level = level
	v.nav = wad.NewNavigator(level)
	return nil
}

func (v *viewer) prompt() string {
	if v.level == nil {
		return ""
	}
	return fmt.Sprintf("%s node %d", v.level.Name, v.nav.Selected())
}

var errUsage = errors.New("bad arguments, see 'help'")

func (v *viewer) exec(w io.Writer, args []string) error {
	switch args[0] {
	case "help":
		fmt.Fprintln(w, `maps              list levels
map <n|name>      open a level
next, prev        open the next or previous level
lumps [archive]   list an archive's directory
info              summarize the open level
tree              print the BSP tree
locate <x> <y>    find the subsector containing a point
hover <x> <y>     highlight the side of the selected node a point is on
step              descend into the highlighted child
reset             select the root node
png <file> [w h]  render the level with the current selection
quit              exit`)

	case "maps":
		for i, name := range v.store.LevelNames(v.markers) {
			mark := " "
			if i == v.index {
				mark = "*"
			}
			fmt.Fprintf(w, "%s %3d %-8s %v\n", mark, i, name, v.markers[i])
		}

	case "map":
		if len(args) != 2 {
			return errUsage
		}
		i, err := strconv.Atoi(args[1])
		if err != nil {
			marker, err := v.store.FindLevel(args[1])
			if err != nil {
				return err
			}
			for j, m := range v.markers {
				if m == marker {
					i = j
				}
			}
		}
		if i < 0 || i >= len(v.markers) {
			return fmt.Errorf("level %d out of range", i)
		}
		return v.open(i)

	case "next":
		return v.open((v.index + 1) % len(v.markers))

	case "prev":
		return v.open((v.index + len(v.markers) - 1) % len(v.markers))

	case "lumps":
		a := v.store.NumArchives() - 1
		if len(args) == 2 {
			var err error
			if a, err = strconv.Atoi(args[1]); err != nil {
				return err
			}
		}
		if a < 0 || a >= v.store.NumArchives() {
			return fmt.Errorf("archive %d out of range", a)
		}
		archive := v.store.Archive(a)
		fmt.Fprintf(w, "%s (%s)\n", archive.Name, archive.Magic)
		for i, li := range archive.LumpInfos() {
			fmt.Fprintf(w, "%5d %-8s %9d %9d\n", i, li.Name.Display(), li.Filepos, li.Size)
		}

	case "info":
		l := v.level
		fmt.Fprintf(w, "%s: %v\n", l.Name, l.NodeFormat)
		fmt.Fprintf(w, "  %d things, %d lines, %d sides, %d vertexes, %d sectors\n",
			len(l.Things), len(l.Lines), len(l.Sides), len(l.Vertexes), len(l.Sectors))
		fmt.Fprintf(w, "  %d segs, %d subsectors, %d nodes, root %d\n",
			len(l.Segs), len(l.SubSectors), len(l.Nodes), l.RootNode())
		fmt.Fprintf(w, "  block map %dx%d\n", l.BlockMap.NumColumns, l.BlockMap.NumRows)

	case "tree":
		return wad.PrintTree(w, v.level)

	case "locate":
		x, y, err := point(args)
		if err != nil {
			return err
		}
		ss, err := v.level.LocateLeaf(x, y)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "subsector %d, sector %d\n", ss, v.level.SubSectors[ss].Sector)

	case "hover":
		x, y, err := point(args)
		if err != nil {
			return err
		}
		side := v.nav.Hover(x, y)
		fmt.Fprintf(w, "side %d: %v\n", side, v.childOf(side))

	case "step":
		child, moved := v.nav.Step()
		if !moved {
			fmt.Fprintf(w, "stopped at %v\n", child)
			return nil
		}
		fmt.Fprintf(w, "selected %v\n", child)

	case "reset":
		v.nav.Reset()

	case "png":
		if len(args) != 2 && len(args) != 4 {
			return errUsage
		}
		width, height := defaultWidth, defaultHeight
		if len(args) == 4 {
			var err error
			if width, err = strconv.Atoi(args[2]); err != nil {
				return err
			}
			if height, err = strconv.Atoi(args[3]); err != nil {
				return err
			}
		}
		return v.writePNG(args[1], width, height)

	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
	return nil
}

func (v *viewer) childOf(side int) wad.ChildRef {
	if v.nav.Selected() < 0 {
		return wad.NoChild
	}
	return v.level.Nodes[v.nav.Selected()].Child(side)
}

func (v *viewer) writePNG(path string, width, height int) error {
	canvas := render.NewImageCanvas(width, height)
	view := render.CalculateView(v.level, width, height, v.nav.Selected())
	render.DrawMap(canvas, v.level, view, render.StateOf(v.nav))

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := canvas.WritePNG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func point(args []string) (float32, float32, error) {
	if len(args) != 3 {
		return 0, 0, errUsage
	}
	x, err := strconv.ParseFloat(args[1], 32)
	if err != nil {
		return 0, 0, err
	}
	y, err := strconv.ParseFloat(args[2], 32)
	if err != nil {
		return 0, 0, err
	}
	return float32(x), float32(y), nil
}
