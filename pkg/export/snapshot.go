package export

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	"github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/mind/pkg/tree"
)

// SnapshotOptions controls outline snapshot export.
type SnapshotOptions struct {
	Path        string     // Output path; format inferred from extension when Format empty
	Format      string     // "svg" or "png" (case-insensitive). If empty, inferred from Path.
	Title       string     // Optional title rendered in the header; defaults to the root name
	Tree        *tree.Tree // Tree to render
	VisibleOnly bool       // Skip the children of collapsed nodes
}

var (
	ErrNoTree    = errors.New("no tree to export")
	ErrNoPath    = errors.New("output path is required")
	ErrBadFormat = errors.New("unsupported snapshot format")
	errEmptyRows = errors.New("tree has no nodes")
)

// SaveSnapshot renders the tree as an indented outline, one row per node,
// to SVG or PNG.
func SaveSnapshot(opts SnapshotOptions) error {
	if opts.Tree == nil {
		return ErrNoTree
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".svg":
			format = "svg"
		case ".png":
			format = "png"
		default:
			format = "svg" // safe default
			if opts.Path != "" && filepath.Ext(opts.Path) == "" {
				opts.Path = opts.Path + ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("%w %q (want svg or png)", ErrBadFormat, format)
	}
	if opts.Path == "" {
		return ErrNoPath
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	layout, err := buildOutline(opts)
	if err != nil {
		return err
	}

	switch format {
	case "svg":
		return renderSVG(opts.Path, layout)
	default:
		return renderPNG(opts.Path, layout)
	}
}

// --- layout computation ----------------------------------------------------

const (
	rowHeight   = 22.0
	indentWidth = 24.0
	charWidth   = 7.0 // basicfont.Face7x13 advance
	margin      = 24.0
	headerH     = 64.0
	badgeGap    = 10.0
	minWidth    = 480
)

type outlineRow struct {
	Depth    int
	Name     string
	Icon     string
	Badge    string // "", "file" or "link"
	Children int
	X, Y     float64 // text anchor
	ParentY  float64 // y of the parent's row, for the connector
}

type outlineLayout struct {
	Title  string
	Rows   []outlineRow
	Files  int
	Links  int
	Width  int
	Height int
}

func buildOutline(opts SnapshotOptions) (outlineLayout, error) {
	var infos []tree.NodeInfo
	if opts.VisibleOnly {
		infos = opts.Tree.VisibleNodes()
	} else {
		opts.Tree.Walk(func(info tree.NodeInfo) bool {
			infos = append(infos, info)
			return true
		})
	}
	if len(infos) == 0 {
		return outlineLayout{}, errEmptyRows
	}

	l := outlineLayout{Title: opts.Title}
	if l.Title == "" {
		l.Title = infos[0].Name
	}

	var parentY []float64 // parentY[d] is the y of the last row at depth d
	widest := float64(len([]rune(l.Title))) * charWidth
	for i, info := range infos {
		y := headerH + margin + float64(i)*rowHeight
		row := outlineRow{
			Depth:    info.Depth,
			Name:     info.Name,
			Icon:     info.Icon,
			Children: info.ChildCount,
			X:        margin + float64(info.Depth)*indentWidth,
			Y:        y,
		}
		if info.Data != nil {
			row.Badge = info.Data.Kind.String()
			switch info.Data.Kind {
			case tree.KindFile:
				l.Files++
			case tree.KindLink:
				l.Links++
			}
		}
		parentY = append(parentY[:info.Depth], y)
		if info.Depth > 0 {
			row.ParentY = parentY[info.Depth-1]
		}

		w := row.X + 16 + float64(len([]rune(rowLabel(row))))*charWidth
		if row.Badge != "" {
			w += badgeGap + float64(len(row.Badge)+2)*charWidth
		}
		widest = max(widest, w)
		l.Rows = append(l.Rows, row)
	}

	l.Width = max(minWidth, int(widest+2*margin))
	l.Height = int(headerH + 2*margin + float64(len(l.Rows))*rowHeight)
	return l, nil
}

func rowLabel(r outlineRow) string {
	if r.Icon != "" {
		return r.Icon + " " + r.Name
	}
	return r.Name
}

// --- rendering -------------------------------------------------------------

var (
	colorBackdrop  = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	colorHeaderBG  = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
	colorStroke    = color.RGBA{0x22, 0x22, 0x22, 0xff}
	colorEdge      = color.RGBA{0x6b, 0x80, 0xbf, 0xff}
	colorText      = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorSubtle    = color.RGBA{0x66, 0x66, 0x66, 0xff}
	colorBranch    = color.RGBA{0xbd, 0x93, 0xf9, 0xff}
	colorLeaf      = color.RGBA{0xcf, 0xd8, 0xdc, 0xff}
	colorFileBadge = color.RGBA{0xe0, 0xf2, 0xf1, 0xff}
	colorLinkBadge = color.RGBA{0xe3, 0xf2, 0xfd, 0xff}
)

func badgeColor(kind string) color.RGBA {
	if kind == "link" {
		return colorLinkBadge
	}
	return colorFileBadge
}

func bulletColor(r outlineRow) color.RGBA {
	if r.Children > 0 {
		return colorBranch
	}
	return colorLeaf
}

func summaryLine(l outlineLayout) string {
	return fmt.Sprintf("nodes: %d  files: %d  links: %d", len(l.Rows), l.Files, l.Links)
}

func renderPNG(path string, l outlineLayout) error {
	dc := gg.NewContext(l.Width, l.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()

	dc.SetColor(colorHeaderBG)
	dc.DrawRoundedRectangle(16, 16, float64(l.Width)-32, headerH-16, 10)
	dc.Fill()

	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(colorText)
	dc.DrawStringAnchored(l.Title, 32, 34, 0, 0.5)
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(summaryLine(l), 32, 52, 0, 0.5)

	// connectors first so bullets draw over them
	dc.SetColor(colorEdge)
	dc.SetLineWidth(1)
	for _, r := range l.Rows {
		if r.Depth == 0 {
			continue
		}
		px := r.X - indentWidth + 4
		dc.DrawLine(px, r.ParentY+5, px, r.Y)
		dc.Stroke()
		dc.DrawLine(px, r.Y, r.X, r.Y)
		dc.Stroke()
	}

	for _, r := range l.Rows {
		drawRow(dc, r)
	}

	return dc.SavePNG(path)
}

func drawRow(dc *gg.Context, r outlineRow) {
	dc.SetColor(bulletColor(r))
	dc.DrawRoundedRectangle(r.X, r.Y-4, 8, 8, 2)
	dc.Fill()
	dc.SetColor(colorStroke)
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(r.X, r.Y-4, 8, 8, 2)
	dc.Stroke()

	label := rowLabel(r)
	dc.SetColor(colorText)
	dc.DrawStringAnchored(label, r.X+16, r.Y, 0, 0.5)

	if r.Badge == "" {
		return
	}
	bx := r.X + 16 + float64(len([]rune(label)))*charWidth + badgeGap
	bw := float64(len(r.Badge)+2) * charWidth
	dc.SetColor(badgeColor(r.Badge))
	dc.DrawRoundedRectangle(bx, r.Y-8, bw, 16, 4)
	dc.Fill()
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(r.Badge, bx+charWidth, r.Y, 0, 0.5)
}

func renderSVG(path string, l outlineLayout) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := renderSVGToWriter(file, l); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func renderSVGToWriter(w io.Writer, l outlineLayout) error {
	canvas := svg.New(w)
	canvas.Start(l.Width, l.Height)
	canvas.Rect(0, 0, l.Width, l.Height, fmt.Sprintf("fill:%s", css(colorBackdrop)))
	canvas.Roundrect(16, 16, l.Width-32, int(headerH-16), 10, 10, fmt.Sprintf("fill:%s", css(colorHeaderBG)))
	canvas.Text(32, 38, l.Title, fmt.Sprintf("fill:%s;font-size:16px;font-family:monospace;font-weight:bold", css(colorText)))
	canvas.Text(32, 56, summaryLine(l), fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", css(colorSubtle)))

	edge := fmt.Sprintf("stroke:%s;stroke-width:1;fill:none", css(colorEdge))
	for _, r := range l.Rows {
		if r.Depth == 0 {
			continue
		}
		px := int(r.X - indentWidth + 4)
		canvas.Polyline([]int{px, px, int(r.X)}, []int{int(r.ParentY + 5), int(r.Y), int(r.Y)}, edge)
	}

	for _, r := range l.Rows {
		x, y := int(r.X), int(r.Y)
		canvas.Roundrect(x, y-4, 8, 8, 2, 2,
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(bulletColor(r)), css(colorStroke)))
		label := rowLabel(r)
		canvas.Text(x+16, y+4, label, fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", css(colorText)))
		if r.Badge != "" {
			bx := x + 16 + int(float64(len([]rune(label)))*charWidth+badgeGap)
			bw := int(float64(len(r.Badge)+2) * charWidth)
			canvas.Roundrect(bx, y-8, bw, 16, 4, 4, fmt.Sprintf("fill:%s", css(badgeColor(r.Badge))))
			canvas.Text(bx+int(charWidth), y+4, r.Badge, fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace", css(colorSubtle)))
		}
	}

	canvas.End()
	return nil
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
