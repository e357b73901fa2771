package present

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/term"
)

const (
	defaultCols = 80
	defaultRows = 24

	// Title and prompt lines.
	chromeRows = 2

	halfBlock = "▀"
)

// TerminalViewer draws each frame in the terminal with half-block
// characters, two pixels per cell, and waits for Enter before returning.
type TerminalViewer struct {
	in     *bufio.Reader
	out    io.Writer
	size   func() (cols, rows int)
	render *lipgloss.Renderer
}

// ViewerOption configures a TerminalViewer.
type ViewerOption func(*TerminalViewer)

// WithViewerInput sets where the viewer waits for Enter. Default: stdin.
func WithViewerInput(r io.Reader) ViewerOption {
	return func(v *TerminalViewer) {
		v.in = bufio.NewReader(r)
	}
}

// WithViewerOutput sets where frames are drawn. Default: stdout.
func WithViewerOutput(w io.Writer) ViewerOption {
	return func(v *TerminalViewer) {
		v.out = w
	}
}

// WithViewerSize fixes the drawing area instead of querying the terminal.
func WithViewerSize(cols, rows int) ViewerOption {
	return func(v *TerminalViewer) {
		v.size = func() (int, int) { return cols, rows }
	}
}

// NewTerminalViewer creates a viewer on stdin/stdout unless overridden.
func NewTerminalViewer(opts ...ViewerOption) *TerminalViewer {
	v := &TerminalViewer{}
	for _, opt := range opts {
		opt(v)
	}
	if v.in == nil {
		v.in = bufio.NewReader(os.Stdin)
	}
	if v.out == nil {
		v.out = os.Stdout
	}
	if v.size == nil {
		v.size = func() (int, int) { return terminalSize(v.out) }
	}
	v.render = lipgloss.NewRenderer(v.out)
	return v
}

// terminalSize reports the size of the terminal behind w, or the defaults
// when w is not a terminal.
func terminalSize(w io.Writer) (int, int) {
	f, ok := w.(*os.File)
	if !ok {
		return defaultCols, defaultRows
	}
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return defaultCols, defaultRows
	}
	cols, rows, err := term.GetSize(fd)
	if err != nil || cols <= 0 || rows <= chromeRows {
		return defaultCols, defaultRows
	}
	return cols, rows
}

// Present implements Presenter.
func (v *TerminalViewer) Present(f Frame) error {
	if f.Image == nil {
		return fmt.Errorf("frame %s has no image", f.Title())
	}
	cols, rows := v.size()
	img := fit(f.Image, cols, max(rows-chromeRows, 1)*2)

	var sb strings.Builder
	sb.WriteString(v.render.NewStyle().Bold(true).Render(f.Title()))
	sb.WriteByte('\n')
	sb.WriteString(v.cells(img))
	sb.WriteString(v.render.NewStyle().Faint(true).Render("press Enter to continue"))
	if _, err := io.WriteString(v.out, sb.String()); err != nil {
		return fmt.Errorf("draw frame: %w", err)
	}

	if _, err := v.in.ReadString('\n'); err != nil && err != io.EOF {
		return fmt.Errorf("wait for enter: %w", err)
	}
	return nil
}

// cells renders img two rows at a time: the upper pixel is the foreground
// of a half block and the lower one its background.
func (v *TerminalViewer) cells(img *image.RGBA) string {
	b := img.Bounds()
	var sb strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			style := v.render.NewStyle().Foreground(hexColor(img.RGBAAt(x, y)))
			if y+1 < b.Max.Y {
				style = style.Background(hexColor(img.RGBAAt(x, y+1)))
			}
			sb.WriteString(style.Render(halfBlock))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

// fit scales src to the largest size within maxW x maxH that keeps its
// aspect ratio.
func fit(src *image.RGBA, maxW, maxH int) *image.RGBA {
	sw, sh := src.Bounds().Dx(), src.Bounds().Dy()
	if sw == 0 || sh == 0 || maxW <= 0 || maxH <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	w, h := maxW, sh*maxW/sw
	if h > maxH {
		w, h = sw*maxH/sh, maxH
	}
	w, h = max(w, 1), max(h, 1)
	if w == sw && h == sh {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}
