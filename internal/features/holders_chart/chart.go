package holders_chart

// Line chart of cumulative holders against date
// X axis is categorical (one slot per distinct date, first-seen order), y axis is linear
// Margins are sized from measured text so nothing is clipped

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"iacs-holders/internal/infra/fs"
	logging "iacs-holders/internal/infra/log"

	"github.com/fogleman/gg"
	"go.uber.org/zap"
	"golang.org/x/image/font"
)

const (
	titleFontSize = 16.0
	labelFontSize = 13.0
	tickFontSize  = 11.0

	pad      = 10.0 // outer padding around every text block
	tickLen  = 5.0
	tickGap  = 3.0  // between a tick mark and its label
	xInset   = 0.05 // categorical padding, fraction of the category span per side
	maxYTick = 6
)

type Options struct {
	Title        string
	XLabel       string
	YLabel       string
	Width        int
	Height       int
	TickRotation float64 // degrees, counter-clockwise
	LineColor    color.Color
	LineWidth    float64
}

// DefaultOptions is the $IACS holders chart: 10x6in at 100dpi, blue line, 45 degree dates.
func DefaultOptions() Options {
	return Options{
		Title:        "$IACS Unique Holders Over Time",
		XLabel:       "Date",
		YLabel:       "Unique Holders",
		Width:        1000,
		Height:       600,
		TickRotation: 45,
		LineColor:    color.RGBA{0, 0, 255, 255},
		LineWidth:    1.5,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.LineColor == nil {
		o.LineColor = d.LineColor
	}
	if o.LineWidth <= 0 {
		o.LineWidth = d.LineWidth
	}
	return o
}

// Point is one plotted vertex. X and Y are pixel coordinates; Y is NaN for a gap.
type Point struct {
	Label string
	Value float64
	X, Y  float64
}

// TextBox is the on-canvas bounding box of a drawn string.
type TextBox struct {
	Role                   string // title, xlabel, ylabel, xtick, ytick
	Text                   string
	MinX, MinY, MaxX, MaxY float64
}

type Rect struct {
	Left, Top, Right, Bottom float64
}

func (r Rect) Width() float64  { return r.Right - r.Left }
func (r Rect) Height() float64 { return r.Bottom - r.Top }

type Chart struct {
	opts   Options
	dc     *gg.Context
	plot   Rect
	points []Point
	xTicks []int
	yTicks []float64
	yLo    float64
	yHi    float64
	yStep  float64
	boxes  []TextBox
}

type faces struct {
	title, label, tick font.Face
}

// RenderChart draws one line through (dates[i], counts[i]) in input order.
// Empty input yields an empty framed plot.
func RenderChart(dates []string, counts []float64, opts Options) (*Chart, error) {
	if len(dates) != len(counts) {
		return nil, &LengthMismatchError{Dates: len(dates), Counts: len(counts)}
	}
	opts = opts.withDefaults()

	c := &Chart{
		opts: opts,
		dc:   gg.NewContext(opts.Width, opts.Height),
	}
	f := faces{
		title: faceFor(titleFontSize),
		label: faceFor(labelFontSize),
		tick:  faceFor(tickFontSize),
	}

	if err := c.layout(f, dates, counts); err != nil {
		return nil, err
	}
	c.draw(f)

	logging.LogInfo("Holders chart rendered",
		zap.Int("points", len(c.points)),
		zap.Int("x_ticks", len(c.xTicks)),
		zap.Int("y_ticks", len(c.yTicks)))
	return c, nil
}

func (c *Chart) measure(face font.Face, s string) (float64, float64) {
	c.dc.SetFontFace(face)
	return c.dc.MeasureString(s)
}

// rotatedBox returns the bounds of s drawn with DrawStringAnchored(s, x, y, ax, ay)
// after rotating deg counter-clockwise about (x, y).
func rotatedBox(x, y, w, h, ax, ay, deg float64) (minX, minY, maxX, maxY float64) {
	rad := gg.Radians(-deg)
	sin, cos := math.Sin(rad), math.Cos(rad)
	left, right := -ax*w, (1-ax)*w
	top, bottom := -(1-ay)*h, ay*h

	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, corner := range [][2]float64{{left, top}, {right, top}, {left, bottom}, {right, bottom}} {
		px := x + corner[0]*cos - corner[1]*sin
		py := y + corner[0]*sin + corner[1]*cos
		minX, maxX = math.Min(minX, px), math.Max(maxX, px)
		minY, maxY = math.Min(minY, py), math.Max(maxY, py)
	}
	return minX, minY, maxX, maxY
}

// xTickAnchor: rotated labels hang below the axis from the tick, flat ones
// are centred under it. Counter-clockwise text ends at the tick, clockwise
// text starts there.
func (c *Chart) xTickAnchor() (float64, float64) {
	sin := math.Sin(gg.Radians(c.opts.TickRotation))
	switch {
	case math.Abs(sin) < 1e-3:
		return 0.5, 1
	case sin < 0:
		return 0, 0.5
	}
	return 1, 0.5
}

// categorySlots maps each row to its x slot. Repeated labels share the slot
// of their first occurrence; firstRow lists the first row of every slot.
func categorySlots(labels []string) (slots, firstRow []int) {
	slots = make([]int, len(labels))
	seen := make(map[string]int, len(labels))
	for i, l := range labels {
		s, ok := seen[l]
		if !ok {
			s = len(firstRow)
			seen[l] = s
			firstRow = append(firstRow, i)
		}
		slots[i] = s
	}
	return slots, firstRow
}

func (c *Chart) layout(f faces, dates []string, counts []float64) error {
	W, H := float64(c.opts.Width), float64(c.opts.Height)

	lo, hi := valueRange(counts)
	ticks, step := niceTicks(lo, hi, maxYTick)
	c.yTicks, c.yLo, c.yHi, c.yStep = ticks, lo, hi, step

	var yTickW float64
	_, tickH := c.measure(f.tick, "0")
	for _, v := range ticks {
		w, _ := c.measure(f.tick, formatTick(v, step))
		yTickW = math.Max(yTickW, w)
	}

	top := pad + tickH/2
	if c.opts.Title != "" {
		_, th := c.measure(f.title, c.opts.Title)
		top = pad + th + pad
	}

	left := pad + yTickW + tickGap + tickLen
	if c.opts.YLabel != "" {
		_, yh := c.measure(f.label, c.opts.YLabel)
		left += yh + pad
	}

	slots, firstRow := categorySlots(dates)

	ax, ay := c.xTickAnchor()
	var below, firstLeft, maxRight, maxTickW float64
	for i, row := range firstRow {
		w, h := c.measure(f.tick, dates[row])
		minX, _, maxX, maxY := rotatedBox(0, 0, w, h, ax, ay, c.opts.TickRotation)
		below = math.Max(below, maxY)
		maxRight = math.Max(maxRight, maxX)
		maxTickW = math.Max(maxTickW, w)
		if i == 0 {
			firstLeft = -minX
		}
	}

	bottom := pad + tickLen + tickGap + below
	if c.opts.XLabel != "" {
		_, xh := c.measure(f.label, c.opts.XLabel)
		bottom += xh + pad
	}
	left = math.Max(left, pad+firstLeft)
	right := pad + math.Max(maxRight, tickH/2)

	c.plot = Rect{Left: left, Top: top, Right: W - right, Bottom: H - bottom}
	if c.plot.Width() < 1 || c.plot.Height() < 1 {
		return &RenderError{
			Op:  "layout",
			Err: fmt.Errorf("canvas %dx%d too small for labels", c.opts.Width, c.opts.Height),
		}
	}

	n := len(firstRow)
	usable := c.plot.Width()
	inset := 0.0
	if n > 1 {
		inset = c.plot.Width() * xInset / (1 + 2*xInset)
		usable -= 2 * inset
	}
	xPos := func(i int) float64 {
		if n == 1 {
			return c.plot.Left + c.plot.Width()/2
		}
		return c.plot.Left + inset + float64(i)*usable/float64(n-1)
	}
	yPos := func(v float64) float64 {
		return c.plot.Bottom - (v-lo)/(hi-lo)*c.plot.Height()
	}

	c.points = make([]Point, len(dates))
	for i := range dates {
		y := math.NaN()
		if v := counts[i]; !math.IsNaN(v) && !math.IsInf(v, 0) {
			y = yPos(v)
		}
		c.points[i] = Point{Label: dates[i], Value: counts[i], X: xPos(slots[i]), Y: y}
	}

	// Minimum horizontal distance between neighbouring x labels.
	spacing := maxTickW + 8
	if sin := math.Abs(math.Sin(gg.Radians(c.opts.TickRotation))); sin >= 1e-3 {
		spacing = math.Min(spacing, 1.3*tickH/sin)
	}
	stride := 1
	if n > 1 {
		stride = categoryStride(n, int(usable/spacing)+1)
	}
	c.xTicks = c.xTicks[:0]
	for s := 0; s < n; s += stride {
		c.xTicks = append(c.xTicks, firstRow[s])
	}
	return nil
}

func (c *Chart) draw(f faces) {
	dc := c.dc
	p := c.plot

	dc.SetColor(color.White)
	dc.Clear()

	// series
	dc.SetColor(c.opts.LineColor)
	dc.SetLineWidth(c.opts.LineWidth)
	dc.SetLineCapRound()
	dc.SetLineJoinRound()
	penDown := false
	for _, pt := range c.points {
		if math.IsNaN(pt.Y) {
			penDown = false
			continue
		}
		if penDown {
			dc.LineTo(pt.X, pt.Y)
		} else {
			dc.MoveTo(pt.X, pt.Y)
			penDown = true
		}
	}
	dc.Stroke()

	// frame
	dc.SetColor(color.Black)
	dc.SetLineWidth(1)
	dc.DrawRectangle(p.Left, p.Top, p.Width(), p.Height())
	dc.Stroke()

	for _, v := range c.yTicks {
		y := p.Bottom - (v-c.yLo)/(c.yHi-c.yLo)*p.Height()
		dc.DrawLine(p.Left-tickLen, y, p.Left, y)
		dc.Stroke()
		c.text(f.tick, "ytick", formatTick(v, c.yStep), p.Left-tickLen-tickGap, y, 1, 0.5, 0)
	}

	ax, ay := c.xTickAnchor()
	for _, i := range c.xTicks {
		x := c.points[i].X
		dc.DrawLine(x, p.Bottom, x, p.Bottom+tickLen)
		dc.Stroke()
		c.text(f.tick, "xtick", c.points[i].Label, x, p.Bottom+tickLen+tickGap, ax, ay, c.opts.TickRotation)
	}

	centerX := p.Left + p.Width()/2
	if c.opts.Title != "" {
		x := centerX
		w, _ := c.measure(f.title, c.opts.Title)
		if x-w/2 < pad || x+w/2 > float64(c.opts.Width)-pad {
			x = float64(c.opts.Width) / 2
		}
		c.text(f.title, "title", c.opts.Title, x, pad, 0.5, 1, 0)
	}
	if c.opts.XLabel != "" {
		_, h := c.measure(f.label, c.opts.XLabel)
		c.text(f.label, "xlabel", c.opts.XLabel, centerX, float64(c.opts.Height)-pad-h, 0.5, 1, 0)
	}
	if c.opts.YLabel != "" {
		_, h := c.measure(f.label, c.opts.YLabel)
		c.text(f.label, "ylabel", c.opts.YLabel, pad+h/2, p.Top+p.Height()/2, 0.5, 0.5, 90)
	}
}

// text draws s anchored at (x, y), rotated deg counter-clockwise, and records its box.
func (c *Chart) text(face font.Face, role, s string, x, y, ax, ay, deg float64) {
	dc := c.dc
	dc.SetFontFace(face)
	dc.SetColor(color.Black)
	w, h := dc.MeasureString(s)

	dc.Push()
	if deg != 0 {
		dc.RotateAbout(gg.Radians(-deg), x, y)
	}
	dc.DrawStringAnchored(s, x, y, ax, ay)
	dc.Pop()

	minX, minY, maxX, maxY := rotatedBox(x, y, w, h, ax, ay, deg)
	c.boxes = append(c.boxes, TextBox{Role: role, Text: s, MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY})
}

// Points returns the plotted vertices in input order.
func (c *Chart) Points() []Point {
	out := make([]Point, len(c.points))
	copy(out, c.points)
	return out
}

func (c *Chart) Options() Options     { return c.opts }
func (c *Chart) PlotArea() Rect       { return c.plot }
func (c *Chart) TextBoxes() []TextBox { return append([]TextBox(nil), c.boxes...) }

// XTickIndices are the rows whose labels are drawn under the x axis.
func (c *Chart) XTickIndices() []int         { return append([]int(nil), c.xTicks...) }
func (c *Chart) YTicks() []float64           { return append([]float64(nil), c.yTicks...) }
func (c *Chart) Image() image.Image          { return c.dc.Image() }
func (c *Chart) EncodePNG(w io.Writer) error { return c.dc.EncodePNG(w) }

// SavePNG writes the chart to path, creating parent directories, and
// rejects an empty result.
func (c *Chart) SavePNG(path string) error {
	if err := fs.EnsureParentDir(path); err != nil {
		return &RenderError{Op: "save", Path: path, Err: err}
	}
	if err := c.dc.SavePNG(path); err != nil {
		return &RenderError{Op: "save", Path: path, Err: err}
	}
	size, err := fs.VerifyNonEmpty(path)
	if err != nil {
		return &RenderError{Op: "save", Path: path, Err: err}
	}

	logging.LogInfo("Holders chart saved",
		zap.String("filename", path),
		zap.Int64("fileSize", size),
		zap.Int("pointsCount", len(c.points)))
	return nil
}
