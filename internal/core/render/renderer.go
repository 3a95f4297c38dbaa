// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package render draws the frames of a reel: an animated gradient with
// orbiting shapes, particles and progress bars under word-wrapped text that
// is revealed over time.
package render

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"github.com/fogleman/gg"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/model"
)

// Frame geometry.
const (
	Width  = 1080
	Height = 1920
)

// Text layout.
const (
	CharsPerSecond = 20
	WrapWidth      = 22
	MaxLines       = 4
	HookWrapWidth  = 12
	PromptWrap     = 28
	CallToAction   = "LIKE & FOLLOW FOR MORE!"
	InsightTitle   = "KEY INSIGHT"
)

// ErrNoFrames is returned for a frame source with nothing to draw.
var ErrNoFrames = errors.New("no frames to render")

var (
	white  = color.RGBA{255, 255, 255, 255}
	black  = color.RGBA{0, 0, 0, 255}
	yellow = color.RGBA{255, 255, 0, 255}
	cyan   = color.RGBA{0, 255, 255, 255}
	lime   = color.RGBA{0, 255, 0, 255}
	orange = color.RGBA{255, 165, 0, 255}
	barBg  = color.RGBA{40, 40, 40, 255}
	// dims uploaded backgrounds so text stays readable
	scrim = color.RGBA{0, 0, 0, 90}
)

// Renderer draws frames for one style. It reuses a single frame buffer, so a
// returned frame is only valid until the next call, and it is not safe for
// concurrent use.
type Renderer struct {
	width, height int
	palette       model.Palette
	fonts         *fontCache
	sources       []image.Image
	backgrounds   []*image.RGBA
	buf           *image.RGBA
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSize overrides the 1080x1920 frame size.
func WithSize(width, height int) Option {
	return func(r *Renderer) { r.width, r.height = width, height }
}

// WithBackgrounds adds images drawn behind the animation. Segment i uses
// background i modulo their count.
func WithBackgrounds(images ...image.Image) Option {
	return func(r *Renderer) {
		for _, img := range images {
			if img != nil {
				r.sources = append(r.sources, img)
			}
		}
	}
}

// NewRenderer creates a renderer using the palette of style.
func NewRenderer(style model.Style, opts ...Option) (*Renderer, error) {
	fonts, err := newFontCache()
	if err != nil {
		return nil, err
	}
	r := &Renderer{width: Width, height: Height, palette: model.PaletteFor(style), fonts: fonts}
	for _, o := range opts {
		o(r)
	}
	for _, img := range r.sources {
		r.backgrounds = append(r.backgrounds, CoverFit(img, r.width, r.height))
	}
	r.sources = nil
	r.buf = image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	return r, nil
}

// Size returns the frame size.
func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

// Frame draws seg at t seconds into the segment.
func (r *Renderer) Frame(seg model.Segment, t float64) *image.RGBA {
	return r.SegmentFrame(0, seg, t)
}

// SegmentFrame draws seg, the index-th segment of its script, at t seconds
// into the segment.
func (r *Renderer) SegmentFrame(index int, seg model.Segment, t float64) *image.RGBA {
	if t < 0 {
		t = 0
	}
	if seg.Type == model.SegmentHook {
		r.gradient(0)
		r.background(index)
		dc := gg.NewContextForRGBA(r.buf)
		r.hook(dc, seg.Text, t)
		return r.buf
	}

	r.gradient(t)
	r.background(index)
	dc := gg.NewContextForRGBA(r.buf)
	r.circles(dc, t)
	r.particles(dc, t)
	r.bars(dc, t)
	r.insight(dc, seg, t)
	if seg.Type == model.SegmentConclusion {
		r.callToAction(dc, t)
	}
	return r.buf
}

// FallbackFrame is a still gradient with the prompt centred on it.
func (r *Renderer) FallbackFrame(prompt string) *image.RGBA {
	r.fill(func(y int) float64 { return float64(y) / float64(r.height) })
	dc := gg.NewContextForRGBA(r.buf)
	dc.SetFontFace(r.fonts.face(false, 60))
	dc.SetColor(white)
	lines := Wrap(prompt, PromptWrap)
	y := float64(r.height / 2)
	for _, line := range lines {
		w, _ := dc.MeasureString(line)
		dc.DrawStringAnchored(line, float64(r.width-int(w))/2, y, 0, 1)
		y += 75
	}
	return r.buf
}

// gradient fills the frame with the palette, the blend ratio of each row
// shifted by a slow sine wave when t > 0.
func (r *Renderer) gradient(t float64) {
	r.fill(func(y int) float64 {
		ratio := float64(y) / float64(r.height)
		if t > 0 {
			ratio += 0.15 * math.Sin(t*2+float64(y)*0.005)
		}
		return math.Max(0, math.Min(1, ratio))
	})
}

func (r *Renderer) fill(ratioAt func(y int) float64) {
	from, to := r.palette.From, r.palette.To
	pix, stride := r.buf.Pix, r.buf.Stride
	for y := 0; y < r.height; y++ {
		ratio := ratioAt(y)
		c := [4]uint8{
			mix(from.R, to.R, ratio),
			mix(from.G, to.G, ratio),
			mix(from.B, to.B, ratio),
			0xff,
		}
		row := pix[y*stride : y*stride+r.width*4]
		for x := 0; x < len(row); x += 4 {
			copy(row[x:x+4], c[:])
		}
	}
}

func mix(a, b uint8, ratio float64) uint8 {
	return uint8(float64(a)*(1-ratio) + float64(b)*ratio)
}

func (r *Renderer) background(index int) {
	if len(r.backgrounds) == 0 {
		return
	}
	if index < 0 {
		index = -index
	}
	bg := r.backgrounds[index%len(r.backgrounds)]
	draw.Draw(r.buf, r.buf.Bounds(), bg, image.Point{}, draw.Over)
	draw.Draw(r.buf, r.buf.Bounds(), image.NewUniform(scrim), image.Point{}, draw.Over)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// circles orbit the centre, drawn only away from the edges.
func (r *Renderer) circles(dc *gg.Context, t float64) {
	colors := []color.RGBA{white, yellow, cyan}
	for i := 0; i < 6; i++ {
		fi := float64(i)
		angle := radians(math.Mod(t*30+fi*60, 360))
		radius := 250 + 50*math.Sin(t+fi)
		cx := r.width/2 + int(radius*math.Cos(angle))
		cy := r.height/2 + int(radius*math.Sin(angle))
		if cx < 50 || cx > r.width-50 || cy < 50 || cy > r.height-50 {
			continue
		}
		size := int(20 + 10*math.Sin(t*3+fi))
		dc.SetColor(colors[i%3])
		dc.DrawCircle(float64(cx), float64(cy), float64(size))
		dc.Fill()
	}
}

func (r *Renderer) particles(dc *gg.Context, t float64) {
	dc.SetColor(white)
	for i := 0; i < 15; i++ {
		fi := float64(i)
		px := int(math.Mod(fi*89+t*80, float64(r.width)))
		py := int(math.Mod(fi*113+t*60, float64(r.height)))
		size := int(4 + 2*math.Sin(t*4+fi))
		if px < size || px > r.width-size || py < size || py > r.height-size {
			continue
		}
		dc.DrawCircle(float64(px), float64(py), float64(size))
		dc.Fill()
	}
}

// bars fill over a three second cycle along the right edge.
func (r *Renderer) bars(dc *gg.Context, t float64) {
	x := float64(r.width - 200)
	for i := 0; i < 4; i++ {
		y := float64(200 + i*80)
		progress := math.Mod(t*0.8+float64(i)*0.5, 3)
		w := int(150 * math.Min(1, progress))
		if int(x)+w > r.width-20 {
			continue
		}
		dc.SetColor(barBg)
		dc.DrawRectangle(x, y, 150, 15)
		dc.Fill()
		if w > 0 {
			dc.SetColor(r.palette.To)
			dc.DrawRectangle(x, y, float64(w), 15)
			dc.Fill()
		}
	}
}

// text draws s with its top-left corner at x, y over a drop shadow.
func text(dc *gg.Context, s string, x, y, shadow float64, c color.Color) {
	dc.SetColor(black)
	dc.DrawStringAnchored(s, x+shadow, y+shadow, 0, 1)
	dc.SetColor(c)
	dc.DrawStringAnchored(s, x, y, 0, 1)
}

// insight draws the bouncing title, the revealed text and the statistic card.
func (r *Renderer) insight(dc *gg.Context, seg model.Segment, t float64) {
	title := r.fonts.face(true, 55)
	body := r.fonts.face(false, 42)

	dc.SetFontFace(title)
	dc.SetColor(yellow)
	dc.DrawStringAnchored(InsightTitle, 60, float64(180+int(15*math.Sin(t*4))), 0, 1)

	dc.SetFontFace(body)
	lines := Wrap(Reveal(seg.Text, t, CharsPerSecond), WrapWidth)
	if len(lines) > MaxLines {
		lines = lines[:MaxLines]
	}
	y := 280
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			bounce := int(8 * math.Sin(t*3+float64(y)*0.01))
			text(dc, line, 60, float64(y+bounce), 2, white)
		}
		y += 60
	}

	if seg.Data == nil {
		return
	}
	dataY := y + 80
	if dataY+100 >= r.height {
		return
	}
	dc.SetFontFace(title)
	text(dc, seg.Data.Label+": "+seg.Data.Value, 60, float64(dataY), 2, lime)
	if seg.Data.Change != "" {
		c := orange
		if strings.Contains(seg.Data.Change, "+") {
			c = lime
		}
		dc.SetFontFace(body)
		text(dc, "Change: "+seg.Data.Change, 60, float64(dataY+60), 2, c)
	}
}

// rainbow cycles through the hue circle 200 degrees per second.
func rainbow(t float64) color.RGBA {
	hue := math.Mod(t*200, 360)
	channel := func(offset float64) uint8 {
		return uint8(255 * (1 + math.Sin(radians(hue+offset))) / 2)
	}
	return color.RGBA{channel(0), channel(120), channel(240), 255}
}

func (r *Renderer) callToAction(dc *gg.Context, t float64) {
	dc.SetFontFace(r.fonts.face(true, 65))
	tw, _ := dc.MeasureString(CallToAction)
	x := math.Max(10, float64(r.width-int(tw))/2)
	y := float64(r.height - 250 + int(30*math.Sin(t*6)))
	text(dc, CallToAction, x, y, 3, rainbow(t))

	dc.SetColor(yellow)
	for i := 0; i < 8; i++ {
		fi := float64(i)
		angle := radians(math.Mod(t*300+fi*45, 360))
		radius := 150 + 30*math.Sin(t*4+fi)
		sx := x + tw/2 + float64(int(radius*math.Cos(angle)))
		sy := y + 30 + float64(int(radius*math.Sin(angle)))
		if sx < 0 || sx >= float64(r.width) || sy < 0 || sy >= float64(r.height) {
			continue
		}
		size := float64(int(8 + 4*math.Sin(t*10+fi)))
		dc.MoveTo(sx, sy-size)
		dc.LineTo(sx+size/2, sy)
		dc.LineTo(sx, sy+size)
		dc.LineTo(sx-size/2, sy)
		dc.ClosePath()
		dc.Fill()
	}
}

// hook is large centred text bouncing on a still gradient.
func (r *Renderer) hook(dc *gg.Context, s string, t float64) {
	dc.SetFontFace(r.fonts.face(true, 70))
	lines := Wrap(s, HookWrapWidth)
	bounce := int(20 * math.Sin(t*4))
	y := r.height/2 - len(lines)*40
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			w, _ := dc.MeasureString(line)
			x := math.Max(10, float64(r.width-int(w))/2)
			text(dc, line, x, float64(y+bounce), 3, white)
		}
		y += 80
	}
}
