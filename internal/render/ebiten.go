package render

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ayusman/headshooter/internal/game"
)

// EbitenSurface draws onto an ebiten image with vector shapes and Go Regular text.
type EbitenSurface struct {
	dst   *ebiten.Image
	res   *resources
	depth int
}

type resources struct {
	source *text.GoTextFaceSource
	faces  map[float64]*text.GoTextFace
	layers []*ebiten.Image // one reusable overlay layer per nesting depth
}

// NewEbitenSurface parses the HUD font. Call Attach before drawing each frame.
func NewEbitenSurface() (*EbitenSurface, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HUD font: %w", err)
	}

	return &EbitenSurface{
		res: &resources{
			source: source,
			faces:  make(map[float64]*text.GoTextFace),
		},
	}, nil
}

// Attach sets the image the next frame is drawn onto.
func (s *EbitenSurface) Attach(dst *ebiten.Image) {
	s.dst = dst
}

// Clear fills the whole image.
func (s *EbitenSurface) Clear(c color.Color) {
	s.dst.Fill(c)
}

// FillRect fills an axis-aligned rectangle.
func (s *EbitenSurface) FillRect(r game.Rect, c color.Color) {
	vector.DrawFilledRect(s.dst, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), c, true)
}

// FillCircle fills a circle centred on (cx, cy).
func (s *EbitenSurface) FillCircle(cx, cy, radius float64, c color.Color) {
	vector.DrawFilledCircle(s.dst, float32(cx), float32(cy), float32(radius), c, true)
}

// Text draws str centred on (cx, cy).
func (s *EbitenSurface) Text(str string, cx, cy, size float64, c color.Color) {
	face := s.face(size)

	op := &text.DrawOptions{}
	op.GeoM.Translate(cx, cy)
	op.ColorScale.ScaleWithColor(c)
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	text.Draw(s.dst, str, face, op)
}

// Overlay draws onto a cleared layer the size of the target and composites it at alpha.
func (s *EbitenSurface) Overlay(alpha float64, draw func(Surface)) {
	if alpha <= 0 {
		return
	}

	layer := s.layer()
	layer.Clear()
	draw(&EbitenSurface{dst: layer, res: s.res, depth: s.depth + 1})

	op := &ebiten.DrawImageOptions{}
	op.ColorScale.ScaleAlpha(float32(alpha))
	s.dst.DrawImage(layer, op)
}

func (s *EbitenSurface) face(size float64) *text.GoTextFace {
	if f, ok := s.res.faces[size]; ok {
		return f
	}
	f := &text.GoTextFace{Source: s.res.source, Size: size}
	s.res.faces[size] = f
	return f
}

func (s *EbitenSurface) layer() *ebiten.Image {
	b := s.dst.Bounds()
	for len(s.res.layers) <= s.depth {
		s.res.layers = append(s.res.layers, nil)
	}

	l := s.res.layers[s.depth]
	if l == nil || l.Bounds().Dx() != b.Dx() || l.Bounds().Dy() != b.Dy() {
		if l != nil {
			l.Deallocate()
		}
		l = ebiten.NewImage(b.Dx(), b.Dy())
		s.res.layers[s.depth] = l
	}
	return l
}

// KeyboardEvents polls the ebiten window and keyboard.
// The window must be created with ebiten.SetWindowClosingHandled(true).
type KeyboardEvents struct {
	events []Event
}

// Poll returns the events of the current tick. The slice is reused by the next call.
func (k *KeyboardEvents) Poll() []Event {
	k.events = k.events[:0]

	if ebiten.IsWindowBeingClosed() {
		k.events = append(k.events, EventQuit)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		k.events = append(k.events, EventQuitKey)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		k.events = append(k.events, EventRestart)
	}

	return k.events
}
