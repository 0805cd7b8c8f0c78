package behaviour

import (
	"Aviary/internal/renderer"
	"math"
)

func init() {
	Register("bob", func() Behaviour { return NewBob(0.25, 0.5) })
	Register("spin", func() Behaviour { return NewSpin(45) })
}

// Bob moves the target up and down around the height it started at.
type Bob struct {
	Amplitude float32 // world units
	Frequency float32 // cycles per second

	target  *renderer.Model
	baseY   float32
	elapsed float32
}

func NewBob(amplitude, frequency float32) *Bob {
	return &Bob{Amplitude: amplitude, Frequency: frequency}
}

func (b *Bob) Start(target *renderer.Model) {
	b.target = target
	b.baseY = target.Y()
	b.elapsed = 0
}

func (b *Bob) Update(dt float32) {
	if b.target == nil {
		return
	}
	b.elapsed += dt
	offset := b.Amplitude * float32(math.Sin(2*math.Pi*float64(b.Frequency*b.elapsed)))
	b.target.SetPosition(b.target.X(), b.baseY+offset, b.target.Z())
}

// Spin turns the target around the world up axis at a constant rate.
type Spin struct {
	DegreesPerSecond float32

	target *renderer.Model
}

func NewSpin(degreesPerSecond float32) *Spin {
	return &Spin{DegreesPerSecond: degreesPerSecond}
}

func (s *Spin) Start(target *renderer.Model) {
	s.target = target
}

func (s *Spin) Update(dt float32) {
	if s.target == nil {
		return
	}
	s.target.SetHeading(s.target.Heading + s.DegreesPerSecond*dt)
}
