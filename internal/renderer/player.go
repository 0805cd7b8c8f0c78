package renderer

import (
	"Aviary/internal/logger"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"
)

// Player is the model steered from the keyboard.
type Player struct {
	*Model
	Speed     float32 // world units per key event
	TurnSpeed float32 // degrees per key event
}

func NewPlayer(model *Model, speed, turnSpeed float32) *Player {
	return &Player{Model: model, Speed: speed, TurnSpeed: turnSpeed}
}

// ProcessKeyboard moves the player for one key event and reports whether
// the key was a movement key.
//
//	W/S  forward/backward along the heading
//	A/D  turn left/right
//	Q/E  ascend/descend
func (p *Player) ProcessKeyboard(key glfw.Key) bool {
	switch key {
	case glfw.KeyW:
		p.Translate(p.Direction().Mul(p.Speed))
	case glfw.KeyS:
		p.Translate(p.Direction().Mul(-p.Speed))
	case glfw.KeyA:
		p.SetHeading(p.Heading + p.TurnSpeed)
	case glfw.KeyD:
		p.SetHeading(p.Heading - p.TurnSpeed)
	case glfw.KeyQ:
		p.Translate(WorldUp.Mul(p.Speed))
		p.logDepth()
	case glfw.KeyE:
		p.Translate(WorldUp.Mul(-p.Speed))
		p.logDepth()
	default:
		return false
	}
	return true
}

func (p *Player) logDepth() {
	logger.Log.Debug("Current ocean depth", zap.Float32("depth", p.Y()))
}
