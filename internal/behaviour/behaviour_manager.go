package behaviour

import (
	"Aviary/internal/renderer"
)

// Behaviour drives a model a little every frame.
type Behaviour interface {
	Start(target *renderer.Model)
	Update(dt float32)
}

type BehaviourWrapper struct {
	Behaviour Behaviour
	Target    *renderer.Model
	started   bool
}

type BehaviourManager struct {
	behaviours []BehaviourWrapper
}

func NewBehaviourManager() *BehaviourManager {
	return &BehaviourManager{}
}

// Add attaches behaviour to target. Start runs on the next UpdateAll.
func (m *BehaviourManager) Add(behaviour Behaviour, target *renderer.Model) {
	m.behaviours = append(m.behaviours, BehaviourWrapper{Behaviour: behaviour, Target: target})
}

// Clear removes all behaviours from the manager
func (m *BehaviourManager) Clear() {
	m.behaviours = m.behaviours[:0]
}

func (m *BehaviourManager) Len() int {
	return len(m.behaviours)
}

func (m *BehaviourManager) UpdateAll(dt float32) {
	for i := range m.behaviours {
		if !m.behaviours[i].started {
			m.behaviours[i].Behaviour.Start(m.behaviours[i].Target)
			m.behaviours[i].started = true
		}
		m.behaviours[i].Behaviour.Update(dt)
	}
}
