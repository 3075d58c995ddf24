// Package debugui provides immediate-mode GUI integration for framecore worlds using Dear ImGui.
// It manages ImGui rendering and input state through components, a system and a world resource.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/framecore/ecs"
)

// ImguiPriority runs the ImGui system after gameplay systems.
const ImguiPriority = 1000

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each frame.
type ImguiItem struct {
	ecs.ComponentBase
	Render func()
}

// ImguiInputState tracks Dear ImGui's input capture state as a world resource.
// Use this to determine if ImGui is consuming mouse or keyboard input.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem defers the render function of every enabled ImguiItem to the end of the
// frame and refreshes the ImguiInputState resource.
type ImguiSystem struct {
	ecs.BaseSystem
	input *ecs.Singleton[ImguiInputState]

	// readInput is swapped out in tests, where no ImGui context exists.
	readInput func() ImguiInputState
}

func NewImguiSystem() *ImguiSystem {
	return &ImguiSystem{
		BaseSystem: ecs.NewBaseSystem(ImguiPriority, ecs.TypeOf[*ImguiItem]()),
		readInput:  currentInput,
	}
}

func (s *ImguiSystem) Name() string { return "debugui.imgui" }

func (s *ImguiSystem) Initialize(w *ecs.World) error {
	s.input = ecs.NewSingleton[ImguiInputState](w)
	return nil
}

// Update updates input state and queues all ImGui render functions for execution.
func (s *ImguiSystem) Update(float64) {
	if state := s.input.Get(); state != nil {
		*state = s.readInput()
	}

	for e := range s.Entities() {
		item, _ := ecs.Get[*ImguiItem](e)
		if item.Enabled() && item.Render != nil {
			s.World().Defer(item.Render)
		}
	}
}

func currentInput() ImguiInputState {
	io := imgui.CurrentIO()
	return ImguiInputState{
		WantCaptureMouse:    io.WantCaptureMouse(),
		WantCaptureKeyboard: io.WantCaptureKeyboard(),
	}
}
