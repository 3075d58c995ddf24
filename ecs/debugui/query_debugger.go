package debugui

import (
	"fmt"
	"sort"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/framecore/ecs"
)

type QueryDebuggerCache struct {
	componentTypes []ecs.ComponentType
	lastFrame      uint64
	built          bool
}

func NewQueryDebuggerComponent() *QueryDebuggerComponent {
	return &QueryDebuggerComponent{
		selectedComponentTypes: make(map[string]bool),
		cache:                  &QueryDebuggerCache{},
	}
}

func (qd *QueryDebuggerComponent) Render(w *ecs.World) {
	if !imgui.BeginV("Query Debugger", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	qd.rebuildCacheIfNeeded(w)

	imgui.Text("Select Component Types:")
	imgui.Separator()

	if imgui.Button("Clear All") {
		qd.selectedComponentTypes = make(map[string]bool)
	}

	for _, compType := range qd.cache.componentTypes {
		name := compType.String()
		selected := qd.selectedComponentTypes[name]
		if imgui.Checkbox(name, &selected) {
			if selected {
				qd.selectedComponentTypes[name] = true
			} else {
				delete(qd.selectedComponentTypes, name)
			}
		}
	}

	imgui.Separator()

	selectedTypes := qd.selectedTypes()
	if len(selectedTypes) == 0 {
		imgui.Text("No component types selected")
		imgui.End()
		return
	}

	matching := w.GetEntitiesByComponents(selectedTypes...)
	imgui.Text(fmt.Sprintf("Matching Entities: %d", len(matching)))

	if imgui.TreeNodeStr("Systems Using These Components") {
		for _, name := range systemsRequiring(w, selectedTypes) {
			imgui.BulletText(name)
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Entity Details") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("QueryEntityTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Entity ID")
			imgui.TableSetupColumn("Label")
			imgui.TableSetupColumn("All Components")
			imgui.TableHeadersRow()

			for _, e := range matching {
				imgui.TableNextRow()

				imgui.TableSetColumnIndex(0)
				imgui.Text(fmt.Sprintf("%d", e.ID()))

				imgui.TableSetColumnIndex(1)
				imgui.Text(e.Label())

				imgui.TableSetColumnIndex(2)
				imgui.Text(fmt.Sprintf("%v", e.ComponentTypes()))
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.End()
}

func (qd *QueryDebuggerComponent) rebuildCacheIfNeeded(w *ecs.World) {
	frame := w.Frame().Frame
	if qd.cache.built && qd.cache.lastFrame == frame {
		return
	}
	qd.cache.componentTypes = w.Entities().ComponentTypes()
	qd.cache.lastFrame = frame
	qd.cache.built = true
}

// selectedTypes resolves the checked names against the known component types. Names
// whose type is no longer attached anywhere are dropped.
func (qd *QueryDebuggerComponent) selectedTypes() []ecs.ComponentType {
	selected := make([]ecs.ComponentType, 0, len(qd.selectedComponentTypes))
	for _, t := range qd.cache.componentTypes {
		if qd.selectedComponentTypes[t.String()] {
			selected = append(selected, t)
		}
	}
	return selected
}

// systemsRequiring returns the names of systems whose required component set
// includes every type in types.
func systemsRequiring(w *ecs.World, types []ecs.ComponentType) []string {
	var names []string
	order := w.Systems().ExecutionOrder()
	for i, s := range w.Systems().Systems() {
		requirer, ok := s.(ecs.ComponentRequirer)
		if !ok {
			continue
		}
		required := make(map[ecs.ComponentType]bool)
		for _, t := range requirer.RequiredComponents() {
			required[t] = true
		}
		matches := true
		for _, t := range types {
			if !required[t] {
				matches = false
				break
			}
		}
		if matches {
			names = append(names, order[i])
		}
	}
	sort.Strings(names)
	return names
}
