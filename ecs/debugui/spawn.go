package debugui

import (
	"fmt"

	"github.com/plus3/framecore/config"
	"github.com/plus3/framecore/ecs"
)

// Tag marks the entity that hosts the debug windows.
const Tag = "debugui"

// Options sizes the debug windows.
type Options struct {
	EntitiesPerPage int
	HistoryFrames   int
}

// OptionsFromConfig reads Options from the [debug] config section.
func OptionsFromConfig(cfg config.DebugConfig) Options {
	return Options{
		EntitiesPerPage: cfg.EntitiesPerPage,
		HistoryFrames:   cfg.HistoryFrames,
	}
}

// Install registers the ImGui system and creates an entity carrying every debug
// window plus the ImguiItem that renders them. The entity is returned so callers can
// disable or destroy it.
func Install(w *ecs.World, opts Options) (*ecs.Entity, error) {
	if _, ok := ecs.Lookup[*ImguiSystem](w.Systems()); !ok {
		if err := w.RegisterSystem(NewImguiSystem()); err != nil {
			return nil, fmt.Errorf("install debug ui: %w", err)
		}
	}

	browser := NewEntityBrowserComponent(opts.EntitiesPerPage)
	inspector := NewComponentInspectorComponent()
	pools := NewPoolViewerComponent()
	perf := NewPerformanceStatsComponent(opts.HistoryFrames)
	query := NewQueryDebuggerComponent()

	e := w.CreateEntity("debugui")
	e.AddTag(Tag)
	e.AddComponent(browser)
	e.AddComponent(inspector)
	e.AddComponent(pools)
	e.AddComponent(perf)
	e.AddComponent(query)
	e.AddComponent(&ImguiItem{
		Render: func() {
			browser.Render(w)
			inspector.Render(w, browser.GetSelectedEntity())
			pools.Render(w)
			perf.Render(w)
			query.Render(w)
		},
	})
	return e, nil
}
