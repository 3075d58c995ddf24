package debugui

import (
	"github.com/plus3/framecore/ecs"
)

type EntityBrowserComponent struct {
	ecs.ComponentBase
	cache              *EntityBrowserCache
	selectedEntityId   ecs.EntityID
	filterText         string
	filterTag          string
	maxEntitiesPerPage int
	currentPage        int
}

type ComponentInspectorComponent struct {
	ecs.ComponentBase
	selectedEntityId ecs.EntityID
}

type PoolViewerComponent struct {
	ecs.ComponentBase
	cache         *PoolViewerCache
	selectedPool  string
	sortColumn    int
	sortAscending bool
}

type PerformanceStatsComponent struct {
	ecs.ComponentBase
	historyFrames int
	frameHistory  []float32
	frameIndex    int
}

type QueryDebuggerComponent struct {
	ecs.ComponentBase
	selectedComponentTypes map[string]bool
	cache                  *QueryDebuggerCache
}
