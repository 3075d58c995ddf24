package debugui

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/framecore/ecs"
)

type EntityInfo struct {
	ID             ecs.EntityID
	Label          string
	Tags           []string
	ComponentTypes []string
	Enabled        bool
	Pending        bool
}

type EntityBrowserCache struct {
	entities      []EntityInfo
	lastFrame     uint64
	built         bool
	sortColumn    int
	sortAscending bool
}

func NewEntityBrowserComponent(maxEntitiesPerPage int) *EntityBrowserComponent {
	if maxEntitiesPerPage <= 0 {
		maxEntitiesPerPage = 100
	}
	return &EntityBrowserComponent{
		cache: &EntityBrowserCache{
			sortColumn:    0,
			sortAscending: true,
		},
		maxEntitiesPerPage: maxEntitiesPerPage,
	}
}

func (eb *EntityBrowserComponent) Render(w *ecs.World) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.rebuildCacheIfNeeded(w)

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
		eb.filterTag = ""
		eb.currentPage = 0
	}
	if eb.filterTag != "" {
		imgui.Text(fmt.Sprintf("Tag: %s", eb.filterTag))
	}

	filteredEntities := filterEntities(eb.cache.entities, eb.filterText, eb.filterTag)

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity ID")
		imgui.TableSetupColumn("Label")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Tags")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.cache.sortColumn = int(spec.ColumnIndex())
			eb.cache.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			sortEntities(eb.cache.entities, eb.cache.sortColumn, eb.cache.sortAscending)
			sortSpecs.SetSpecsDirty(false)
		}

		startIdx := min(eb.currentPage*eb.maxEntitiesPerPage, len(filteredEntities))
		endIdx := min(startIdx+eb.maxEntitiesPerPage, len(filteredEntities))

		for i := startIdx; i < endIdx; i++ {
			entity := filteredEntities[i]
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := eb.selectedEntityId == entity.ID
			if imgui.SelectableBoolV(entityLabel(entity), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selectedEntityId = entity.ID
			}

			imgui.TableNextColumn()
			imgui.Text(entity.Label)

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.ComponentTypes, ", "))

			imgui.TableNextColumn()
			for j, tag := range entity.Tags {
				if j > 0 {
					imgui.SameLine()
				}
				if imgui.Button(fmt.Sprintf("%s##%d", tag, entity.ID)) {
					eb.filterTag = tag
					eb.currentPage = 0
				}
			}
		}

		imgui.EndTable()
	}

	if len(filteredEntities) > eb.maxEntitiesPerPage {
		totalPages := (len(filteredEntities) + eb.maxEntitiesPerPage - 1) / eb.maxEntitiesPerPage
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(filteredEntities)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filteredEntities)))
	}

	imgui.End()
}

// rebuildCacheIfNeeded rebuilds at most once per frame.
func (eb *EntityBrowserComponent) rebuildCacheIfNeeded(w *ecs.World) {
	frame := w.Frame().Frame
	if eb.cache.built && eb.cache.lastFrame == frame {
		return
	}
	eb.cache.entities = collectEntities(w, eb.cache.entities[:0])
	eb.cache.lastFrame = frame
	eb.cache.built = true
	sortEntities(eb.cache.entities, eb.cache.sortColumn, eb.cache.sortAscending)
}

func collectEntities(w *ecs.World, out []EntityInfo) []EntityInfo {
	for _, e := range w.Entities().Entities() {
		types := e.ComponentTypes()
		names := make([]string, len(types))
		for i, t := range types {
			names[i] = t.String()
		}
		out = append(out, EntityInfo{
			ID:             e.ID(),
			Label:          e.Label(),
			Tags:           e.Tags(),
			ComponentTypes: names,
			Enabled:        e.Enabled(),
			Pending:        e.PendingDestroy(),
		})
	}
	return out
}

func sortEntities(entities []EntityInfo, column int, ascending bool) {
	sort.SliceStable(entities, func(i, j int) bool {
		a, b := entities[i], entities[j]
		var less bool

		switch column {
		case 1:
			less = a.Label < b.Label
		case 2:
			less = strings.Join(a.ComponentTypes, ",") < strings.Join(b.ComponentTypes, ",")
		case 3:
			less = strings.Join(a.Tags, ",") < strings.Join(b.Tags, ",")
		default:
			less = a.ID < b.ID
		}

		if !ascending {
			return !less
		}
		return less
	})
}

// filterEntities matches text against the id, label and component names, and tag
// exactly against the tag set.
func filterEntities(entities []EntityInfo, text, tag string) []EntityInfo {
	if text == "" && tag == "" {
		return entities
	}

	filtered := make([]EntityInfo, 0, len(entities))
	filterLower := strings.ToLower(text)

	for _, entity := range entities {
		if tag != "" && !slices.Contains(entity.Tags, tag) {
			continue
		}

		if text != "" {
			idStr := fmt.Sprintf("%d", entity.ID)
			labelStr := strings.ToLower(entity.Label)
			componentsStr := strings.ToLower(strings.Join(entity.ComponentTypes, " "))

			if !strings.Contains(idStr, filterLower) &&
				!strings.Contains(labelStr, filterLower) &&
				!strings.Contains(componentsStr, filterLower) {
				continue
			}
		}

		filtered = append(filtered, entity)
	}

	return filtered
}

func entityLabel(e EntityInfo) string {
	switch {
	case e.Pending:
		return fmt.Sprintf("%d (pending)", e.ID)
	case !e.Enabled:
		return fmt.Sprintf("%d (disabled)", e.ID)
	}
	return fmt.Sprintf("%d", e.ID)
}

func (eb *EntityBrowserComponent) GetSelectedEntity() ecs.EntityID {
	return eb.selectedEntityId
}
