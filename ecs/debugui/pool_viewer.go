package debugui

import (
	"fmt"
	"sort"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/framecore/ecs"
)

type PoolViewerCache struct {
	pools         []ecs.PoolStats
	sortColumn    int
	sortAscending bool
}

func NewPoolViewerComponent() *PoolViewerComponent {
	return &PoolViewerComponent{
		cache: &PoolViewerCache{
			sortColumn:    0,
			sortAscending: true,
		},
		sortColumn:    0,
		sortAscending: true,
	}
}

// Render draws the pool table and returns the name of a pool clicked this frame.
func (pv *PoolViewerComponent) Render(w *ecs.World) string {
	if !imgui.BeginV("Pool Viewer", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return ""
	}

	pv.cache.pools = w.Pools().AllStats()
	sortPools(pv.cache.pools, pv.cache.sortColumn, pv.cache.sortAscending)

	var clicked string

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("PoolTable", 6, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Pool")
		imgui.TableSetupColumn("Available")
		imgui.TableSetupColumn("Hits")
		imgui.TableSetupColumn("Misses")
		imgui.TableSetupColumn("Dropped")
		imgui.TableSetupColumn("Hit Rate")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			pv.cache.sortColumn = int(spec.ColumnIndex())
			pv.cache.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			pv.sortColumn = pv.cache.sortColumn
			pv.sortAscending = pv.cache.sortAscending
			sortPools(pv.cache.pools, pv.cache.sortColumn, pv.cache.sortAscending)
			sortSpecs.SetSpecsDirty(false)
		}

		for _, pool := range pv.cache.pools {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			if imgui.SelectableBoolV(pool.Name, pv.selectedPool == pool.Name, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				pv.selectedPool = pool.Name
				clicked = pool.Name
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d / %d", pool.Available, pool.MaxSize))
			if pool.MaxSize > 0 {
				barWidth := float32(pool.Available) / float32(pool.MaxSize) * 80.0
				imgui.SameLine()
				drawList := imgui.WindowDrawList()
				pos := imgui.CursorScreenPos()
				color := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
				drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+barWidth, pos.Y+10), color)
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", pool.Hits))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", pool.Misses))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", pool.Dropped))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%.0f%%", hitRate(pool)*100))
		}

		imgui.EndTable()
	}

	if pv.selectedPool != "" && imgui.Button(fmt.Sprintf("Clear free lists (%d pools)", len(pv.cache.pools))) {
		w.Pools().ClearAll()
	}

	imgui.End()
	return clicked
}

func hitRate(s ecs.PoolStats) float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

func sortPools(pools []ecs.PoolStats, column int, ascending bool) {
	sort.SliceStable(pools, func(i, j int) bool {
		a, b := pools[i], pools[j]
		var less bool

		switch column {
		case 1:
			less = a.Available < b.Available
		case 2:
			less = a.Hits < b.Hits
		case 3:
			less = a.Misses < b.Misses
		case 4:
			less = a.Dropped < b.Dropped
		case 5:
			less = hitRate(a) < hitRate(b)
		default:
			less = a.Name < b.Name
		}

		if !ascending {
			return !less
		}
		return less
	})
}
