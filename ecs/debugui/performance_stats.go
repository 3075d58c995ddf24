package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/framecore/ecs"
)

func NewPerformanceStatsComponent(historyFrames int) *PerformanceStatsComponent {
	if historyFrames <= 0 {
		historyFrames = 120
	}
	return &PerformanceStatsComponent{
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
		frameIndex:    0,
	}
}

// record stores a frame time in milliseconds and returns the running average.
func (ps *PerformanceStatsComponent) record(deltaTime float64) float32 {
	ps.frameHistory[ps.frameIndex] = float32(deltaTime * 1000.0)
	ps.frameIndex = (ps.frameIndex + 1) % ps.historyFrames

	var avgFrameTime float32
	for _, ft := range ps.frameHistory {
		avgFrameTime += ft
	}
	return avgFrameTime / float32(ps.historyFrames)
}

func (ps *PerformanceStatsComponent) Render(w *ecs.World) {
	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	frame := w.Frame()
	avgFrameTime := ps.record(frame.DeltaTime)
	stats := w.Entities().CollectStats()

	imgui.Text(fmt.Sprintf("Frame: %d (%.1fs elapsed)", frame.Frame, frame.Elapsed))
	imgui.Text(fmt.Sprintf("Entities: %d live, %d pending, %d disabled", stats.Live, stats.Pending, stats.Disabled))
	imgui.Text(fmt.Sprintf("Queued Commands: %d", stats.QueuedCommands))
	imgui.Text(fmt.Sprintf("Resources: %d", len(w.ResourceTypes())))

	if avgFrameTime > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avgFrameTime, 1000.0/avgFrameTime))
	}

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &ps.frameHistory[0], int32(len(ps.frameHistory)))

	if imgui.TreeNodeStr("Systems") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemStatsTable", 6, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Priority")
			imgui.TableSetupColumn("Runs")
			imgui.TableSetupColumn("Faults")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()

			for _, s := range w.Systems().GetStats().Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				if s.Enabled {
					imgui.Text(s.Name)
				} else {
					imgui.Text(s.Name + " (off)")
				}
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", s.Priority))
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", s.ExecutionCount))
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", s.FaultCount))
				imgui.TableNextColumn()
				imgui.Text(s.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(s.MaxDuration.String())
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Message Topics") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("TopicStatsTable", 5, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Topic")
			imgui.TableSetupColumn("Subscribers")
			imgui.TableSetupColumn("Published")
			imgui.TableSetupColumn("Delivered")
			imgui.TableSetupColumn("Faults")
			imgui.TableHeadersRow()

			for _, t := range w.Bus().Stats() {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(string(t.Topic))
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", t.Subscribers))
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", t.Published))
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", t.Delivered))
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", t.Faults))
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Resource Details") {
		for _, t := range w.ResourceTypes() {
			imgui.BulletText(t.String())
		}
		imgui.TreePop()
	}

	imgui.End()
}
