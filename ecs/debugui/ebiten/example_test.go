package ebiten_test

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/framecore/ecs"
	"github.com/plus3/framecore/ecs/debugui"
	debugui_ebiten "github.com/plus3/framecore/ecs/debugui/ebiten"
)

func Example() {
	// Create Ebiten window and ImGui backend
	imguiBackend := ebitenbackend.NewEbitenBackend()
	imguiBackend.CreateWindow("framecore ImGui Example", 1280, 720)
	imgui.CurrentIO().SetIniFilename("") // Disable imgui.ini

	w := ecs.NewWorld()

	// Debug windows plus a custom one
	if _, err := debugui.Install(w, debugui.Options{EntitiesPerPage: 100, HistoryFrames: 120}); err != nil {
		panic(err)
	}
	w.CreateEntity("hello").AddComponent(&debugui.ImguiItem{
		Render: func() {
			imgui.Begin("Debug Window")
			imgui.Text("Hello from framecore!")
			imgui.End()
		},
	})

	game := debugui_ebiten.NewGame(w, imguiBackend)
	if err := ebiten.RunGame(game); err != nil {
		panic(err)
	}
	w.Close()
}
