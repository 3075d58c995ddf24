// Package ebiten provides Dear ImGui backend integration for the Ebiten game engine.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/framecore/ecs"
)

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend implementation.
// Use this to integrate Dear ImGui rendering into Ebiten game loops.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// Game implements ebiten.Game by driving a World once per tick between the ImGui
// frame boundaries. DrawWorld, if set, draws game content beneath the ImGui overlay.
type Game struct {
	World     *ecs.World
	Backend   *ImguiBackend
	DrawWorld func(screen *ebiten.Image)
}

// NewGame stores the backend as a world resource and returns the driver.
func NewGame(w *ecs.World, backend *ebitenbackend.EbitenBackend) *Game {
	b := &ImguiBackend{EbitenBackend: backend}
	ecs.SetResource(w, b)
	return &Game{World: w, Backend: b}
}

func (g *Game) Update() error {
	g.Backend.BeginFrame()
	g.World.Update(1.0 / float64(ebiten.TPS()))
	g.Backend.EndFrame()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.DrawWorld != nil {
		g.DrawWorld(screen)
	}
	g.Backend.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.Backend.Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}
