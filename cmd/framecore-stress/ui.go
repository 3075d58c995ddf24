package main

import (
	"context"

	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/framecore/config"
	"github.com/plus3/framecore/ecs"
	"github.com/plus3/framecore/ecs/debugui"
	debugui_ebiten "github.com/plus3/framecore/ecs/debugui/ebiten"
)

// timedGame runs the simulation inside an Ebiten window with the debug windows open,
// recording frame times until ctx is done.
type timedGame struct {
	*debugui_ebiten.Game
	ctx    context.Context
	report *Report
}

func (g *timedGame) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	var err error
	g.report.timeUpdate(func() { err = g.Game.Update() })
	return err
}

func runWithDebugUI(ctx context.Context, w *ecs.World, cfg *config.Config, report *Report) error {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow("framecore stress", 1280, 720)
	imgui.CurrentIO().SetIniFilename("")

	if _, err := debugui.Install(w, debugui.OptionsFromConfig(cfg.Debug)); err != nil {
		return err
	}

	ebiten.SetTPS(cfg.Runtime.TicksPerSecond())
	game := &timedGame{Game: debugui_ebiten.NewGame(w, backend), ctx: ctx, report: report}
	// RunGame returns nil once Update reports ebiten.Termination.
	return ebiten.RunGame(game)
}
