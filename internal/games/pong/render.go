package pong

import (
	"fmt"

	"github.com/vovakirdan/arcade-engine/internal/engine"
	"github.com/vovakirdan/arcade-engine/internal/render"
)

// emitFrame draws the court, paddles, ball and score once per rendered frame.
// It reads physics state only; alpha is available for interpolation but the
// ball is small and fast enough that snapping to the last step looks fine.
func (s *Scenario) emitFrame(ctx *engine.Context, alpha float64, frame *render.Frame) {
	w := float64(ctx.Cfg.Width)
	h := float64(ctx.Cfg.Height)

	// Center net, dashed.
	for y := 0.0; y < h; y += 24 {
		*frame = append(*frame, render.Rect{
			X: w/2 - 1, Y: y, W: 2, H: 12, Color: render.ColorGray,
		})
	}

	pw := s.cfg.Paddles.Width
	ph := s.cfg.Paddles.Height
	player := ctx.World.Body(s.player)
	cpu := ctx.World.Body(s.cpuBody)
	*frame = append(*frame,
		render.Rect{X: player.Pos.X - pw/2, Y: player.Pos.Y - ph/2, W: pw, H: ph, Color: render.ColorWhite},
		render.Rect{X: cpu.Pos.X - pw/2, Y: cpu.Pos.Y - ph/2, W: pw, H: ph, Color: render.ColorWhite},
	)

	// Blink the ball while waiting to serve.
	if s.phase != Serving || (s.serveDelay/10)%2 == 0 {
		ball := ctx.World.Body(s.ball)
		*frame = append(*frame, render.Circle{
			X: ball.Pos.X, Y: ball.Pos.Y, R: s.cfg.Physics.BallRadius, Color: render.ColorWhite,
		})
	}

	*frame = append(*frame,
		render.Text{X: w/2 - 60, Y: 32, S: fmt.Sprintf("%d", s.score1), Size: 24, Color: render.ColorWhite},
		render.Text{X: w/2 + 48, Y: 32, S: fmt.Sprintf("%d", s.score2), Size: 24, Color: render.ColorWhite},
	)

	if s.phase == Over {
		msg := "CPU WINS"
		if s.winner == 1 {
			msg = "YOU WIN"
		}
		*frame = append(*frame, render.Text{
			X: w/2 - 48, Y: h / 2, S: msg, Size: 24, Color: render.ColorYellow,
		})
	}
}
