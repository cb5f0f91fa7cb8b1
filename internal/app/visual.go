package app

import (
	"github.com/dshills/vicore/internal/engine/buffer"
	"github.com/dshills/vicore/internal/engine/cursor"
)

// SetVisual computes the bounds of a visual selection in the current buffer
// and sets the '< and '> marks to its first and last line, so a following
// :'<,'> command works on it.
func (a *App) SetVisual(sel cursor.Selection, mode cursor.Mode) (cursor.Bounds, error) {
	b := a.Current()
	bd, err := cursor.Compute(b, sel, mode, cursor.Options{Inclusive: a.cfg.Inclusive()})
	if err != nil {
		return cursor.Bounds{}, err
	}
	if err := b.Marks().Set(buffer.MarkVisualStart, b.PositionAt(bd.Start)); err != nil {
		return bd, err
	}
	end := bd.End
	if end > bd.Start {
		end--
	}
	if err := b.Marks().Set(buffer.MarkVisualEnd, b.PositionAt(end)); err != nil {
		return bd, err
	}
	return bd, nil
}
