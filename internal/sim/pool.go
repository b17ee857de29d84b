package sim

import (
	"sync"

	"github.com/san-kum/fieldlab/internal/physics"
)

// GridPool recycles sample grids of one size.
type GridPool struct {
	pool       sync.Pool
	cols, rows int
}

func NewGridPool(cols, rows int) *GridPool {
	return &GridPool{
		cols: cols,
		rows: rows,
		pool: sync.Pool{
			New: func() interface{} {
				return physics.NewGrid(cols, rows)
			},
		},
	}
}

func (p *GridPool) Get() *physics.Grid {
	return p.pool.Get().(*physics.Grid)
}

// Put returns g to the pool. Grids of another size are dropped.
func (p *GridPool) Put(g *physics.Grid) {
	if g == nil || g.Cols != p.cols || g.Rows != p.rows {
		return
	}
	g.Peak = 0
	p.pool.Put(g)
}

func (p *GridPool) Size() (int, int) { return p.cols, p.rows }
