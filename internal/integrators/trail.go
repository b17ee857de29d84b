package integrators

// TrailCapacity is the number of recent positions kept per particle.
const TrailCapacity = 50

// Point is a recorded trail position.
type Point struct {
	X, Y float64
}

// Trail is a fixed-capacity FIFO of positions. Once full, each push evicts
// the oldest point. Only rendering reads it.
type Trail struct {
	buf  [TrailCapacity]Point
	head int // index of the oldest point
	n    int
}

func (t *Trail) Push(x, y float64) {
	if t.n < TrailCapacity {
		t.buf[(t.head+t.n)%TrailCapacity] = Point{x, y}
		t.n++
		return
	}
	t.buf[t.head] = Point{x, y}
	t.head = (t.head + 1) % TrailCapacity
}

func (t *Trail) Len() int { return t.n }

// Points returns the trail oldest first.
func (t *Trail) Points() []Point {
	out := make([]Point, t.n)
	for i := 0; i < t.n; i++ {
		out[i] = t.buf[(t.head+i)%TrailCapacity]
	}
	return out
}

// Last returns the newest point.
func (t *Trail) Last() (Point, bool) {
	if t.n == 0 {
		return Point{}, false
	}
	return t.buf[(t.head+t.n-1)%TrailCapacity], true
}

func (t *Trail) Reset() {
	t.head, t.n = 0, 0
}
