package sidemenu

// pointerRingSize — сколько последних положений указателя хранится.
const pointerRingSize = 3

// Point — положение указателя в пикселях страницы (pageX, pageY).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// pointerRing — FIFO фиксированной ёмкости: при переполнении вытесняется
// самый старый сэмпл.
type pointerRing struct {
	buf   [pointerRingSize]Point
	start int
	n     int
}

func (r *pointerRing) push(p Point) {
	if r.n < pointerRingSize {
		r.buf[(r.start+r.n)%pointerRingSize] = p
		r.n++
		return
	}
	r.buf[r.start] = p
	r.start = (r.start + 1) % pointerRingSize
}

// oldest — самый старый сэмпл.
func (r *pointerRing) oldest() (Point, bool) {
	if r.n == 0 {
		return Point{}, false
	}
	return r.buf[r.start], true
}

// latest — самый свежий сэмпл.
func (r *pointerRing) latest() (Point, bool) {
	if r.n == 0 {
		return Point{}, false
	}
	return r.buf[(r.start+r.n-1)%pointerRingSize], true
}
