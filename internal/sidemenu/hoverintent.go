// hoverintent.go — предсказание намерения пользователя по траектории указателя.
//
// Алгоритм: строится прямоугольник, охватывающий меню и открытое подменю
// (с запасом Tolerance). Если указатель движется от предыдущего сэмпла к
// подменю — наклон к верхнему углу уменьшается, а к нижнему увеличивается —
// активация новой строки откладывается на Delay и затем проверяется заново.
package sidemenu

import (
	"time"
)

// MouseMove запоминает положение указателя (глобальное событие mousemove).
func (m *Menu) MouseMove(p Point) {
	m.pointer.push(p)
}

// MouseEnterRow отменяет отложенную активацию и принимает решение
// об активации строки row.
func (m *Menu) MouseEnterRow(row int) {
	m.cancelPending()

	if !m.validRow(row) {
		return
	}
	m.possiblyActivate(row)
}

// MouseLeaveRow закрывает подменю строки, если указатель покинул область
// меню и активного подменю.
func (m *Menu) MouseLeaveRow(row int) {
	if !m.validRow(row) || m.IsMouseInMenuArea() {
		return
	}

	m.deactivateSubMenu(row)
	m.forget(row)
	m.changed()
}

// MouseLeaveMenu отменяет отложенную активацию при уходе указателя из меню.
// Активное подменю закрывается, если указатель вне области меню; activeRow
// сбрасывается всегда.
func (m *Menu) MouseLeaveMenu() {
	m.cancelPending()

	if m.activeRow != noRow && !m.IsMouseInMenuArea() {
		m.deactivateSubMenu(m.activeRow)
	}

	m.activeRow = noRow
	m.changed()
}

// Pending сообщает, есть ли отложенная проверка активации.
func (m *Menu) Pending() bool {
	return m.pending != nil
}

// possiblyActivate активирует строку сразу либо планирует повторную проверку.
func (m *Menu) possiblyActivate(row int) {
	delay := m.ActivationDelay()

	if delay > 0 {
		activationsTotal.WithLabelValues(decisionDelayed).Inc()
		m.pending = m.scheduler.Schedule(delay, func() {
			m.pending = nil
			m.possiblyActivate(row)
		})
		return
	}

	activationsTotal.WithLabelValues(decisionImmediate).Inc()
	m.Activate(row)
}

func (m *Menu) cancelPending() {
	if m.pending != nil {
		m.pending.Cancel()
		m.pending = nil
	}
}

// ActivationDelay возвращает задержку перед активацией строки под указателем.
// 0 — активировать сразу; иначе — через сколько проверить снова.
func (m *Menu) ActivationDelay() time.Duration {
	if m.activeRow == noRow {
		// Нет открытого подменю — активируем сразу.
		return 0
	}

	loc, ok := m.pointer.latest()
	if !ok {
		return 0
	}
	prevLoc, _ := m.pointer.oldest()

	rem := m.rootFontSize()
	bounds := m.viewport.MenuBounds()
	active := m.rows[m.activeRow]

	upperY := active.top()*rem + m.tolerance
	rightX := bounds.Left + bounds.Width + rem
	upperRight := Point{X: rightX, Y: upperY}
	lowerRight := Point{X: rightX, Y: upperY + active.Height*rem}

	if prevLoc.X < bounds.Left || prevLoc.X > lowerRight.X ||
		prevLoc.Y < bounds.Top || prevLoc.Y > lowerRight.Y {
		// Предыдущий сэмпл вне меню целиком.
		return 0
	}

	if m.lastDelayLoc != nil && *m.lastDelayLoc == loc {
		// Указатель не сдвинулся с прошлой проверки.
		return 0
	}

	decreasingCorner, increasingCorner := upperRight, lowerRight

	decreasingSlope := slope(loc, decreasingCorner)
	increasingSlope := slope(loc, increasingCorner)
	prevDecreasingSlope := slope(prevLoc, decreasingCorner)
	prevIncreasingSlope := slope(prevLoc, increasingCorner)

	if decreasingSlope < prevDecreasingSlope && increasingSlope > prevIncreasingSlope {
		// Движение к открытому подменю — откладываем.
		l := loc
		m.lastDelayLoc = &l
		return m.delay
	}

	m.lastDelayLoc = nil
	return 0
}

// IsMouseInMenuArea проверяет, находится ли последний сэмпл указателя
// в вертикальной полосе меню или в полосе активного подменю справа от меню
// (шириной в один rem).
func (m *Menu) IsMouseInMenuArea() bool {
	if m.activeRow == noRow {
		return false
	}

	loc, ok := m.pointer.latest()
	if !ok {
		return false
	}

	rem := m.rootFontSize()
	bounds := m.viewport.MenuBounds()
	active := m.rows[m.activeRow]

	upperLeft := Point{X: bounds.Left + bounds.Width, Y: active.top() * rem}
	upperRight := Point{X: upperLeft.X + rem, Y: upperLeft.Y}
	lowerRight := Point{X: upperRight.X, Y: upperLeft.Y + active.Height*rem}

	inSubMenu := loc.X <= upperRight.X && loc.Y <= lowerRight.Y && loc.Y >= upperRight.Y
	inMenu := loc.X <= upperLeft.X && loc.Y >= bounds.Top && loc.Y <= bounds.Top+bounds.Height

	return inSubMenu || inMenu
}

// slope — наклон прямой от a к b. Вертикальная прямая даёт ±Inf (или NaN
// для совпадающих точек), что сравнивается как false.
func slope(a, b Point) float64 {
	return (b.Y - a.Y) / (b.X - a.X)
}
