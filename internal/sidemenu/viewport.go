package sidemenu

import "sync"

// Rect — прямоугольник в пикселях страницы (offsetLeft/offsetTop/offsetWidth/offsetHeight).
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Viewport — источник геометрии DOM для расчётов меню. Только чтение.
type Viewport interface {
	// RootFontSize — размер шрифта корневого элемента (px на rem).
	RootFontSize() float64
	// MenuBounds — положение и размер элемента меню.
	MenuBounds() Rect
	// ListScrollTop — прокрутка списка строк в пикселях.
	ListScrollTop() float64
}

// ViewportMetrics — метрики, присланные клиентом.
type ViewportMetrics struct {
	RootFontSize  float64 `json:"rootFontSize"`
	MenuBounds    Rect    `json:"menuBounds"`
	ListScrollTop float64 `json:"listScrollTop"`
}

// ReportedViewport — Viewport, значения которого обновляет клиент
// (браузер присылает метрики при resize/scroll).
type ReportedViewport struct {
	mu      sync.RWMutex
	metrics ViewportMetrics
}

// NewReportedViewport создаёт Viewport с начальными метриками.
func NewReportedViewport(initial ViewportMetrics) *ReportedViewport {
	return &ReportedViewport{metrics: initial}
}

// Update заменяет метрики.
func (v *ReportedViewport) Update(m ViewportMetrics) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.metrics = m
}

func (v *ReportedViewport) RootFontSize() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.metrics.RootFontSize
}

func (v *ReportedViewport) MenuBounds() Rect {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.metrics.MenuBounds
}

func (v *ReportedViewport) ListScrollTop() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.metrics.ListScrollTop
}
