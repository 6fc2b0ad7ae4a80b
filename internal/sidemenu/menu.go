// Пакет sidemenu — боковое меню Admin Console с hover-intent активацией.
//
// Меню — фиксированный список строк (RowState), у каждой строки может быть
// выпадающее подменю. Одновременно раскрыто не более одной строки (activeRow).
// При наведении указателя решение об активации принимается по траектории
// последних сэмплов указателя: если пользователь движется к уже открытому
// подменю, активация новой строки откладывается на Delay.
//
// Menu не потокобезопасен: все методы вызываются из одной горутины
// (см. EventLoop), как обработчики событий в UI event loop.
package sidemenu

import (
	"time"
)

const (
	// Tolerance — запас в пикселях, расширяющий область подменю.
	// Больше значение — меньше ложных закрытий при входе в подменю.
	Tolerance = 75.0
	// Delay — задержка перед повторной проверкой, когда пользователь,
	// по-видимому, движется к подменю.
	Delay = 600 * time.Millisecond
	// DefaultRootFontSize — размер шрифта корневого элемента (px на rem),
	// если Viewport вернул некорректное значение.
	DefaultRootFontSize = 16.0

	// noRow — нет активной строки.
	noRow = -1
)

// Visibility — видимость подменю строки (значение CSS display).
type Visibility string

const (
	VisibilityBlock Visibility = "block"
	VisibilityNone  Visibility = "none"
)

// RowState — состояние одной строки меню. Геометрия (Top, Height, ArrowTop)
// в rem относительно контейнера меню.
type RowState struct {
	// Top — смещение подменю сверху; nil — подменю прижато к низу меню.
	Top *float64 `json:"top"`
	// Height — текущая высота подменю.
	Height float64 `json:"height"`
	// OriginalHeight — естественная высота подменю.
	OriginalHeight float64 `json:"originalHeight"`
	// ArrowTop — смещение стрелки-указателя подменю.
	ArrowTop float64 `json:"arrowTop"`
	// Visible — CSS display подменю.
	Visible Visibility `json:"visible"`
	// Active — строка соответствует текущему разделу приложения.
	Active bool `json:"active"`
	// IsSubMenuShow — подменю раскрыто.
	IsSubMenuShow bool `json:"isSubMenuShow"`
}

// top возвращает Top для расчётов; nil трактуется как 0.
func (r RowState) top() float64 {
	if r.Top == nil {
		return 0
	}
	return *r.Top
}

// RowSpec — статическое описание строки при создании меню.
type RowSpec struct {
	// Height — естественная высота подменю в rem (см. RowHeight).
	Height float64
	// Active — строка текущего раздела.
	Active bool
}

// RowHeight возвращает естественную высоту подменю в rem для заданного
// количества пунктов: отступ 4, по 3 на пункт, 1 на рамку.
// Строка без подменю имеет высоту 0.
func RowHeight(items int) float64 {
	if items <= 0 {
		return 0
	}
	return float64(4 + 3*items + 1)
}

// Snapshot — копия состояния меню для отправки клиенту и восстановления.
type Snapshot struct {
	Rows      []RowState `json:"rows"`
	ActiveRow int        `json:"activeRow"`
	Collapsed bool       `json:"collapsed"`
}

// Option — функциональная опция Menu.
type Option func(*Menu)

// WithTolerance задаёт запас области подменю в пикселях.
func WithTolerance(px float64) Option {
	return func(m *Menu) { m.tolerance = px }
}

// WithDelay задаёт задержку повторной проверки активации.
func WithDelay(d time.Duration) Option {
	return func(m *Menu) { m.delay = d }
}

// WithChangeHook задаёт функцию, вызываемую после каждого изменения
// состояния строк (включая отложенные активации).
func WithChangeHook(fn func(Snapshot)) Option {
	return func(m *Menu) { m.onChange = fn }
}

// Menu — состояние бокового меню.
type Menu struct {
	rows      []RowState
	collapsed bool
	activeRow int
	// opened — строка, подменю которой раскрыто через Activate. Может
	// отличаться от activeRow после MouseLeaveMenu с указателем над подменю.
	opened int

	pointer      pointerRing
	lastDelayLoc *Point
	pending      TaskHandle

	viewport  Viewport
	scheduler Scheduler

	tolerance float64
	delay     time.Duration
	onChange  func(Snapshot)
}

// New создаёт меню со статическим списком строк.
// viewport — источник геометрии DOM, scheduler — отложенные проверки.
func New(specs []RowSpec, viewport Viewport, scheduler Scheduler, opts ...Option) *Menu {
	rows := make([]RowState, len(specs))
	for i, s := range specs {
		rows[i] = RowState{
			Height:         s.Height,
			OriginalHeight: s.Height,
			Visible:        VisibilityNone,
			Active:         s.Active,
		}
	}

	m := &Menu{
		rows:      rows,
		activeRow: noRow,
		opened:    noRow,
		viewport:  viewport,
		scheduler: scheduler,
		tolerance: Tolerance,
		delay:     Delay,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Len возвращает количество строк.
func (m *Menu) Len() int {
	return len(m.rows)
}

// Row возвращает копию состояния строки.
func (m *Menu) Row(row int) (RowState, bool) {
	if !m.validRow(row) {
		return RowState{}, false
	}
	return m.rows[row], true
}

// ActiveRow возвращает индекс раскрытой строки или false, если её нет.
func (m *Menu) ActiveRow() (int, bool) {
	if m.activeRow == noRow {
		return 0, false
	}
	return m.activeRow, true
}

// Collapsed сообщает, находится ли меню в компактном (только иконки) режиме.
func (m *Menu) Collapsed() bool {
	return m.collapsed
}

// Collapse переключает компактный режим и возвращает новое значение.
func (m *Menu) Collapse() bool {
	m.collapsed = !m.collapsed
	m.changed()
	return m.collapsed
}

// Activate раскрывает строку row, закрывая ранее активную.
// Повторная активация уже активной строки ничего не делает.
func (m *Menu) Activate(row int) {
	if !m.validRow(row) || row == m.activeRow {
		return
	}

	if m.activeRow != noRow {
		m.deactivateSubMenu(m.activeRow)
	}
	if m.opened != noRow && m.opened != row {
		m.deactivateSubMenu(m.opened)
	}

	m.activateSubMenu(row)
	m.activeRow = row
	m.opened = row
	m.changed()
}

// DeactivateSubMenu закрывает подменю строки. activeRow не сбрасывается.
func (m *Menu) DeactivateSubMenu(row int) {
	if !m.validRow(row) {
		return
	}
	m.deactivateSubMenu(row)
	m.changed()
}

// ClickRow обрабатывает клик по строке. В компактном режиме строка
// активируется сразу; в развёрнутом — подменю переключается напрямую,
// без задержки и пересчёта геометрии.
func (m *Menu) ClickRow(row int) {
	if !m.validRow(row) {
		return
	}

	if m.collapsed {
		m.Activate(row)
		return
	}

	m.rows[row].IsSubMenuShow = !m.rows[row].IsSubMenuShow
	if !m.rows[row].IsSubMenuShow {
		m.forget(row)
	}
	m.changed()
}

// ClickSubItem скрывает подменю активной строки после выбора пункта.
func (m *Menu) ClickSubItem() {
	if m.activeRow == noRow {
		return
	}
	m.rows[m.activeRow].Visible = VisibilityNone
	m.changed()
}

// Snapshot возвращает копию текущего состояния.
func (m *Menu) Snapshot() Snapshot {
	rows := make([]RowState, len(m.rows))
	for i, r := range m.rows {
		if r.Top != nil {
			top := *r.Top
			r.Top = &top
		}
		rows[i] = r
	}
	return Snapshot{
		Rows:      rows,
		ActiveRow: m.activeRow,
		Collapsed: m.collapsed,
	}
}

// Restore восстанавливает состояние строк из снимка (переподключение клиента).
// Снимок с другим количеством строк игнорируется. activeRow восстанавливается,
// только если его подменю раскрыто в снимке.
func (m *Menu) Restore(s Snapshot) bool {
	if len(s.Rows) != len(m.rows) {
		return false
	}

	for i, r := range s.Rows {
		if r.Top != nil {
			top := *r.Top
			r.Top = &top
		}
		m.rows[i] = r
	}
	m.collapsed = s.Collapsed
	m.activeRow = noRow
	m.opened = noRow

	if m.validRow(s.ActiveRow) && m.rows[s.ActiveRow].IsSubMenuShow {
		m.activeRow = s.ActiveRow
		m.opened = s.ActiveRow
	}
	return true
}

// activateSubMenu рассчитывает геометрию подменю строки и раскрывает его.
// Если до низа меню меньше места, чем естественная высота подменю,
// подменю прижимается к низу и ужимается до высоты меню.
func (m *Menu) activateSubMenu(row int) {
	rem := m.rootFontSize()
	menuHeight := m.viewport.MenuBounds().Height / rem
	scrollTop := m.viewport.ListScrollTop() / rem

	r := &m.rows[row]
	offset := 4 * float64(row)

	if menuHeight+1-offset+scrollTop <= r.OriginalHeight {
		r.Top = nil
		r.Height = min(menuHeight+3, r.OriginalHeight)
	} else {
		top := 5 + offset - scrollTop
		r.Top = &top
		r.Height = r.OriginalHeight
	}

	r.ArrowTop = 6 + offset - scrollTop
	r.Visible = VisibilityBlock
	r.IsSubMenuShow = true
}

func (m *Menu) deactivateSubMenu(row int) {
	m.rows[row].Visible = VisibilityNone
	m.rows[row].IsSubMenuShow = false
	if row == m.opened {
		m.opened = noRow
	}
}

// forget сбрасывает ссылки на строку, подменю которой закрыто.
func (m *Menu) forget(row int) {
	if row == m.activeRow {
		m.activeRow = noRow
	}
	if row == m.opened {
		m.opened = noRow
	}
}

// rootFontSize возвращает px на rem с защитой от нулевого значения.
func (m *Menu) rootFontSize() float64 {
	rem := m.viewport.RootFontSize()
	if rem <= 0 {
		return DefaultRootFontSize
	}
	return rem
}

func (m *Menu) validRow(row int) bool {
	return row >= 0 && row < len(m.rows)
}

func (m *Menu) changed() {
	if m.onChange != nil {
		m.onChange(m.Snapshot())
	}
}
