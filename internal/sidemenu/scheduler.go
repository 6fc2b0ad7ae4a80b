// scheduler.go — отложенные задачи и однопоточный цикл событий меню.
//
// Menu рассчитан на однопоточную модель: события указателя и срабатывания
// таймеров обрабатываются последовательно одной горутиной. EventLoop
// предоставляет такую горутину, LoopScheduler доставляет срабатывания
// таймеров в тот же цикл.
package sidemenu

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ErrLoopStopped — цикл событий остановлен, событие не принято.
var ErrLoopStopped = errors.New("цикл событий меню остановлен")

// TaskHandle — отменяемая отложенная задача.
type TaskHandle interface {
	Cancel()
}

// Scheduler планирует выполнение fn через delay.
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) TaskHandle
}

// EventLoop — последовательное выполнение событий в одной горутине.
type EventLoop struct {
	queue    chan func()
	done     chan struct{}
	stopOnce sync.Once
}

// NewEventLoop создаёт цикл событий с буфером очереди size.
func NewEventLoop(size int) *EventLoop {
	if size < 1 {
		size = 1
	}
	return &EventLoop{
		queue: make(chan func(), size),
		done:  make(chan struct{}),
	}
}

// Run выполняет события до отмены ctx или вызова Stop. Блокирующий.
func (l *EventLoop) Run(ctx context.Context) {
	defer l.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-l.done:
			return
		case fn := <-l.queue:
			fn()
		}
	}
}

// Post ставит событие в очередь. Блокируется, пока очередь заполнена.
func (l *EventLoop) Post(fn func()) error {
	select {
	case <-l.done:
		return ErrLoopStopped
	default:
	}

	select {
	case l.queue <- fn:
		return nil
	case <-l.done:
		return ErrLoopStopped
	}
}

// Stop останавливает цикл. Повторные вызовы безопасны.
func (l *EventLoop) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

// Done закрывается после остановки цикла.
func (l *EventLoop) Done() <-chan struct{} {
	return l.done
}

// LoopScheduler — Scheduler на time.AfterFunc, доставляющий срабатывания
// в EventLoop. Отмена, выполненная в цикле, гарантирует, что fn не будет
// вызвана, даже если таймер уже сработал и событие стоит в очереди.
type LoopScheduler struct {
	loop *EventLoop
}

// NewLoopScheduler создаёт планировщик поверх цикла событий.
func NewLoopScheduler(loop *EventLoop) *LoopScheduler {
	return &LoopScheduler{loop: loop}
}

// Schedule реализует Scheduler.
func (s *LoopScheduler) Schedule(delay time.Duration, fn func()) TaskHandle {
	task := &loopTask{}
	task.timer = time.AfterFunc(delay, func() {
		// Ошибка означает остановленный цикл — событие больше некому обработать.
		_ = s.loop.Post(func() {
			if task.cancelled.Load() {
				return
			}
			fn()
		})
	})
	return task
}

type loopTask struct {
	timer     *time.Timer
	cancelled atomic.Bool
}

func (t *loopTask) Cancel() {
	t.cancelled.Store(true)
	t.timer.Stop()
}
