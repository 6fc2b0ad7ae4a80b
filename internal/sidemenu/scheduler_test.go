package sidemenu

import (
	"context"
	"errors"
	"testing"
	"time"
)

// startLoop запускает цикл событий и останавливает его по завершении теста.
func startLoop(t *testing.T) *EventLoop {
	t.Helper()
	loop := NewEventLoop(16)
	ctx, cancel := context.WithCancel(context.Background())
	go loop.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-loop.Done()
	})
	return loop
}

func TestEventLoop_Order(t *testing.T) {
	loop := startLoop(t)

	var got []int
	done := make(chan struct{})
	for i := range 5 {
		if err := loop.Post(func() { got = append(got, i) }); err != nil {
			t.Fatalf("Post: %v", err)
		}
	}
	if err := loop.Post(func() { close(done) }); err != nil {
		t.Fatalf("Post: %v", err)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("события не обработаны")
	}

	for i, v := range got {
		if v != i {
			t.Fatalf("порядок нарушен: %v", got)
		}
	}
}

func TestEventLoop_PostAfterStop(t *testing.T) {
	loop := NewEventLoop(1)
	loop.Stop()
	loop.Stop()

	if err := loop.Post(func() {}); !errors.Is(err, ErrLoopStopped) {
		t.Errorf("Post после Stop: ошибка %v, ожидается ErrLoopStopped", err)
	}
}

func TestLoopScheduler_Fires(t *testing.T) {
	loop := startLoop(t)
	sched := NewLoopScheduler(loop)

	fired := make(chan struct{})
	sched.Schedule(10*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("задача не выполнена")
	}
}

func TestLoopScheduler_Cancel(t *testing.T) {
	loop := startLoop(t)
	sched := NewLoopScheduler(loop)

	fired := make(chan struct{}, 1)
	task := sched.Schedule(20*time.Millisecond, func() { fired <- struct{}{} })
	task.Cancel()

	select {
	case <-fired:
		t.Fatal("отменённая задача выполнена")
	case <-time.After(100 * time.Millisecond):
	}
}

// TestLoopScheduler_MenuDelayedActivation — отложенная активация меню
// в реальном цикле событий.
func TestLoopScheduler_MenuDelayedActivation(t *testing.T) {
	loop := startLoop(t)

	activated := make(chan int, 4)
	m := New(testSpecs(), scenarioViewport(), NewLoopScheduler(loop),
		WithDelay(20*time.Millisecond),
		WithChangeHook(func(s Snapshot) { activated <- s.ActiveRow }))

	post := func(fn func()) {
		t.Helper()
		if err := loop.Post(fn); err != nil {
			t.Fatalf("Post: %v", err)
		}
	}

	post(func() {
		m.Activate(1)
		m.MouseMove(Point{X: 100, Y: 50})
		m.MouseMove(Point{X: 110, Y: 52})
		m.MouseEnterRow(2)
	})

	want := []int{1, 2}
	for _, w := range want {
		select {
		case got := <-activated:
			if got != w {
				t.Fatalf("активна строка %d, ожидается %d", got, w)
			}
		case <-time.After(time.Second):
			t.Fatalf("не дождались активации строки %d", w)
		}
	}
}
