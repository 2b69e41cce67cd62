// timer/timer.go
package timer

import (
	"container/heap"
	"sync"
	"time"
)

type Task struct {
	ID       int64
	RunAt    time.Time
	Interval time.Duration // 0 means one-shot
	Callback func()
	index    int
}

type taskHeap []*Task

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	return h[i].RunAt.Before(h[j].RunAt)
}

func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *taskHeap) Push(x interface{}) {
	task := x.(*Task)
	task.index = len(*h)
	*h = append(*h, task)
}

func (h *taskHeap) Pop() interface{} {
	old := *h
	n := len(old)
	task := old[n-1]
	task.index = -1
	*h = old[:n-1]
	return task
}

// Manager runs scheduled callbacks off a deadline heap. One goroutine
// sleeps until the earliest task is due; Schedule and Cancel wake it.
type Manager struct {
	tasks  taskHeap
	mutex  sync.Mutex
	nextID int64
	wake   chan struct{}
	done   chan struct{}
}

func NewManager() *Manager {
	m := &Manager{
		tasks:  make(taskHeap, 0),
		nextID: 1,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	heap.Init(&m.tasks)
	go m.run()
	return m
}

// Schedule registers callback to fire after delay; a nonzero interval
// repeats it. Callbacks run on their own goroutines.
func (m *Manager) Schedule(delay, interval time.Duration, callback func()) int64 {
	m.mutex.Lock()
	task := &Task{
		ID:       m.nextID,
		RunAt:    time.Now().Add(delay),
		Interval: interval,
		Callback: callback,
	}
	m.nextID++
	heap.Push(&m.tasks, task)
	m.mutex.Unlock()

	m.kick()
	return task.ID
}

func (m *Manager) Cancel(taskID int64) {
	m.mutex.Lock()
	for i, task := range m.tasks {
		if task.ID == taskID {
			heap.Remove(&m.tasks, i)
			break
		}
	}
	m.mutex.Unlock()
	m.kick()
}

func (m *Manager) Stop() {
	close(m.done)
}

func (m *Manager) kick() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

func (m *Manager) run() {
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		m.mutex.Lock()
		var wait time.Duration
		if m.tasks.Len() == 0 {
			wait = time.Hour
		} else {
			wait = time.Until(m.tasks[0].RunAt)
		}
		m.mutex.Unlock()

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(wait)

		select {
		case <-m.done:
			return
		case <-m.wake:
		case <-timer.C:
			m.fireDue()
		}
	}
}

func (m *Manager) fireDue() {
	m.mutex.Lock()
	now := time.Now()
	var due []*Task
	for m.tasks.Len() > 0 && !m.tasks[0].RunAt.After(now) {
		task := heap.Pop(&m.tasks).(*Task)
		due = append(due, task)
		if task.Interval > 0 {
			next := *task
			next.RunAt = now.Add(task.Interval)
			heap.Push(&m.tasks, &next)
		}
	}
	m.mutex.Unlock()

	for _, task := range due {
		go task.Callback()
	}
}
