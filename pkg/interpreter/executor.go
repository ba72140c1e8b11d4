package interpreter

import (
	"fmt"
	"sort"

	"github.com/jackie-gan/tiny-js-interpreter/pkg/runtime"
)

// timerTask is one pending setTimeout/setInterval callback.
type timerTask struct {
	id       int
	fn       runtime.Value
	args     []runtime.Value
	due      float64
	interval float64
	repeat   bool
	seq      int
}

// timerQueue runs callbacks on a virtual clock. Nothing waits in real time:
// draining jumps the clock to the next due task, so output order depends
// only on delays and scheduling order.
type timerQueue struct {
	tasks  []*timerTask
	nextID int
	seq    int
	now    float64
	runs   int
}

func newTimerQueue() *timerQueue {
	return &timerQueue{nextID: 1}
}

func (q *timerQueue) schedule(fn runtime.Value, args []runtime.Value, delay float64, repeat bool) int {
	if delay != delay || delay < 0 {
		delay = 0
	}
	id := q.nextID
	q.nextID++
	q.push(&timerTask{id: id, fn: fn, args: args, due: q.now + delay, interval: delay, repeat: repeat})
	return id
}

func (q *timerQueue) push(task *timerTask) {
	task.seq = q.seq
	q.seq++
	q.tasks = append(q.tasks, task)
}

func (q *timerQueue) cancel(id int) {
	for idx, task := range q.tasks {
		if task.id == id {
			q.tasks = append(q.tasks[:idx], q.tasks[idx+1:]...)
			return
		}
	}
}

// pop removes the earliest task, breaking ties by scheduling order.
func (q *timerQueue) pop() *timerTask {
	if len(q.tasks) == 0 {
		return nil
	}
	sort.SliceStable(q.tasks, func(a, b int) bool {
		if q.tasks[a].due != q.tasks[b].due {
			return q.tasks[a].due < q.tasks[b].due
		}
		return q.tasks[a].seq < q.tasks[b].seq
	})
	task := q.tasks[0]
	q.tasks = q.tasks[1:]
	return task
}

func (q *timerQueue) pending() int { return len(q.tasks) }

// flushTimers drains the queue after the program body completes. An uncaught
// throw inside a callback ends the run, as it would crash a host process.
func (i *Interpreter) flushTimers() error {
	for {
		task := i.timers.pop()
		if task == nil {
			return nil
		}
		i.timers.runs++
		if i.timers.runs > i.opts.Budget.MaxTimerRuns {
			return &FatalError{Kind: FatalBudgetExceeded, Message: fmt.Sprintf("timer budget of %d callbacks exhausted", i.opts.Budget.MaxTimerRuns)}
		}
		if task.due > i.timers.now {
			i.timers.now = task.due
		}
		if task.repeat {
			interval := task.interval
			if interval < 1 {
				interval = 1
			}
			i.timers.push(&timerTask{id: task.id, fn: task.fn, args: task.args, due: i.timers.now + interval, interval: task.interval, repeat: true})
		}
		if err := i.safeInvoke(task); err != nil {
			return err
		}
	}
}

func (i *Interpreter) safeInvoke(task *timerTask) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("interpreter: panic in timer %d: %v", task.id, r)
		}
	}()
	_, err = i.callFunction(task.fn, runtime.Undefined, task.args, nil)
	return err
}
