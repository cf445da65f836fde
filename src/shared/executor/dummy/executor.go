package dummy

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/executor"
)

var NetworkFailure = errors.New("Dummy network failure")

type Call struct {
	Name string
	Args []string
	Dir  string
}

// Handler plays the part of the binary. It can write whatever files the
// real tool would have written.
type Handler func(call Call) ([]byte, error)

var _ executor.Executor = &Executor{}

type Executor struct {
	Unavailable bool
	Handler     Handler

	mutex sync.Mutex
	calls []Call
}

func NewExecutor(handler Handler) *Executor {
	return &Executor{
		Handler: handler,
	}
}

func (e *Executor) Command(name string, args ...string) executor.Cmd {
	return &cmd{
		executor: e,
		call:     Call{Name: name, Args: args},
	}
}

func (e *Executor) Calls() []Call {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	calls := make([]Call, len(e.calls))
	copy(calls, e.calls)
	return calls
}

func (e *Executor) run(call Call) ([]byte, error) {
	e.mutex.Lock()
	e.calls = append(e.calls, call)
	e.mutex.Unlock()

	if e.Unavailable {
		return nil, NetworkFailure
	}

	if e.Handler == nil {
		return nil, nil
	}

	return e.Handler(call)
}

type cmd struct {
	executor *Executor
	call     Call
}

func (c *cmd) SetDir(dir string) {
	c.call.Dir = dir
}

func (c *cmd) CombinedOutput() ([]byte, error) {
	return c.executor.run(c.call)
}

func (c *cmd) Output() ([]byte, error) {
	return c.executor.run(c.call)
}
