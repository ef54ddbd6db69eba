package async

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Task represents an asynchronous operation with a name and function.
type Task struct {
	Name string
	Func func(context.Context) error
}

type result struct {
	index int
	name  string
	err   error
}

func start(ctx context.Context, tasks []Task) <-chan result {
	out := make(chan result, len(tasks))
	for i, task := range tasks {
		go func() {
			out <- result{index: i, name: task.Name, err: task.Func(ctx)}
		}()
	}
	return out
}

// Failure is one failed unit of a batch.
type Failure struct {
	Name string
	Err  error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Name, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// BatchError aggregates the failures of a batch, in task order.
type BatchError struct {
	Failures []Failure
}

func (e *BatchError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, f.Error())
	}
	return fmt.Sprintf("%d of batch failed: %s", len(e.Failures), strings.Join(parts, "; "))
}

// Unwrap exposes every failure to errors.Is and errors.As.
func (e *BatchError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f)
	}
	return errs
}

// Names returns the names of the failed units.
func (e *BatchError) Names() []string {
	names := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		names = append(names, f.Name)
	}
	return names
}

// RunAll executes every task in parallel, waits for all of them and returns
// a *BatchError listing each failed task, or nil when all succeeded.
func RunAll(ctx context.Context, tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}

	results := start(ctx, tasks)

	var failed []result
	for range len(tasks) {
		if res := <-results; res.err != nil {
			failed = append(failed, res)
		}
	}
	if len(failed) == 0 {
		return nil
	}

	sort.Slice(failed, func(i, j int) bool { return failed[i].index < failed[j].index })
	batch := &BatchError{Failures: make([]Failure, 0, len(failed))}
	for _, f := range failed {
		batch.Failures = append(batch.Failures, Failure{Name: f.name, Err: f.err})
	}
	return batch
}
