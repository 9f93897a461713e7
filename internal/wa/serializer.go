package wa

import "sync"

// serializer funnels work onto a single dedicated goroutine. The SQLite
// handle beneath a Project must never be touched from two goroutines, so
// every database operation is submitted as a closure and runs on the one
// loop goroutine, with the submitting caller blocking for the result.
// This is a synchronous hand-off: by the time Do returns, the closure has
// run and its caches and generated ids are visible.
type serializer struct {
	jobs chan serialJob
	quit chan struct{}
	done chan struct{} // closed when the loop goroutine exits

	closeOnce sync.Once
}

type serialJob struct {
	fn  func() error
	res chan error
}

func newSerializer() *serializer {
	s := &serializer{
		jobs: make(chan serialJob),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	go s.loop()
	return s
}

func (s *serializer) loop() {
	defer close(s.done)
	for {
		select {
		case job := <-s.jobs:
			job.res <- job.fn()
		case <-s.quit:
			return
		}
	}
}

// Do runs fn on the writer goroutine and blocks until it completes,
// returning fn's error. After Close it returns ErrProjectClosed.
func (s *serializer) Do(fn func() error) error {
	job := serialJob{fn: fn, res: make(chan error, 1)}
	select {
	case s.jobs <- job:
		return <-job.res
	case <-s.done:
		return ErrProjectClosed
	}
}

// Close stops the loop goroutine and waits for it to exit. Submissions
// that have not been accepted yet fail with ErrProjectClosed.
func (s *serializer) Close() {
	s.closeOnce.Do(func() { close(s.quit) })
	<-s.done
}
