package core

import "fmt"

// Result is the outcome of one step against one target.
type Result struct {
	Target  string
	Changed bool
	Message string
	Error   error
}

func SuccessChange(target, msg string) Result {
	return Result{Target: target, Changed: true, Message: msg}
}

func Failure(target string, err error, msg string) Result {
	return Result{Target: target, Message: msg, Error: err}
}

// OK reports whether the step succeeded.
func (r Result) OK() bool {
	return r.Error == nil
}

// Summary accumulates the results of a best-effort batch. One failed item
// never stops the batch; callers inspect the summary afterwards.
type Summary struct {
	Results []Result
}

func (s *Summary) Add(r Result) {
	s.Results = append(s.Results, r)
}

func (s *Summary) Succeeded() int {
	n := 0
	for _, r := range s.Results {
		if r.OK() {
			n++
		}
	}
	return n
}

func (s *Summary) Failed() int {
	return len(s.Results) - s.Succeeded()
}

// Failures returns only the failed results, in order.
func (s *Summary) Failures() []Result {
	var out []Result
	for _, r := range s.Results {
		if !r.OK() {
			out = append(out, r)
		}
	}
	return out
}

func (s *Summary) String() string {
	return fmt.Sprintf("%d succeeded, %d failed", s.Succeeded(), s.Failed())
}
