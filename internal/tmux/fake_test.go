package tmux

import (
	"context"
	"strings"
	"sync"
)

// fakeResponse is one scripted answer of fakeRunner.
type fakeResponse struct {
	out   Output
	err   error
	block bool // wait for ctx cancellation instead of answering
}

// fakeRunner records every invocation and answers from a script keyed by
// the joined argv. A key with several responses answers them in order and
// then keeps repeating the last one. Unknown keys succeed silently.
type fakeRunner struct {
	mu        sync.Mutex
	calls     [][]string
	responses map[string][]fakeResponse
	served    map[string]int
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		responses: make(map[string][]fakeResponse),
		served:    make(map[string]int),
	}
}

func key(args ...string) string {
	return strings.Join(args, " ")
}

func (f *fakeRunner) on(args []string, resp ...fakeResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[key(args...)] = resp
}

func (f *fakeRunner) stdout(args []string, stdout string) {
	f.on(args, fakeResponse{out: Output{Stdout: []byte(stdout)}})
}

func (f *fakeRunner) Run(ctx context.Context, args ...string) (Output, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string(nil), args...))
	k := key(args...)
	var resp fakeResponse
	if seq, ok := f.responses[k]; ok && len(seq) > 0 {
		i := f.served[k]
		if i >= len(seq) {
			i = len(seq) - 1
		}
		resp = seq[i]
		f.served[k]++
	}
	f.mu.Unlock()

	if resp.block {
		<-ctx.Done()
		return Output{}, ctx.Err()
	}
	return resp.out, resp.err
}

func (f *fakeRunner) callCount(args ...string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if key(c...) == key(args...) {
			n++
		}
	}
	return n
}

func (f *fakeRunner) lastCall() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return nil
	}
	return f.calls[len(f.calls)-1]
}
