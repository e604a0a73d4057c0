package oracle

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Fake is a scripted Oracle for tests. Responses are consumed in order per
// stage; the last response of a stage is reused once the script runs out.
// Responses go through the same decoding as the real client.
type Fake struct {
	mu        sync.Mutex
	responses map[string][]string
	errs      map[string]error
	requests  []Request
	validate  *validator.Validate
}

// NewFake creates an empty scripted oracle
func NewFake() *Fake {
	return &Fake{
		responses: make(map[string][]string),
		errs:      make(map[string]error),
		validate:  validator.New(),
	}
}

// Respond queues raw JSON responses for a stage
func (f *Fake) Respond(stage string, raw ...string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[stage] = append(f.responses[stage], raw...)
	return f
}

// Fail makes every call for a stage return err
func (f *Fake) Fail(stage string, err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[stage] = err
	return f
}

// Requests returns the requests received so far
func (f *Fake) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.requests...)
}

// RequestsFor returns the requests received for one stage
func (f *Fake) RequestsFor(stage string) []Request {
	var out []Request
	for _, r := range f.Requests() {
		if r.Stage == stage {
			out = append(out, r)
		}
	}
	return out
}

// Complete implements Oracle
func (f *Fake) Complete(_ context.Context, req Request, out any) error {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	if err, ok := f.errs[req.Stage]; ok {
		f.mu.Unlock()
		return err
	}
	queue := f.responses[req.Stage]
	if len(queue) == 0 {
		f.mu.Unlock()
		return fmt.Errorf("fake oracle: no response scripted for stage %s", req.Stage)
	}
	raw := queue[0]
	if len(queue) > 1 {
		f.responses[req.Stage] = queue[1:]
	}
	f.mu.Unlock()

	return Decode(f.validate, req, raw, out)
}
