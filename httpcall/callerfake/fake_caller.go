// Package callerfake provides a scriptable httpcall.Caller for tests.
package callerfake

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-twitch-auth/httpcall"
)

type step struct {
	resp *httpcall.Response
	err  error
}

// FakeCaller serves queued responses in order and records every request it
// saw. Handler, when set, takes precedence over the queue.
type FakeCaller struct {
	lock     sync.Mutex
	steps    []step
	requests []*httpcall.Request

	Handler func(req *httpcall.Request) (*httpcall.Response, error)
}

func New() *FakeCaller {
	return &FakeCaller{}
}

// Call is the httpcall.Caller to hand to code under test.
func (f *FakeCaller) Call(_ context.Context, req *httpcall.Request) (*httpcall.Response, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.requests = append(f.requests, req)

	if f.Handler != nil {
		return f.Handler(req)
	}
	if len(f.steps) == 0 {
		return nil, errors.New("callerfake: no scripted response left")
	}
	next := f.steps[0]
	f.steps = f.steps[1:]
	return next.resp, next.err
}

// QueueResponse scripts the next response.
func (f *FakeCaller) QueueResponse(status int, body []byte) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.steps = append(f.steps, step{resp: &httpcall.Response{StatusCode: status, Body: body}})
}

// QueueJSON scripts the next response with a JSON-marshalled body.
func (f *FakeCaller) QueueJSON(status int, body any) {
	raw, err := json.Marshal(body)
	if err != nil {
		panic(err)
	}
	f.QueueResponse(status, raw)
}

// QueueError scripts a transport failure.
func (f *FakeCaller) QueueError(err error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.steps = append(f.steps, step{err: err})
}

// CallCount reports how many requests were served.
func (f *FakeCaller) CallCount() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return len(f.requests)
}

// Requests returns the requests served so far, in order.
func (f *FakeCaller) Requests() []*httpcall.Request {
	f.lock.Lock()
	defer f.lock.Unlock()
	return append([]*httpcall.Request(nil), f.requests...)
}
