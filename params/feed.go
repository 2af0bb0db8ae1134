// Package params is a small push-based feed of resolved route parameters.
// The router (or whatever stands in for one) publishes parameter mappings;
// views subscribe and must cancel their subscription on teardown so no
// callback fires into a dead view.
package params

import "sync"

// Params is one emission: a key/value mapping of route parameters.
type Params map[string]string

// Feed fans emissions out to subscribers, synchronously and in subscription
// order. Delivery happens on the publisher's goroutine, one callback at a
// time, matching an event-loop model.
type Feed struct {
	mu   sync.Mutex
	subs []*Subscription
}

// Subscription is the handle returned by Subscribe. Cancel it when the
// subscriber goes away.
type Subscription struct {
	feed     *Feed
	fn       func(Params)
	canceled bool // guarded by feed.mu
}

func NewFeed() *Feed {
	return &Feed{}
}

// Subscribe registers fn for future emissions. There is no replay of past
// emissions.
func (f *Feed) Subscribe(fn func(Params)) *Subscription {
	sub := &Subscription{feed: f, fn: fn}
	f.mu.Lock()
	f.subs = append(f.subs, sub)
	f.mu.Unlock()
	return sub
}

// Publish delivers p to every live subscriber. Each subscriber gets its own
// copy of the mapping, and cancellation is re-checked right before each
// callback so a subscriber canceled mid-publish is skipped.
func (f *Feed) Publish(p Params) {
	f.mu.Lock()
	subs := make([]*Subscription, len(f.subs))
	copy(subs, f.subs)
	f.mu.Unlock()

	for _, sub := range subs {
		f.mu.Lock()
		live := !sub.canceled
		f.mu.Unlock()
		if !live {
			continue
		}
		cp := make(Params, len(p))
		for k, v := range p {
			cp[k] = v
		}
		sub.fn(cp)
	}
}

// Cancel detaches the subscription; no callback fires after it returns.
// Idempotent.
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	f := s.feed
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.canceled {
		return
	}
	s.canceled = true
	for i, sub := range f.subs {
		if sub == s {
			f.subs = append(f.subs[:i], f.subs[i+1:]...)
			break
		}
	}
}
