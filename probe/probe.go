// Package probe exposes the lifecycle of an instrumented task runtime as a
// set of dynamically-observable probes.
//
// A process owns one Provider, scoped by the identity returned from
// Namespace. Each probe kind has an independent subscriber set; when the set
// is empty, emitting costs a single atomic load and a branch, with no
// allocation and no lock, so the runtime's poll path stays effectively free
// while nobody is watching. The provider itself holds no per-task or
// per-thread state; all correlation is the consumer's job (see the tracing
// package).
package probe

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/xid"
	"go.uber.org/zap"
)

// subscriptionBuffer is the per-subscription channel capacity. A subscriber
// that falls behind by more than this loses events instead of stalling the
// emitting worker.
const subscriptionBuffer = 4096

// A Provider owns the probes of one process and fans emitted events out to
// the attached subscribers.
type Provider struct {
	// Each slot holds an immutable slice of subscribers, swapped
	// copy-on-write under mu. Emitters only ever load.
	slots [numKinds]atomic.Pointer[[]*Subscription]

	mu     sync.Mutex
	server *server
	logger *zap.Logger
	closed bool
}

// NewProvider creates a Provider with no subscribers attached.
func NewProvider() *Provider {
	return &Provider{}
}

// Enabled tells whether at least one subscriber is attached to the kind.
func (p *Provider) Enabled(k Kind) bool {
	return p.slots[k].Load() != nil
}

// EmitTask fires a task-scoped probe carrying the task ID as arg0. If no
// subscriber is attached to the kind, it returns immediately after one atomic
// load.
func (p *Provider) EmitTask(k Kind, taskID uint64) {
	subs := p.slots[k].Load()
	if subs == nil {
		return
	}

	p.deliver(subs, Event{
		Kind:   k,
		TaskID: taskID,
		Thread: threadID(),
		Time:   time.Now(),
	})
}

// EmitWorker fires a worker-thread probe. Worker probes carry no arguments;
// thread identity is stamped ambiently from the emitting OS thread.
func (p *Provider) EmitWorker(k Kind) {
	subs := p.slots[k].Load()
	if subs == nil {
		return
	}

	p.deliver(subs, Event{
		Kind:   k,
		Thread: threadID(),
		Time:   time.Now(),
	})
}

func (p *Provider) deliver(subs *[]*Subscription, ev Event) {
	for _, s := range *subs {
		select {
		case s.ch <- ev:
		default:
			// Never block the emitting worker. Delivery is not
			// guaranteed; a slow consumer only hurts itself.
			s.dropped.Add(1)
		}
	}
}

// A Subscription receives the events of the kinds it was attached to. Events
// fired while the subscription's buffer is full are counted in Dropped and
// discarded.
type Subscription struct {
	id      string
	kinds   []Kind
	ch      chan Event
	done    chan struct{}
	dropped atomic.Uint64

	closeOnce sync.Once
	provider  *Provider
}

// Subscribe attaches a new subscriber to the given kinds, or to every kind if
// none are given.
func (p *Provider) Subscribe(kinds ...Kind) *Subscription {
	if len(kinds) == 0 {
		kinds = Kinds()
	}

	s := &Subscription{
		id:       xid.New().String(),
		kinds:    kinds,
		ch:       make(chan Event, subscriptionBuffer),
		done:     make(chan struct{}),
		provider: p,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, k := range kinds {
		p.attach(k, s)
	}

	return s
}

func (p *Provider) attach(k Kind, s *Subscription) {
	old := p.slots[k].Load()

	var next []*Subscription
	if old != nil {
		next = append(next, *old...)
	}
	next = append(next, s)

	p.slots[k].Store(&next)
}

func (p *Provider) detach(s *Subscription) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, k := range s.kinds {
		old := p.slots[k].Load()
		if old == nil {
			continue
		}

		next := make([]*Subscription, 0, len(*old))
		for _, other := range *old {
			if other != s {
				next = append(next, other)
			}
		}

		if len(next) == 0 {
			p.slots[k].Store(nil)
			continue
		}

		p.slots[k].Store(&next)
	}
}

// Events returns the channel events are delivered on. The channel is never
// closed; consumers should select on Done as well.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Done is closed when the subscription has been detached.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Dropped returns the number of events lost because the subscriber fell
// behind.
func (s *Subscription) Dropped() uint64 {
	return s.dropped.Load()
}

// Close detaches the subscription. Emitters that loaded the subscriber set
// before the detach may still deposit a few events into the buffer; the event
// channel itself stays open so that late deliveries are always safe.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.provider.detach(s)
		close(s.done)
	})
}

// Close shuts the provider down: the attach socket stops accepting
// connections and all subscriptions are detached.
func (p *Provider) Close() {
	p.mu.Lock()
	p.closed = true
	srv := p.server
	p.server = nil

	var subs []*Subscription
	seen := map[*Subscription]bool{}
	for k := range p.slots {
		if cur := p.slots[k].Load(); cur != nil {
			for _, s := range *cur {
				if !seen[s] {
					seen[s] = true
					subs = append(subs, s)
				}
			}
		}
	}
	p.mu.Unlock()

	if srv != nil {
		srv.close()
	}

	for _, s := range subs {
		s.Close()
	}
}
