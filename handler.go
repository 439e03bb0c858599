// Copyright 2026 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

// A HandlerGroup is a group of signal handler chains which can be
// installed in a Stream.
type HandlerGroup struct {
	handlers [][]Handler
}

// PushBack adds a signal handler to the back of the handler chain for
// a specific signal kind.
func (g *HandlerGroup) PushBack(kind SignalKind, h Handler) {
	if h == nil {
		panic("fetchx: nil handler")
	}

	if g.handlers == nil {
		g.handlers = make([][]Handler, numKinds)
	}

	g.handlers[kind] = append(g.handlers[kind], h)
}

func (g *HandlerGroup) run(sig Signal) {
	i := int(sig.Kind)
	if i < len(g.handlers) {
		run(g.handlers[i], sig)
	}
}

func run(chain []Handler, sig Signal) {
	for _, h := range chain {
		h.Handle(sig)
	}
}

// A Handler handles the occurrence of a lifecycle signal during a
// streaming exchange.
type Handler interface {
	Handle(Signal)
}

// The HandlerFunc type is an adapter to allow the use of ordinary
// functions as signal handlers. If f is a function with appropriate
// signature, HandlerFunc(f) is a Handler that calls f.
type HandlerFunc func(Signal)

// Handle calls f(sig).
func (f HandlerFunc) Handle(sig Signal) {
	f(sig)
}
