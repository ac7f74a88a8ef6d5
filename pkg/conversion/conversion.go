// Package conversion turns shared text into a position. It selects the input
// that recognises the text, resolves short links, parses the link and, when
// the link alone is not enough, scans the web page it points to. Network
// access is gated by permissions the user can be asked for.
package conversion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// MaxIterations bounds the transitions of one conversion. The longest
// legitimate path takes nine.
const MaxIterations = 10

// ErrMaxIterations means a conversion went in circles, for example between
// two links redirecting to each other. It is a defect.
var ErrMaxIterations = errors.New("conversion exceeded the maximum number of transitions")

// Run converts text and returns the terminal state.
func Run(ctx context.Context, env *Env, text string) State {
	return Drive(ctx, env, ReceivedText{Text: text})
}

// Drive runs transitions from s until a terminal state is reached. A panic in
// a transition ends the conversion with ParseError.
func Drive(ctx context.Context, env *Env, s State) State {
	if _, idle := s.(Initial); idle {
		return s
	}
	log := env.logger()
	for n := 0; !Terminal(s); n++ {
		if n == MaxIterations {
			log.Errorf("BUG: conversion stopped in state %s: %v", Name(s), ErrMaxIterations)
			return Failed{Kind: MaxIterationsExceeded, Err: ErrMaxIterations}
		}
		if err := ctx.Err(); err != nil {
			return Failed{Kind: Cancelled, Err: err}
		}
		next, err := step(ctx, env, s)
		if err != nil {
			log.Errorf("conversion failed in state %s: %v", Name(s), err)
			return Failed{Kind: ParseError, Err: err}
		}
		log.Debugf("%s -> %s", Name(s), Name(next))
		s = next
	}
	return s
}

func step(ctx context.Context, env *Env, s State) (next State, err error) {
	defer func() {
		if r := recover(); r != nil {
			next, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return Transition(ctx, env, s)
}

// Prompt is a pending permission request. Exactly one of Grant and Deny
// takes effect; later calls are ignored.
type Prompt struct {
	Request
	reply chan Decision
	once  sync.Once
}

// Grant allows the request; persist stores Always for the category.
func (p *Prompt) Grant(persist bool) { p.Reply(Decision{Granted: true, Persist: persist}) }

// Deny refuses the request; persist stores Never for the category.
func (p *Prompt) Deny(persist bool) { p.Reply(Decision{Granted: false, Persist: persist}) }

// Reply answers with d.
func (p *Prompt) Reply(d Decision) {
	p.once.Do(func() { p.reply <- d })
}

// ParseDecision reads a typed answer: y(es), a(lways), n(o) or never.
// Anything else is a no that is not remembered.
func ParseDecision(answer string) Decision {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return Decision{Granted: true}
	case "a", "always":
		return Decision{Granted: true, Persist: true}
	case "never":
		return Decision{Persist: true}
	}
	return Decision{}
}

// Converter runs at most one conversion at a time and hands its permission
// requests out on a channel.
type Converter struct {
	env     Env
	prompts chan *Prompt

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewConverter returns a converter using env. env.Prompter is replaced by
// the converter itself.
func NewConverter(env Env) *Converter {
	c := &Converter{prompts: make(chan *Prompt)}
	env.Prompter = c
	c.env = env
	return c
}

// Prompts delivers the permission requests of the running conversion. A
// request left unanswered blocks that conversion until it is cancelled.
func (c *Converter) Prompts() <-chan *Prompt { return c.prompts }

// Prompt implements Prompter.
func (c *Converter) Prompt(ctx context.Context, req Request) (Decision, error) {
	p := &Prompt{Request: req, reply: make(chan Decision, 1)}
	select {
	case c.prompts <- p:
	case <-ctx.Done():
		return Decision{}, ctx.Err()
	}
	select {
	case d := <-p.reply:
		return d, nil
	case <-ctx.Done():
		return Decision{}, ctx.Err()
	}
}

// Start cancels the conversion in flight, waits for it to stop and starts
// converting text. The returned channel receives the terminal state.
func (c *Converter) Start(ctx context.Context, text string) <-chan State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
		<-c.done
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.cancel, c.done = cancel, done

	out := make(chan State, 1)
	go func() {
		defer close(done)
		defer cancel()
		out <- Run(ctx, &c.env, text)
	}()
	return out
}

// Convert runs a conversion to the end.
func (c *Converter) Convert(ctx context.Context, text string) State {
	return <-c.Start(ctx, text)
}

// Cancel stops the conversion in flight, if any.
func (c *Converter) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		<-c.done
		c.cancel = nil
	}
}
