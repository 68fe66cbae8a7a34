// Package router keeps the navigation stack of the TUI. Screens never hold
// references to each other; they emit navigation messages and the router
// reshapes the stack.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/st-academy/academy/internal/screen"
)

// PushScreenMsg puts Screen on top of the stack.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg drops the top screen. The root screen is never dropped.
type PopScreenMsg struct{}

// ReplaceScreenMsg swaps the top screen for Screen.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

// PoppedMsg is delivered to the screen uncovered by a pop.
type PoppedMsg struct{}

// Push returns a command that navigates to s.
func Push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return PushScreenMsg{Screen: s} }
}

// Back returns a command that navigates to the previous screen.
func Back() tea.Cmd {
	return func() tea.Msg { return PopScreenMsg{} }
}

// Router is a stack of screens; only the top one receives input.
type Router struct {
	stack []screen.Screen
}

// New returns a router whose root is initial.
func New(initial screen.Screen) *Router {
	return &Router{stack: []screen.Screen{initial}}
}

// Active returns the top of the stack, or nil when empty.
func (r *Router) Active() screen.Screen {
	if n := len(r.stack); n > 0 {
		return r.stack[n-1]
	}
	return nil
}

// Depth reports how many screens are stacked.
func (r *Router) Depth() int { return len(r.stack) }

// deliver sends msg to the top screen and stores whatever it returns.
func (r *Router) deliver(msg tea.Msg) tea.Cmd {
	top := r.Active()
	if top == nil {
		return nil
	}
	next, cmd := top.Update(msg)
	r.stack[len(r.stack)-1] = next
	return cmd
}

// Push stacks s and runs its Init.
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop drops the top screen and notifies the one below with PoppedMsg.
func (r *Router) Pop() tea.Cmd {
	if len(r.stack) < 2 {
		return nil
	}
	r.stack[len(r.stack)-1] = nil
	r.stack = r.stack[:len(r.stack)-1]
	return r.deliver(PoppedMsg{})
}

// Replace swaps the top screen for s and runs its Init.
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	if len(r.stack) == 0 {
		return r.Push(s)
	}
	r.stack[len(r.stack)-1] = s
	return s.Init()
}

// Update applies navigation messages and forwards everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	default:
		return r.deliver(msg)
	}
}

// View renders the active screen.
func (r *Router) View(width, height int) string {
	if top := r.Active(); top != nil {
		return top.View(width, height)
	}
	return ""
}
