package ui

import (
	"fmt"
	"strings"
)

// Action identifies something the preview can do in response to a key.
type Action string

// Preview actions.
const (
	ActionNext        Action = "next"
	ActionPrev        Action = "prev"
	ActionReseed      Action = "reseed"
	ActionMoreDetail  Action = "more_detail"
	ActionLessDetail  Action = "less_detail"
	ActionToggleParam Action = "toggle_params"
	ActionQuit        Action = "quit"
)

// KeyBinding maps keys to an action.
type KeyBinding struct {
	Action   Action
	Keys     []string // bubbletea key strings
	KeyLabel string   // Label shown in the help line
	Name     string
}

// Keymap resolves key presses to actions.
type Keymap struct {
	bindings []KeyBinding
	byKey    map[string]Action
}

// DefaultKeymap returns the preview's standard bindings.
func DefaultKeymap() *Keymap {
	km := &Keymap{byKey: make(map[string]Action)}
	km.Register(KeyBinding{Action: ActionPrev, Keys: []string{"left", "h"}, KeyLabel: "←", Name: "prev"})
	km.Register(KeyBinding{Action: ActionNext, Keys: []string{"right", "l", "tab"}, KeyLabel: "→", Name: "next"})
	km.Register(KeyBinding{Action: ActionReseed, Keys: []string{"r", " "}, KeyLabel: "r", Name: "reseed"})
	km.Register(KeyBinding{Action: ActionMoreDetail, Keys: []string{"+", "="}, KeyLabel: "+", Name: "detail"})
	km.Register(KeyBinding{Action: ActionLessDetail, Keys: []string{"-", "_"}, KeyLabel: "-", Name: "detail"})
	km.Register(KeyBinding{Action: ActionToggleParam, Keys: []string{"p"}, KeyLabel: "p", Name: "params"})
	km.Register(KeyBinding{Action: ActionQuit, Keys: []string{"q", "esc", "ctrl+c"}, KeyLabel: "q", Name: "quit"})
	return km
}

// Register adds a binding. Later bindings win for a shared key.
func (k *Keymap) Register(b KeyBinding) {
	k.bindings = append(k.bindings, b)
	for _, key := range b.Keys {
		k.byKey[key] = b.Action
	}
}

// Lookup returns the action bound to key.
func (k *Keymap) Lookup(key string) (Action, bool) {
	a, ok := k.byKey[key]
	return a, ok
}

// Help renders a one-line summary of every binding.
func (k *Keymap) Help() string {
	parts := make([]string, len(k.bindings))
	for i, b := range k.bindings {
		parts[i] = fmt.Sprintf("%s %s", b.KeyLabel, b.Name)
	}
	return strings.Join(parts, " | ")
}
