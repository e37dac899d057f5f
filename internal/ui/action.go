package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownAction is returned for action names the console does not handle
var ErrUnknownAction = errors.New("unknown action")

// ActionKind names what a console button does
type ActionKind string

const (
	ActionAdd    ActionKind = "add"
	ActionRemove ActionKind = "remove"
	ActionSave   ActionKind = "save"
	ActionCancel ActionKind = "cancel"
	ActionEdit   ActionKind = "edit"
	ActionDelete ActionKind = "delete"
)

// Target is the list an Add or Remove acts on
type Target string

const (
	TargetIngredient  Target = "ingredient"
	TargetInstruction Target = "instruction"
)

// Action is one resolved console command
type Action struct {
	Kind ActionKind
	// Row is the row key: a recipe id or a draft key. Edit with an empty
	// row opens a new draft.
	Row    string
	Target Target
	Index  int
}

// ParseAction builds an action from posted form values
func ParseAction(kind, row, target, index string) (Action, error) {
	a := Action{
		Kind: ActionKind(strings.ToLower(strings.TrimSpace(kind))),
		Row:  strings.TrimSpace(row),
	}

	switch a.Kind {
	case ActionSave, ActionCancel, ActionDelete:
		if a.Row == "" {
			return Action{}, fmt.Errorf("%w: %s needs a row", ErrUnknownAction, a.Kind)
		}
	case ActionEdit:
	case ActionAdd, ActionRemove:
		if a.Row == "" {
			return Action{}, fmt.Errorf("%w: %s needs a row", ErrUnknownAction, a.Kind)
		}
		a.Target = Target(strings.TrimSpace(target))
		if a.Target != TargetIngredient && a.Target != TargetInstruction {
			return Action{}, fmt.Errorf("%w: target %q", ErrUnknownAction, target)
		}
		if a.Kind == ActionRemove {
			i, err := strconv.Atoi(strings.TrimSpace(index))
			if err != nil || i < 0 {
				return Action{}, fmt.Errorf("%w: index %q", ErrUnknownAction, index)
			}
			a.Index = i
		}
	default:
		return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, kind)
	}
	return a, nil
}

// Confirmer asks the user to confirm a destructive action
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}
