package chat

import (
	"log/slog"

	"mortgagemate/internal/api"
)

// ActionKind is the closed set of action tags the core interprets. Anything
// else is passthrough.
type ActionKind int

const (
	ActionUpdateField ActionKind = iota
	ActionPopulateSuggestions
	ActionUnknown
)

func kindOf(t string) ActionKind {
	switch t {
	case "update_field":
		return ActionUpdateField
	case "populate_suggestions":
		return ActionPopulateSuggestions
	default:
		return ActionUnknown
	}
}

// InputKind tells the host which coercion branch a field update should take:
// free text, or an exclusive-choice (radio-like) input.
type InputKind string

const (
	InputText  InputKind = "text"
	InputRadio InputKind = "radio"
)

// FieldUpdater is the host form's field-update capability. Updates arriving
// through it must be indistinguishable from a manual edit, so it carries the
// same (field, value, kind) triple regardless of origin.
type FieldUpdater func(field string, value any, kind InputKind)

// Dispatcher maps reply-issued actions onto the host. update_field goes to
// the field updater, populate_suggestions to the suggestion set, everything
// else to the host's generic handler untouched.
type Dispatcher struct {
	updateField FieldUpdater
	suggestions *Suggestions
	onUnknown   func(api.Action)
}

func NewDispatcher(updateField FieldUpdater, suggestions *Suggestions, onUnknown func(api.Action)) *Dispatcher {
	return &Dispatcher{
		updateField: updateField,
		suggestions: suggestions,
		onUnknown:   onUnknown,
	}
}

// Dispatch processes actions synchronously in input order. Malformed
// payloads are skipped and the remainder keeps processing; actions are
// consumed here and never stored.
func (d *Dispatcher) Dispatch(actions []api.Action) {
	for _, a := range actions {
		switch kindOf(a.Type) {
		case ActionUpdateField:
			d.dispatchFieldUpdate(a)
		case ActionPopulateSuggestions:
			d.dispatchSuggestions(a)
		default:
			if d.onUnknown != nil {
				d.onUnknown(a)
			}
		}
	}
}

func (d *Dispatcher) dispatchFieldUpdate(a api.Action) {
	field, ok := a.Payload["field"].(string)
	if !ok || field == "" {
		slog.Warn("skipping update_field action with no field", "payload", a.Payload)
		return
	}
	value, ok := a.Payload["value"]
	if !ok || value == nil {
		slog.Warn("skipping update_field action with no value", "field", field)
		return
	}

	kind := InputText
	if _, isBool := value.(bool); isBool {
		// The host's coercion handler branches on this distinction.
		kind = InputRadio
	}
	if d.updateField != nil {
		d.updateField(field, value, kind)
	}
}

func (d *Dispatcher) dispatchSuggestions(a api.Action) {
	field, _ := a.Payload["field"].(string)
	values, ok := a.Payload["values"].([]any)
	if !ok || len(values) == 0 {
		slog.Warn("skipping populate_suggestions action with no values", "field", field)
		return
	}

	items := make([]Suggestion, 0, len(values))
	for _, v := range values {
		label, ok := v.(string)
		if !ok || label == "" {
			continue
		}
		items = append(items, Suggestion{Label: label, Field: field})
	}
	if len(items) == 0 {
		return
	}
	d.suggestions.Replace(items)
}
