package component

import (
	"encoding/json"
	"fmt"
)

// MessageType classifies validation results shown to the user.
type MessageType string

const (
	MessageSuccess MessageType = "success"
	MessageInfo    MessageType = "info"
	MessageWarning MessageType = "warning"
	MessageDanger  MessageType = "danger"
)

// ValidationResult is the sync-action response for configuration validation.
type ValidationResult struct {
	Message string      `json:"message"`
	Type    MessageType `json:"type"`
}

// MarshalJSON adds the mandatory status field and defaults the message type.
func (v ValidationResult) MarshalJSON() ([]byte, error) {
	t := v.Type
	if t == "" {
		t = MessageInfo
	}
	return json.Marshal(struct {
		Message string      `json:"message"`
		Type    MessageType `json:"type"`
		Status  string      `json:"status"`
	}{Message: v.Message, Type: t, Status: "success"})
}

// SelectElement is one option of a dynamic select box. Unlike other results
// it carries no status field.
type SelectElement struct {
	Value string `json:"value"`
	Label string `json:"label,omitempty"`
}

// MarshalJSON defaults the label to the value.
func (s SelectElement) MarshalJSON() ([]byte, error) {
	label := s.Label
	if label == "" {
		label = s.Value
	}
	return json.Marshal(struct {
		Value string `json:"value"`
		Label string `json:"label"`
	}{Value: s.Value, Label: label})
}

// RenderSyncActionResult converts an action's return value into the JSON the
// host expects on stdout. A nil result renders the default success object.
func RenderSyncActionResult(result any) ([]byte, error) {
	if result == nil {
		return json.Marshal(map[string]string{"status": "success"})
	}
	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("sync action result must be JSON-serializable: %w", err)
	}
	return data, nil
}
