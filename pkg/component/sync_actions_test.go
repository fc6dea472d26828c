package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSyncActionResult(t *testing.T) {
	t.Run("nil_result", func(t *testing.T) {
		out, err := RenderSyncActionResult(nil)
		require.NoError(t, err)
		assert.JSONEq(t, `{"status": "success"}`, string(out))
	})

	t.Run("validation_result", func(t *testing.T) {
		out, err := RenderSyncActionResult(ValidationResult{Message: "ok", Type: MessageSuccess})
		require.NoError(t, err)
		assert.JSONEq(t, `{"message": "ok", "type": "success", "status": "success"}`, string(out))
	})

	t.Run("validation_type_defaults_to_info", func(t *testing.T) {
		out, err := RenderSyncActionResult(ValidationResult{Message: "check config"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"message": "check config", "type": "info", "status": "success"}`, string(out))
	})

	t.Run("select_elements_carry_no_status", func(t *testing.T) {
		out, err := RenderSyncActionResult([]SelectElement{
			{Value: "eu-central-1", Label: "Europe"},
			{Value: "us-east-1"},
		})
		require.NoError(t, err)
		assert.JSONEq(t, `[
			{"value": "eu-central-1", "label": "Europe"},
			{"value": "us-east-1", "label": "us-east-1"}
		]`, string(out))
	})

	t.Run("arbitrary_map", func(t *testing.T) {
		out, err := RenderSyncActionResult(map[string]any{"tables": []string{"a", "b"}})
		require.NoError(t, err)
		assert.JSONEq(t, `{"tables": ["a", "b"]}`, string(out))
	})

	t.Run("unserializable", func(t *testing.T) {
		_, err := RenderSyncActionResult(func() {})
		assert.Error(t, err)
	})
}
