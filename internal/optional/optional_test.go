package optional

import (
	"encoding/json"
	"testing"
)

func TestFieldTriState(t *testing.T) {
	type payload struct {
		ParentID Field[uint] `json:"parent_id"`
	}

	t.Run("omitted key stays unset", func(t *testing.T) {
		var p payload
		if err := json.Unmarshal([]byte(`{}`), &p); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if p.ParentID.Set {
			t.Error("expected unset field for omitted key")
		}
	})

	t.Run("explicit null is set with nil value", func(t *testing.T) {
		var p payload
		if err := json.Unmarshal([]byte(`{"parent_id":null}`), &p); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if !p.ParentID.Set || p.ParentID.Value != nil {
			t.Errorf("expected set field with nil value, got Set=%v Value=%v", p.ParentID.Set, p.ParentID.Value)
		}
	})

	t.Run("concrete value is set", func(t *testing.T) {
		var p payload
		if err := json.Unmarshal([]byte(`{"parent_id":42}`), &p); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if !p.ParentID.Set || p.ParentID.Value == nil || *p.ParentID.Value != 42 {
			t.Errorf("expected value 42, got Set=%v Value=%v", p.ParentID.Set, p.ParentID.Value)
		}
	})

	t.Run("invalid value is an error", func(t *testing.T) {
		var p payload
		if err := json.Unmarshal([]byte(`{"parent_id":"abc"}`), &p); err == nil {
			t.Error("expected error for non-numeric value")
		}
	})
}
