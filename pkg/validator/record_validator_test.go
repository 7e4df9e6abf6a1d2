package validator

import "testing"

func TestValidateRequired(t *testing.T) {
	rv := NewRecordValidator()
	tests := []struct {
		name     string
		record   map[string]any
		required []string
		valid    bool
	}{
		{name: "all present", record: map[string]any{"title": "a"}, required: []string{"title"}, valid: true},
		{name: "no requirements", record: map[string]any{}, required: nil, valid: true},
		{name: "missing field", record: map[string]any{}, required: []string{"title"}, valid: false},
		{name: "nil value", record: map[string]any{"title": nil}, required: []string{"title"}, valid: false},
		{name: "empty string", record: map[string]any{"title": ""}, required: []string{"title"}, valid: false},
		{name: "zero number counts", record: map[string]any{"priority": 0}, required: []string{"priority"}, valid: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := rv.ValidateRequired(tt.record, tt.required)
			if result.IsValid != tt.valid {
				t.Fatalf("expected valid=%v, got %+v", tt.valid, result)
			}
		})
	}
}

func TestValidateRequired_CollectsEveryMissingField(t *testing.T) {
	rv := NewRecordValidator()
	result := rv.ValidateRequired(map[string]any{}, []string{"title", "status"})
	if len(result.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %+v", result.Errors)
	}
	if result.Errors[0].Field != "title" || result.Errors[1].Field != "status" {
		t.Fatalf("errors must follow the required list order, got %+v", result.Errors)
	}
	if result.FirstMessage() != "required field 'title' is missing" {
		t.Fatalf("unexpected first message: %q", result.FirstMessage())
	}
}

func TestFirstMessage_EmptyWhenValid(t *testing.T) {
	rv := NewRecordValidator()
	result := rv.ValidateRequired(map[string]any{"title": "a"}, []string{"title"})
	if result.FirstMessage() != "" {
		t.Fatalf("expected empty message, got %q", result.FirstMessage())
	}
}
