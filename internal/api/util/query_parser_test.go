package util

import (
	"testing"
)

func TestParseQueryString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []QueryFilter
		wantErr bool
	}{
		{
			name:  "empty string",
			input: "",
			want:  nil,
		},
		{
			name:  "implicit equality",
			input: "username|alice1",
			want:  []QueryFilter{{Field: "username", Operator: OpEq, Value: "alice1"}},
		},
		{
			name:  "explicit operator",
			input: "created_at|gte|2026-01-01",
			want:  []QueryFilter{{Field: "created_at", Operator: OpGte, Value: "2026-01-01"}},
		},
		{
			name:  "multiple conditions",
			input: "username|alice1,email|ne|a@example.com",
			want: []QueryFilter{
				{Field: "username", Operator: OpEq, Value: "alice1"},
				{Field: "email", Operator: OpNe, Value: "a@example.com"},
			},
		},
		{
			name:    "invalid operator",
			input:   "username|like|alice",
			wantErr: true,
		},
		{
			name:    "too many parts",
			input:   "username|eq|a|b",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseQueryString(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d filters, got %d", len(tt.want), len(got))
			}
			for i := range got {
				if got[i].Field != tt.want[i].Field || got[i].Operator != tt.want[i].Operator {
					t.Errorf("filter %d: got %+v, want %+v", i, got[i], tt.want[i])
				}
				if s, ok := tt.want[i].Value.(string); ok && got[i].Value != s {
					t.Errorf("filter %d: got value %v, want %v", i, got[i].Value, s)
				}
			}
		})
	}
}

func TestParseQueryStringInOperator(t *testing.T) {
	filters, err := ParseQueryString("username|in|alice1;bob2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(filters) != 1 {
		t.Fatalf("expected 1 filter, got %d", len(filters))
	}
	values, ok := filters[0].Value.([]string)
	if !ok || len(values) != 2 || values[0] != "alice1" || values[1] != "bob2" {
		t.Errorf("unexpected in values: %v", filters[0].Value)
	}
}

func TestParseOrderString(t *testing.T) {
	orders, err := ParseOrderString("username|asc,created_at|desc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 clauses, got %d", len(orders))
	}
	if orders[0].Field != "username" || orders[0].Direction != OrderAsc {
		t.Errorf("unexpected first clause: %+v", orders[0])
	}
	if orders[1].Field != "created_at" || orders[1].Direction != OrderDesc {
		t.Errorf("unexpected second clause: %+v", orders[1])
	}

	if _, err := ParseOrderString("username|sideways"); err == nil {
		t.Error("expected error for invalid direction")
	}
}

func TestValidateFilterFields(t *testing.T) {
	filters := []QueryFilter{{Field: "password_hash", Operator: OpEq, Value: "x"}}
	if err := ValidateFilterFields(filters, []string{"username", "email"}); err == nil {
		t.Error("expected error for disallowed field")
	}

	filters = []QueryFilter{{Field: "username", Operator: OpEq, Value: "x"}}
	if err := ValidateFilterFields(filters, []string{"username", "email"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
