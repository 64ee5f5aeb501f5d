package dsl

import "testing"

func strp(s string) *string { return &s }

func TestParseProps(t *testing.T) {
	tests := []struct {
		name      string
		inside    string
		wantIcon  *string
		wantLabel *string
	}{
		{"icon only", `icon: "db"`, strp("db"), nil},
		{"unquoted", `icon: db`, strp("db"), nil},
		{"both", `icon: "db", label: "Orders"`, strp("db"), strp("Orders")},
		{"comma inside quotes", `label: "Orders, EU", icon: db`, strp("db"), strp("Orders, EU")},
		{"colon in value", `label: "a:b"`, nil, strp("a:b")},
		{"unknown keys ignored", `color: red, icon: x`, strp("x"), nil},
		{"part without colon ignored", `bogus, icon: x`, strp("x"), nil},
		{"empty value", `label: ""`, nil, strp("")},
		{"escaped quote does not toggle", `label: "say \"hi, there\"", icon: x`, strp("x"), strp(`say \"hi, there\`)},
		{"later duplicate wins", `icon: a, icon: b`, strp("b"), nil},
		{"empty", ``, nil, nil},
		{"keys are case-sensitive", `Icon: x`, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseProps(tt.inside)
			if !equalPtr(got.Icon, tt.wantIcon) {
				t.Errorf("Icon = %v, want %v", deref(got.Icon), deref(tt.wantIcon))
			}
			if !equalPtr(got.Label, tt.wantLabel) {
				t.Errorf("Label = %v, want %v", deref(got.Label), deref(tt.wantLabel))
			}
		})
	}
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}
