package resource

import (
	"strings"
	"testing"
)

func TestParse_RoundTrip(t *testing.T) {
	tests := []struct {
		typ  Type
		name string
	}{
		{TypeTable, "users"},
		{TypeTable, "order_items"},
		{TypeView, "active_users"},
		{TypeInfo, ""},
	}

	for _, tc := range tests {
		t.Run(string(tc.typ)+"/"+tc.name, func(t *testing.T) {
			raw := Construct("shop", tc.typ, tc.name)
			u, err := Parse(raw, "shop")
			if err != nil {
				t.Fatalf("Failed to parse %q: %v", raw, err)
			}
			expected := URI{Database: "shop", Type: tc.typ, Name: tc.name}
			if u != expected {
				t.Errorf("Expected %+v, got %+v", expected, u)
			}
			if u.String() != raw {
				t.Errorf("Expected String() to return %q, got %q", raw, u.String())
			}
		})
	}
}

func TestConstruct(t *testing.T) {
	if got := Construct("mysql", TypeTable, "users"); got != "mysql://mysql/table/users" {
		t.Errorf("Unexpected table URI %q", got)
	}
	if got := Construct("mysql", TypeView, "v1"); got != "mysql://mysql/view/v1" {
		t.Errorf("Unexpected view URI %q", got)
	}
	if got := Construct("mysql", TypeInfo, "ignored"); got != "mysql://mysql/info" {
		t.Errorf("Unexpected info URI %q", got)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		uri     string
		message string
	}{
		{"postgres://mysql/table/users", "must start with"},
		{"mysql:/mysql/table/users", "must start with"},
		{"mysql://mysql", "expected"},
		{"mysql://otherdb/table/users", "database mismatch"},
		{"mysql://MySQL/table/users", "database mismatch"},
		{"mysql://mysql/query/SELECT", "unknown resource type"},
		{"mysql://mysql/procedure/p1", "unknown resource type"},
		{"mysql://mysql/", "unknown resource type"},
	}

	for _, tc := range tests {
		t.Run(tc.uri, func(t *testing.T) {
			_, err := Parse(tc.uri, "mysql")
			if err == nil {
				t.Fatalf("Expected %q to be rejected", tc.uri)
			}
			if !strings.Contains(err.Error(), tc.message) {
				t.Errorf("Expected error containing %q, got %v", tc.message, err)
			}
		})
	}
}

func TestTemplates(t *testing.T) {
	templates := Templates("shop")
	if len(templates) != 3 {
		t.Fatalf("Expected 3 templates, got %d", len(templates))
	}
	for _, tmpl := range templates {
		if tmpl.MIMEType != MIMEText {
			t.Errorf("Expected template %q to be %s, got %s", tmpl.Name, MIMEText, tmpl.MIMEType)
		}
	}
}

func TestListingEntries(t *testing.T) {
	if r := Table("shop", "users"); r.URI != "mysql://shop/table/users" || r.MIMEType != MIMETable || r.Name != "users" {
		t.Errorf("Unexpected table entry %+v", r)
	}
	if r := View("shop", "v"); r.URI != "mysql://shop/view/v" || r.MIMEType != MIMEView {
		t.Errorf("Unexpected view entry %+v", r)
	}
	if r := Info("shop"); r.URI != "mysql://shop/info" || r.MIMEType != MIMEText {
		t.Errorf("Unexpected info entry %+v", r)
	}
}
