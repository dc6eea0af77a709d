package validation

import "testing"

func TestIsValidIdentifier(t *testing.T) {
	ok := []string{"a", "A", "_a", "a1", "a_b2", "snake_case_123"}
	bad := []string{"", "1a", "a-b", "a b", "a;b", "a\"b", "a.b", "a/b", "a--", "select", "from", "order", "table", "group", "user", "returning"}

	for _, s := range ok {
		if !IsValidIdentifier(s) {
			t.Fatalf("expected valid: %q", s)
		}
	}
	for _, s := range bad {
		if IsValidIdentifier(s) {
			t.Fatalf("expected invalid: %q", s)
		}
	}
}

func TestSanitizeIdentifier(t *testing.T) {
	cases := map[string]string{
		"test_data_output": "test_data_output",
		"Customer Orders":  "customer_orders",
		"2024 sales!":      "t_2024_sales",
		"select":           "t_select",
		"---":              "data",
	}
	for in, want := range cases {
		if got := SanitizeIdentifier(in); got != want {
			t.Fatalf("SanitizeIdentifier(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsValidMode(t *testing.T) {
	if !IsValidMode("create") || !IsValidMode("truncate") || !IsValidMode("append") {
		t.Fatal("expected valid table modes")
	}
	if IsValidMode("") || IsValidMode("create_if_missing") || IsValidMode("foo") {
		t.Fatal("expected invalid legacy or unknown mode")
	}
}
