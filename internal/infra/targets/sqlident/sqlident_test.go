package sqlident

import "testing"

func TestQuote(t *testing.T) {
	cases := map[string]string{
		"id":          `"id"`,
		"Column Name": `"Column Name"`,
		`a"b`:         `"a""b"`,
	}
	for in, want := range cases {
		if got := Quote(in); got != want {
			t.Fatalf("Quote(%q) = %s, want %s", in, got, want)
		}
	}
	if got := Qualified("public", "users"); got != `"public"."users"` {
		t.Fatalf("unexpected qualified name %s", got)
	}
	if got := Qualified("", "users"); got != `"users"` {
		t.Fatalf("unexpected unqualified name %s", got)
	}
}
