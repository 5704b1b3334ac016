package crawl

import "testing"

func TestNormalizeBase(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare host", "example.com", "https://example.com"},
		{"trailing slash", "example.com/", "https://example.com"},
		{"http preserved", "http://example.com", "http://example.com"},
		{"https preserved", "https://example.com", "https://example.com"},
		{"path kept", "example.com/docs", "https://example.com/docs"},
		{"surrounding space", "  example.com ", "https://example.com"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeBase(tc.in); got != tc.want {
				t.Errorf("NormalizeBase(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeBase_Idempotent(t *testing.T) {
	for _, in := range []string{"example.com", "https://example.com/", "http://x.com/a/b"} {
		once := NormalizeBase(in)
		if twice := NormalizeBase(once); twice != once {
			t.Errorf("NormalizeBase not idempotent for %q: %q != %q", in, twice, once)
		}
	}
}

func TestSameDomain(t *testing.T) {
	cases := []struct {
		name      string
		candidate string
		base      string
		want      bool
	}{
		{"identical", "https://x.com/a", "https://x.com", true},
		{"www vs bare", "https://www.x.com/a", "https://x.com", true},
		{"bare vs www", "https://x.com", "https://www.x.com", true},
		{"subdomain distinct", "https://sub.x.com", "https://x.com", false},
		{"different host", "https://y.com", "https://x.com", false},
		{"scheme ignored", "http://x.com/a", "https://x.com", true},
		{"case insensitive host", "https://X.com/a", "https://x.com", true},
		{"relative candidate", "/about", "https://x.com", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SameDomain(tc.candidate, tc.base); got != tc.want {
				t.Errorf("SameDomain(%q, %q) = %v, want %v", tc.candidate, tc.base, got, tc.want)
			}
		})
	}
}
