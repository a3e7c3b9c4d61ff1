package generator

import "testing"

func TestBuildOutputPath(t *testing.T) {
	cases := []struct {
		name   string
		route  string
		locale string
		want   string
	}{
		{"root", "/", "en", "index.html"},
		{"post", "/blog/2024/05/10/second-post/", "en", "blog/2024/05/10/second-post/index.html"},
		{"page", "/about/", "en", "about/index.html"},
		{"empty locale", "/about/", "", "about/index.html"},
		{"file route", "/404.html", "en", "404.html"},
		{"other locale", "/about/", "es", "es/about/index.html"},
		{"locale case", "/about/", "ES", "es/about/index.html"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := buildOutputPath(tc.route, tc.locale, "en")
			if got != tc.want {
				t.Fatalf("buildOutputPath(%q, %q) = %q, want %q", tc.route, tc.locale, got, tc.want)
			}
		})
	}
}

func TestJoinOutputPath(t *testing.T) {
	if got := joinOutputPath("", "index.html"); got != "index.html" {
		t.Fatalf("got %q", got)
	}
	if got := joinOutputPath("public/", "about/index.html"); got != "public/about/index.html" {
		t.Fatalf("got %q", got)
	}
}
