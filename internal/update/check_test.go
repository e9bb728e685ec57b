package update

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCompareVersions(t *testing.T) {
	cases := []struct {
		a, b string
		want int // sign only
	}{
		{"1.2.3", "1.2.3", 0},
		{"1.2.4", "1.2.3", 1},
		{"1.2.3", "1.3.0", -1},
		{"2.0.0", "1.9.9", 1},
		{"0.2", "0.2.0", 0},
		{"", "0.1.0", -1},
	}
	for _, tc := range cases {
		got := compareVersions(tc.a, tc.b)
		switch {
		case tc.want == 0 && got != 0,
			tc.want > 0 && got <= 0,
			tc.want < 0 && got >= 0:
			t.Errorf("compareVersions(%q, %q) = %d, want sign %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestCheckFindsNewerRelease(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/playforge/playforge/releases/latest" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"tag_name":"v0.3.0","html_url":"https://example.com/release"}`))
	}))
	defer srv.Close()

	old := apiBase
	apiBase = srv.URL
	defer func() { apiBase = old }()

	res := Check("playforge", "playforge", "0.2.0")
	if res == nil {
		t.Fatal("Check() = nil, want result")
	}
	if !res.NeedsUpdate() {
		t.Errorf("NeedsUpdate() = false for %s -> %s", res.Current, res.Latest)
	}
	if res.UpdateURL != "https://example.com/release" {
		t.Errorf("UpdateURL = %q", res.UpdateURL)
	}
}

func TestCheckSwallowsServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	old := apiBase
	apiBase = srv.URL
	defer func() { apiBase = old }()

	if res := Check("playforge", "playforge", "0.1.0"); res != nil {
		t.Errorf("Check() = %+v, want nil on HTTP error", res)
	}
}

func TestNeedsUpdateNilReceiver(t *testing.T) {
	var r *Result
	if r.NeedsUpdate() {
		t.Error("nil result should never need update")
	}
}
