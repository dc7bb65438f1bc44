package platform

import (
	"errors"
	"strings"
	"testing"
)

func TestEncodeQuery(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"golang", "golang"},
		{"go lang", "go%20lang"},
		{"a+b", "a%2Bb"},
		{"café", "caf%C3%A9"},
		{"-_.~", "-_.~"},
		{"q&a=1", "q%26a%3D1"},
		{"100%", "100%25"},
	}
	for _, tc := range cases {
		if got := EncodeQuery(tc.in); got != tc.want {
			t.Fatalf("EncodeQuery(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResolve_WebTargetForAllPlatforms(t *testing.T) {
	const query = "dog videos"
	enc := EncodeQuery(query)
	for _, p := range All() {
		got, err := Resolve(query, p, false)
		if err != nil {
			t.Fatalf("%s: %v", p.ID, err)
		}
		if got.IsNative {
			t.Fatalf("%s: web resolve marked native", p.ID)
		}
		if !strings.HasPrefix(got.URI, "https://") {
			t.Fatalf("%s: web URI %q does not start with https://", p.ID, got.URI)
		}
		if strings.Count(got.URI, enc) != 1 {
			t.Fatalf("%s: encoded query appears %d times in %q", p.ID, strings.Count(got.URI, enc), got.URI)
		}
		if strings.Contains(got.URI, "+") {
			t.Fatalf("%s: space encoded as + in %q", p.ID, got.URI)
		}
	}
}

func TestResolve_NativeTargetForAllPlatforms(t *testing.T) {
	for _, p := range All() {
		got, err := Resolve("cats", p, true)
		if err != nil {
			t.Fatalf("%s: %v", p.ID, err)
		}
		if !got.IsNative {
			t.Fatalf("%s: native resolve not marked native", p.ID)
		}
		if want := p.AppSearchURI + "cats"; got.URI != want {
			t.Fatalf("%s: URI = %q, want %q", p.ID, got.URI, want)
		}
	}
}

func TestResolve_InstagramHandleRoutesToProfile(t *testing.T) {
	ig, err := Lookup(Instagram)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}

	got, err := Resolve("@nat geo", ig, true)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if want := "instagram://user?username=nat%20geo"; got.URI != want {
		t.Fatalf("URI = %q, want %q", got.URI, want)
	}

	// The "@" prefix only matters for native resolution; on the web the raw
	// query is searched as typed.
	web, err := Resolve("@natgeo", ig, false)
	if err != nil {
		t.Fatalf("Resolve(web): %v", err)
	}
	if want := ig.WebSearchURL + "%40natgeo"; web.URI != want {
		t.Fatalf("web URI = %q, want %q", web.URI, want)
	}
}

func TestResolve_AtPrefixIgnoredWithoutProfileURI(t *testing.T) {
	yt, err := Lookup(YouTube)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	got, err := Resolve("@somechannel", yt, true)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if want := yt.AppSearchURI + "%40somechannel"; got.URI != want {
		t.Fatalf("URI = %q, want %q", got.URI, want)
	}
}

func TestResolve_EmptyQuery(t *testing.T) {
	for _, p := range All() {
		// Native: opens the app.
		native, err := Resolve("", p, true)
		if err != nil {
			t.Fatalf("%s: native empty query: %v", p.ID, err)
		}
		if native.URI != p.AppOpenURI || !native.IsNative {
			t.Fatalf("%s: native empty query = %+v", p.ID, native)
		}

		// Web: no platform declares an empty-query search URL.
		if _, err := Resolve("", p, false); !errors.Is(err, ErrEmptyQueryUnsupported) {
			t.Fatalf("%s: expected ErrEmptyQueryUnsupported, got %v", p.ID, err)
		}
	}
}

func TestWebTarget_FallbackMatchesWebResolve(t *testing.T) {
	for _, p := range All() {
		direct, err := Resolve("q", p, false)
		if err != nil {
			t.Fatalf("%s: %v", p.ID, err)
		}
		fallback, err := WebTarget("q", p)
		if err != nil {
			t.Fatalf("%s: %v", p.ID, err)
		}
		if direct != fallback {
			t.Fatalf("%s: fallback %+v differs from web resolve %+v", p.ID, fallback, direct)
		}
	}
}
