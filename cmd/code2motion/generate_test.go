package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func runGenerate(t *testing.T, args ...string) (string, error) {
	t.Helper()
	generateServer, generateToken = "http://localhost:8080", ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"generate"}, args...))
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

func TestGenerateCommand(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/functions/generate-animation" {
			http.NotFound(w, r)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"success":true,"animation":{"html":"<div class=\"dot\"></div>","css":".dot{}","description":"A dot"}}`))
	}))
	defer srv.Close()

	out, err := runGenerate(t, "--server", srv.URL+"/", "--token", "tok", "pulsing", "dot")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	for _, want := range []string{"/* A dot */", ".dot{}", `<div class="dot"></div>`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestGenerateCommandRequiresToken(t *testing.T) {
	if _, err := runGenerate(t, "spin"); err == nil || !strings.Contains(err.Error(), "--token") {
		t.Errorf("err = %v, want missing token error", err)
	}
}
