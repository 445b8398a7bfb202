package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeServer struct {
	mu    sync.Mutex
	posts []map[string]any
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/rest/v1.1/sites/example.com":
		_, _ = w.Write([]byte(`{"ID":7,"name":"Example","URL":"https://example.com","jetpack":false}`))
	case r.Method == http.MethodGet && r.URL.Path == "/rest/v1.1/sites/example.com/settings":
		_, _ = w.Write([]byte(`{"ID":7,"settings":{"blogname":"Old","blogdescription":"tag","lang_id":1,"blog_public":1,"timezone_string":"UTC","amp_is_supported":true,"amp_is_enabled":true}}`))
	case r.Method == http.MethodPost && r.URL.Path == "/rest/v1.1/sites/7/settings":
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.posts = append(f.posts, body)
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{"updated": body})
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"unknown_blog","message":"Unknown blog"}`))
	}
}

func setup(t *testing.T) (*fakeServer, string) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	fake := &fakeServer{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("PERCH_TOKEN", "")
	cfgPath := filepath.Join(dir, "config.toml")
	cfg := "api_base = \"" + srv.URL + "\"\nsite = \"example.com\"\ntoken = \"secret\"\nlog_file = \"" + filepath.Join(dir, "perch.log") + "\"\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return fake, cfgPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

func TestShowJSON(t *testing.T) {
	_, cfg := setup(t)
	out, err := run(t, "--config", cfg, "show", "--json")
	if err != nil {
		t.Fatalf("show: %v", err)
	}

	var got struct {
		Site     showSite       `json:"site"`
		Sections []string       `json:"sections"`
		Settings map[string]any `json:"settings"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if got.Site.ID != 7 || got.Site.Name != "Example" {
		t.Fatalf("site = %+v", got.Site)
	}
	if got.Settings["blogname"] != "Old" {
		t.Fatalf("settings missing blogname:\n%s", out)
	}
	if len(got.Sections) == 0 || got.Sections[0] != "profile" {
		t.Fatalf("sections = %v", got.Sections)
	}
}

func TestShowText(t *testing.T) {
	_, cfg := setup(t)
	out, err := run(t, "--config", cfg, "show")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	for _, want := range []string{"Example", "Site Title", "Old", "Public"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSetSavesFullForm(t *testing.T) {
	fake, cfg := setup(t)
	out, err := run(t, "--config", cfg, "set", "blogname=New")
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if !strings.Contains(out, "Saved blogname.") {
		t.Fatalf("output = %q", out)
	}
	if len(fake.posts) != 1 {
		t.Fatalf("posts = %d, want 1", len(fake.posts))
	}
	body := fake.posts[0]
	if body["blogname"] != "New" || body["blogdescription"] != "tag" {
		t.Fatalf("body = %v", body)
	}
}

func TestSetDryRunDoesNotSave(t *testing.T) {
	fake, cfg := setup(t)
	out, err := run(t, "--config", cfg, "set", "--dry-run", "blogdescription=Fresh")
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if !strings.Contains(out, "blogdescription = Fresh") {
		t.Fatalf("output = %q", out)
	}
	if len(fake.posts) != 0 {
		t.Fatal("dry run must not save")
	}
}

func TestSetUnchangedValueIsNoop(t *testing.T) {
	fake, cfg := setup(t)
	out, err := run(t, "--config", cfg, "set", "blogname=Old")
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if !strings.Contains(out, "Nothing to save.") || len(fake.posts) != 0 {
		t.Fatalf("output = %q posts = %d", out, len(fake.posts))
	}
}

func TestSetSameBoolSpelledDifferentlyIsNoop(t *testing.T) {
	fake, cfg := setup(t)
	out, err := run(t, "--config", cfg, "set", "amp_is_enabled=1", "blog_public=1")
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if !strings.Contains(out, "Nothing to save.") || len(fake.posts) != 0 {
		t.Fatalf("output = %q posts = %d", out, len(fake.posts))
	}
}

func TestSetRejectsReadOnlyAndUnknown(t *testing.T) {
	_, cfg := setup(t)
	if _, err := run(t, "--config", cfg, "set", "admin_url=https://x"); err == nil {
		t.Fatal("expected error for a field the site does not show")
	}
	if _, err := run(t, "--config", cfg, "set", "nope=1"); err == nil {
		t.Fatal("expected error for an unknown field")
	}
}

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments([]string{"blogname=A=B", "blog_public=0"})
	if err != nil {
		t.Fatal(err)
	}
	if got[0].key != "blogname" || got[0].value != "A=B" || got[1].value != "0" {
		t.Fatalf("got %+v", got)
	}
	if _, err := parseAssignments([]string{"novalue"}); err == nil {
		t.Fatal("expected error")
	}
	if _, err := parseAssignments([]string{"=x"}); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestSchemaAndVersion(t *testing.T) {
	_, cfg := setup(t)
	out, err := run(t, "--config", cfg, "schema")
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	if !strings.Contains(out, `"blogname"`) {
		t.Fatalf("schema output missing blogname:\n%s", out)
	}

	SetVersion("v1.2.3")
	t.Cleanup(func() { SetVersion("dev") })
	out, err = run(t, "--config", cfg, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if strings.TrimSpace(out) != "perch v1.2.3" {
		t.Fatalf("version = %q", out)
	}
}

func TestSetupLoggingRejectsBadLevel(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	if _, err := setupLogging("-", "loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
	closeFn, err := setupLogging(filepath.Join(t.TempDir(), "nested", "perch.log"), "debug")
	if err != nil {
		t.Fatalf("setupLogging: %v", err)
	}
	closeFn()
}

func TestDropEmpty(t *testing.T) {
	if a := dropEmpty(nil, slog.String("k", "")); !a.Equal(slog.Attr{}) {
		t.Fatal("empty string should be dropped")
	}
	if a := dropEmpty(nil, slog.Int("n", 0)); a.Key != "n" {
		t.Fatal("zero ints are kept")
	}
}

func TestLogsFiltersByLevel(t *testing.T) {
	_, cfg := setup(t)
	logPath := filepath.Join(filepath.Dir(cfg), "perch.log")

	// any command logs through the configured file; add known lines after it
	if _, err := run(t, "--config", cfg, "version"); err != nil {
		t.Fatal(err)
	}
	content := "12:00:00.000 INF settings saved\n12:00:01.000 WRN poll failed error=timeout\n"
	if err := os.WriteFile(logPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "--config", cfg, "logs", "--level", "warn")
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if strings.Contains(out, "settings saved") || !strings.Contains(out, "poll failed") {
		t.Fatalf("logs output = %q", out)
	}
}
