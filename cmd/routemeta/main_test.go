package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vango-dev/routemeta/internal/config"
	"github.com/vango-dev/routemeta/internal/demo"
	"github.com/vango-dev/routemeta/internal/errors"
	"github.com/vango-dev/routemeta/internal/logging"
	"go.uber.org/fx"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestTreeCommand(t *testing.T) {
	out, err := run(t, "tree", "-c", t.TempDir())
	if err != nil {
		t.Fatalf("tree error = %v", err)
	}

	for _, want := range []string{
		`application (/) title="Ember Enhanced Router"`,
		"route home (/)",
		"route dashboard (dashboard)",
		"resource members (users)",
		"route index (/)",
		"route show (:user_id)",
		"route catchall (/*wildcard)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("tree output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "route index") > strings.Index(out, "route show") {
		t.Errorf("index should be drawn before show:\n%s", out)
	}
}

func TestTreeLog(t *testing.T) {
	out, err := run(t, "tree", "--log", "-c", t.TempDir())
	if err != nil {
		t.Fatalf("tree --log error = %v", err)
	}
	for _, want := range []string{
		`msg="defining resource" name=members path=users`,
		"members.name=show",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestTitlesCommand(t *testing.T) {
	out, err := run(t, "titles", "-c", t.TempDir(), "--param", "user_id=1")
	if err != nil {
		t.Fatalf("titles error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	titles := make(map[string]string)
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		titles[fields[0]] = strings.Join(fields[2:], " ")
	}

	tests := map[string]string{
		"home":          demo.Title,
		"dashboard":     "Dashboard - " + demo.Title,
		"members.index": "All Members - " + demo.Title,
		"members.show":  "User Huafu Gandon - All Members - " + demo.Title,
		"members.new":   "New User",
		"members.edit":  "Edit Profile - All Members - " + demo.Title,
	}
	for name, want := range tests {
		if got := titles[name]; got != want {
			t.Errorf("%s title = %q, want %q", name, got, want)
		}
	}
	if !strings.HasPrefix(lines[0], "ROUTE") {
		t.Errorf("header = %q", lines[0])
	}
}

func TestTitlesUnknownRoute(t *testing.T) {
	_, err := run(t, "titles", "-c", t.TempDir(), "members.missing")
	if errors.Code(err) != "E103" {
		t.Errorf("error code = %q, want E103", errors.Code(err))
	}
}

func TestTitlesBadSet(t *testing.T) {
	_, err := run(t, "titles", "-c", t.TempDir(), "--set", "name=Ann")
	if errors.Code(err) != "E170" {
		t.Errorf("error code = %q, want E170", errors.Code(err))
	}
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "init", "-c", dir)
	if err != nil {
		t.Fatalf("init error = %v", err)
	}
	if !strings.Contains(out, config.ConfigFileName) {
		t.Errorf("init output = %q", out)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Manifest != ManifestFileName {
		t.Errorf("Manifest = %q, want %q", cfg.Manifest, ManifestFileName)
	}

	out, err = run(t, "tree", "-c", dir)
	if err != nil {
		t.Fatalf("tree error = %v", err)
	}
	if !strings.Contains(out, "resource posts (posts)") {
		t.Errorf("tree output missing posts resource:\n%s", out)
	}

	out, err = run(t, "titles", "-c", dir, "--set", "posts.show:title=Hello", "posts.show", "posts.new")
	if err != nil {
		t.Fatalf("titles error = %v", err)
	}
	if !strings.Contains(out, "Hello - Posts - My App") {
		t.Errorf("titles output missing post title:\n%s", out)
	}

	_, err = run(t, "init", "-c", dir)
	if errors.Code(err) != "E140" {
		t.Errorf("second init code = %q, want E140", errors.Code(err))
	}
	if _, err := run(t, "init", "-c", dir, "--force"); err != nil {
		t.Errorf("init --force error = %v", err)
	}
}

func TestParseSets(t *testing.T) {
	got, err := parseSets([]string{"members.show:name=Ann", "members.show:model.name=Ann", "members:x=1"})
	if err != nil {
		t.Fatalf("parseSets() error = %v", err)
	}
	if got["members.show"]["name"] != "Ann" || got["members.show"]["model.name"] != "Ann" {
		t.Errorf("members.show = %v", got["members.show"])
	}
	if got["members"]["x"] != "1" {
		t.Errorf("members = %v", got["members"])
	}
}

func TestAppOptions(t *testing.T) {
	cfg := config.New()
	cfg.Tracing.Enabled = true
	if err := fx.ValidateApp(appOptions(cfg, demo.App(), logging.Discard())); err != nil {
		t.Errorf("ValidateApp() error = %v", err)
	}
}

func TestVersionShort(t *testing.T) {
	out, err := run(t, "version", "--short")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version = %q, want %q", out, version)
	}
}
