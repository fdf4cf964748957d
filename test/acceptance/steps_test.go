//go:build acceptance

package acceptance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
)

const commandTimeout = 30 * time.Second

// quoted matches a double-quoted step argument with Go escapes (\n, \t, \").
const quoted = `"((?:[^"\\]|\\.)*)"`

type scenarioCtxKey struct{}

type scenarioCtx struct {
	dir      string
	stdout   string
	stderr   string
	exitCode int
}

func scFrom(ctx context.Context) *scenarioCtx {
	return ctx.Value(scenarioCtxKey{}).(*scenarioCtx)
}

func scTo(ctx context.Context, sc *scenarioCtx) context.Context {
	return context.WithValue(ctx, scenarioCtxKey{}, sc)
}

func unescape(s string) (string, error) {
	return strconv.Unquote(`"` + s + `"`)
}

// ---------------------------------------------------------------------------
// GIVEN steps
// ---------------------------------------------------------------------------

func aTemporaryWorkingDirectory(ctx context.Context) (context.Context, error) {
	sc := scFrom(ctx)
	dir, err := os.MkdirTemp("", "yaota-scenario-*")
	if err != nil {
		return ctx, err
	}
	sc.dir = dir
	return ctx, nil
}

func aFileContaining(ctx context.Context, name, content string) (context.Context, error) {
	text, err := unescape(content)
	if err != nil {
		return ctx, fmt.Errorf("bad escape in %q: %w", content, err)
	}
	return ctx, writeScenarioFile(scFrom(ctx), name, text)
}

func aFileWithContent(ctx context.Context, name string, content *godog.DocString) (context.Context, error) {
	return ctx, writeScenarioFile(scFrom(ctx), name, content.Content+"\n")
}

func aDirectory(ctx context.Context, name string) (context.Context, error) {
	return ctx, os.MkdirAll(filepath.Join(scFrom(ctx).dir, name), 0o755)
}

func writeScenarioFile(sc *scenarioCtx, name, content string) error {
	return os.WriteFile(filepath.Join(sc.dir, name), []byte(content), 0o644)
}

// ---------------------------------------------------------------------------
// WHEN steps
// ---------------------------------------------------------------------------

func iRun(ctx context.Context, command string) (context.Context, error) {
	sc := scFrom(ctx)
	stdout, stderr, code, err := runBinary(sc.dir, commandTimeout, parseCommand(command)...)
	if err != nil {
		return ctx, fmt.Errorf("running %q: %w", command, err)
	}
	sc.stdout, sc.stderr, sc.exitCode = stdout, stderr, code
	return ctx, nil
}

// ---------------------------------------------------------------------------
// THEN steps
// ---------------------------------------------------------------------------

func theExitCodeShouldBe(ctx context.Context, want int) error {
	sc := scFrom(ctx)
	if sc.exitCode != want {
		return fmt.Errorf("exit code = %d, want %d\nstdout: %s\nstderr: %s", sc.exitCode, want, sc.stdout, sc.stderr)
	}
	return nil
}

func theExitCodeShouldNotBeZero(ctx context.Context) error {
	sc := scFrom(ctx)
	if sc.exitCode == 0 {
		return fmt.Errorf("exit code = 0, want non-zero\nstdout: %s", sc.stdout)
	}
	return nil
}

func stdoutShouldBe(ctx context.Context, want string) error {
	text, err := unescape(want)
	if err != nil {
		return err
	}
	if got := scFrom(ctx).stdout; got != text {
		return fmt.Errorf("stdout = %q, want %q", got, text)
	}
	return nil
}

func streamShouldBeEmpty(ctx context.Context, stream string) error {
	sc := scFrom(ctx)
	got := sc.stdout
	if stream == "stderr" {
		got = sc.stderr
	}
	if got != "" {
		return fmt.Errorf("%s = %q, want empty", stream, got)
	}
	return nil
}

func streamShouldContain(ctx context.Context, stream, want string) error {
	want, err := unescape(want)
	if err != nil {
		return err
	}
	sc := scFrom(ctx)
	got := sc.stdout
	if stream == "stderr" {
		got = sc.stderr
	}
	if !strings.Contains(got, want) {
		return fmt.Errorf("%s does not contain %q:\n%s", stream, want, got)
	}
	return nil
}

func theFileShouldContainExactly(ctx context.Context, name string, want *godog.DocString) error {
	data, err := os.ReadFile(filepath.Join(scFrom(ctx).dir, name))
	if err != nil {
		return err
	}
	if got, wantText := string(data), want.Content+"\n"; got != wantText {
		return fmt.Errorf("%s content = %q, want %q", name, got, wantText)
	}
	return nil
}

func theFileShouldNotExist(ctx context.Context, name string) error {
	_, err := os.Stat(filepath.Join(scFrom(ctx).dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("%s exists (stat error: %v)", name, err)
}

func theManifestShouldHaveExactlyTheKeys(ctx context.Context, name, key1, key2 string) error {
	fields, err := readManifest(scFrom(ctx), name)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	want := []string{key1, key2}
	sort.Strings(want)
	if strings.Join(keys, ",") != strings.Join(want, ",") {
		return fmt.Errorf("%s keys = %v, want %v", name, keys, want)
	}
	return nil
}

func theManifestFieldShouldBe(ctx context.Context, field, name, want string) error {
	text, err := unescape(want)
	if err != nil {
		return err
	}
	fields, err := readManifest(scFrom(ctx), name)
	if err != nil {
		return err
	}
	if got := fields[field]; got != text {
		return fmt.Errorf("%s %s = %q, want %q", name, field, got, text)
	}
	return nil
}

func readManifest(sc *scenarioCtx, name string) (map[string]string, error) {
	data, err := os.ReadFile(filepath.Join(sc.dir, name))
	if err != nil {
		return nil, err
	}
	var fields map[string]string
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%s is not a JSON object of strings: %w", name, err)
	}
	return fields, nil
}

// ---------------------------------------------------------------------------
// Registration
// ---------------------------------------------------------------------------

func InitializeScenario(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return scTo(ctx, &scenarioCtx{}), nil
	})

	sc.After(func(ctx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
		if tc := scFrom(ctx); tc.dir != "" {
			os.RemoveAll(tc.dir)
		}
		return ctx, nil
	})

	// ── GIVEN ──
	sc.Given(`^a temporary working directory$`, aTemporaryWorkingDirectory)
	sc.Given(`^a file "([^"]*)" containing `+quoted+`$`, aFileContaining)
	sc.Given(`^a file "([^"]*)" with content:$`, aFileWithContent)
	sc.Given(`^a directory "([^"]*)"$`, aDirectory)

	// ── WHEN ──
	sc.When(`^I run "([^"]*)"$`, iRun)

	// ── THEN ──
	sc.Then(`^the exit code should be (\d+)$`, theExitCodeShouldBe)
	sc.Then(`^the exit code should not be 0$`, theExitCodeShouldNotBeZero)
	sc.Then(`^stdout should be `+quoted+`$`, stdoutShouldBe)
	sc.Then(`^(stdout|stderr) should be empty$`, streamShouldBeEmpty)
	sc.Then(`^(stdout|stderr) should contain `+quoted+`$`, streamShouldContain)
	sc.Then(`^the file "([^"]*)" should contain exactly:$`, theFileShouldContainExactly)
	sc.Then(`^the file "([^"]*)" should not exist$`, theFileShouldNotExist)
	sc.Then(`^the manifest "([^"]*)" should have exactly the keys "([^"]*)" and "([^"]*)"$`, theManifestShouldHaveExactlyTheKeys)
	sc.Then(`^the field "([^"]*)" of "([^"]*)" should be `+quoted+`$`, theManifestFieldShouldBe)
}

func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		bin, err := findBinary()
		if err != nil {
			panic(fmt.Sprintf("acceptance: %v", err))
		}
		shared.binary = bin
		fmt.Printf("acceptance: using binary %s\n", shared.binary)
	})

	ctx.AfterSuite(func() {
		if shared.buildDir != "" {
			os.RemoveAll(shared.buildDir)
		}
	})
}
