package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	calls []string
	args  []string
}

func (f *fakeExec) record(name, arg string) {
	f.calls = append(f.calls, name)
	f.args = append(f.args, arg)
}

func (f *fakeExec) Capture(ctx context.Context, path string) error {
	f.record("capture", path)
	return nil
}
func (f *fakeExec) List(ctx context.Context) error  { f.record("list", ""); return nil }
func (f *fakeExec) Seals(ctx context.Context) error { f.record("seals", ""); return nil }
func (f *fakeExec) Status(ctx context.Context) error {
	f.record("status", "")
	return nil
}
func (f *fakeExec) Sync(ctx context.Context, id string) error {
	f.record("sync", id)
	return nil
}
func (f *fakeExec) Retry(ctx context.Context, id string) error {
	f.record("retry", id)
	return nil
}
func (f *fakeExec) Delete(ctx context.Context, id string) error {
	f.record("delete", id)
	return nil
}
func (f *fakeExec) Clear(ctx context.Context) error  { f.record("clear", ""); return nil }
func (f *fakeExec) Login(ctx context.Context) error  { f.record("login", ""); return nil }
func (f *fakeExec) Logout(ctx context.Context) error { f.record("logout", ""); return nil }
func (f *fakeExec) Pause()                           { f.record("pause", "") }
func (f *fakeExec) Resume()                          { f.record("resume", "") }

func TestRunREPL_CommandsAndArgs(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader(strings.Join([]string{
		"help",
		"capture /tmp/a.jpg",
		"list",
		"seals",
		"status",
		"sync",
		"sync abc",
		"retry abc",
		"delete abc",
		"clear",
		"foobar",
		"exit",
	}, "\n"))

	exec := &fakeExec{}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	want := []string{"capture", "list", "seals", "status", "sync", "sync", "retry", "delete", "clear"}
	if len(exec.calls) != len(want) {
		t.Fatalf("calls mismatch: got %v, want %v", exec.calls, want)
	}
	for i := range want {
		if exec.calls[i] != want[i] {
			t.Fatalf("call %d: got %q, want %q", i, exec.calls[i], want[i])
		}
	}
	if exec.args[0] != "/tmp/a.jpg" {
		t.Fatalf("capture arg: got %q", exec.args[0])
	}
	if exec.args[4] != "" || exec.args[5] != "abc" {
		t.Fatalf("sync args: got %q, %q", exec.args[4], exec.args[5])
	}
}

func TestRunREPL_UsageAndQuit(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader("capture\nretry\ndelete\nquit\n")
	exec := &fakeExec{}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}
