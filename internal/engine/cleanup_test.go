// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/tutorun/tutorun/pkg/tutorialfile"
)

func newTestStack(t *testing.T) *CleanupStack {
	t.Helper()
	return &CleanupStack{
		Exec:   &Executor{Stdout: io.Discard, Stderr: io.Discard, Root: t.TempDir()},
		Logger: log.New(io.Discard),
	}
}

func appendCmd(line string) tutorialfile.Command {
	return tutorialfile.Command{Shell: "echo " + line + " >> order.txt"}
}

func TestCleanupStack_BlockOrder(t *testing.T) {
	stack := newTestStack(t)
	dir := t.TempDir()
	runCtx := &Context{Values: map[string]any{}}

	// cmd1 registers [clean1, clean2], cmd2 registers [clean3]: blocks
	// unwind in reverse, commands within a block keep their order
	stack.Register([]tutorialfile.Command{appendCmd("clean1"), appendCmd("clean2")}, dir)
	stack.Register([]tutorialfile.Command{appendCmd("clean3")}, dir)

	if stack.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", stack.Len())
	}
	stack.Drain(context.Background(), runCtx)

	data, err := os.ReadFile(filepath.Join(dir, "order.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), "clean3\nclean1\nclean2\n"; got != want {
		t.Errorf("order = %q, want %q", got, want)
	}
	if stack.Len() != 0 {
		t.Errorf("Len() after drain = %d, want 0", stack.Len())
	}
}

func TestCleanupStack_FailuresDoNotStopDrain(t *testing.T) {
	stack := newTestStack(t)
	dir := t.TempDir()
	runCtx := &Context{Values: map[string]any{}}

	stack.Register([]tutorialfile.Command{appendCmd("first")}, dir)
	stack.Register([]tutorialfile.Command{{Shell: "exit 1"}}, dir)
	stack.Register([]tutorialfile.Command{appendCmd("last")}, dir)

	stack.Drain(context.Background(), runCtx)

	data, err := os.ReadFile(filepath.Join(dir, "order.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), "last\nfirst\n"; got != want {
		t.Errorf("order = %q, want %q", got, want)
	}
}

func TestCleanupStack_EmptyDrainIsSilent(t *testing.T) {
	stack := newTestStack(t)
	// must not log "Running cleanup commands." nor touch anything
	stack.Drain(context.Background(), &Context{Values: map[string]any{}})
}

func TestCleanupStack_RendersAtDrainTime(t *testing.T) {
	stack := newTestStack(t)
	dir := t.TempDir()
	runCtx := &Context{Values: map[string]any{"target": "before"}}

	stack.Register([]tutorialfile.Command{{Shell: "echo {{ .target }} >> order.txt"}}, dir)
	runCtx.Values["target"] = "after"

	stack.Drain(context.Background(), runCtx)

	data, err := os.ReadFile(filepath.Join(dir, "order.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), "after\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}
