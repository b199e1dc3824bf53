// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/tutorun/tutorun/pkg/tutorialfile"
)

// CleanupStack collects cleanup commands as their parent commands run and
// drains them in reverse registration order when the run ends. Blocks are
// prepended whole, so the commands within one block keep their declared
// order while later blocks run before earlier ones.
type CleanupStack struct {
	Exec   *Executor
	Logger *log.Logger

	entries []cleanupEntry
}

type cleanupEntry struct {
	cmd tutorialfile.Command
	dir string
}

// Register pushes a cleanup block onto the stack. The working directory is
// captured at registration time; the template context is resolved at drain
// time.
func (s *CleanupStack) Register(block []tutorialfile.Command, dir string) {
	if len(block) == 0 {
		return
	}
	entries := make([]cleanupEntry, 0, len(block)+len(s.entries))
	for _, cmd := range block {
		entries = append(entries, cleanupEntry{cmd: cmd, dir: dir})
	}
	s.entries = append(entries, s.entries...)
}

// Len returns the number of pending cleanup commands.
func (s *CleanupStack) Len() int { return len(s.entries) }

// Drain runs every pending cleanup command. Failures are logged and do not
// stop the drain; cleanup is best effort.
func (s *CleanupStack) Drain(ctx context.Context, runCtx *Context) {
	if len(s.entries) == 0 {
		return
	}
	s.Logger.Info("Running cleanup commands.")

	for _, entry := range s.entries {
		res, err := s.Exec.Execute(ctx, &entry.cmd, runCtx, entry.dir)
		if err != nil {
			s.Logger.Error("cleanup command failed", "err", err)
			continue
		}
		if err := s.Exec.CheckStatus(res, &entry.cmd); err != nil {
			s.Logger.Error("cleanup command failed", "err", err)
		}
	}
	s.entries = nil
}
