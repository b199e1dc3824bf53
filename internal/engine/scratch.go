// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/tutorun/tutorun/pkg/tutorialfile"
)

// Scratch prepares the directory a tutorial runs in: a fresh temporary
// directory, a clean git export of the surrounding work tree, or simply
// the current directory when neither is configured.
type Scratch struct {
	Logger *log.Logger
}

// ScratchSpace is the prepared run directory. Close removes it again when
// it was created by Enter.
type ScratchSpace struct {
	// Dir is the directory commands run in.
	Dir string

	owned  bool
	logger *log.Logger
}

// Enter prepares the run directory per the tutorial configuration and
// publishes it to the run context as cwd (and scratch_dir when one was
// created).
func (s *Scratch) Enter(ctx context.Context, tut *tutorialfile.Tutorial, runCtx *Context) (*ScratchSpace, error) {
	cfg := tut.Configuration

	switch {
	case cfg.TemporaryDirectory:
		dir, err := os.MkdirTemp("", "tutorun-")
		if err != nil {
			return nil, err
		}
		s.Logger.Debug("created temporary directory", "dir", dir)
		runCtx.SetCwd(dir)
		runCtx.Values["scratch_dir"] = dir
		return &ScratchSpace{Dir: dir, owned: true, logger: s.Logger}, nil

	case cfg.GitExport:
		dir, err := s.gitExport(ctx, tut.Root, cfg.GitRef)
		if err != nil {
			return nil, err
		}
		runCtx.SetCwd(dir)
		runCtx.Values["scratch_dir"] = dir
		return &ScratchSpace{Dir: dir, owned: true, logger: s.Logger}, nil

	default:
		dir, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		runCtx.SetCwd(dir)
		return &ScratchSpace{Dir: dir, logger: s.Logger}, nil
	}
}

// gitExport writes a clean export of ref into a fresh directory by piping
// git archive into tar. The work tree's uncommitted changes never leak into
// the run.
func (s *Scratch) gitExport(ctx context.Context, repoDir, ref string) (string, error) {
	dest := filepath.Join(os.TempDir(), fmt.Sprintf("git-export-%s-%s", sanitizeRef(ref), randomSuffix(12)))
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return "", err
	}

	archive := exec.CommandContext(ctx, "git", "archive", ref)
	archive.Dir = repoDir
	extract := exec.CommandContext(ctx, "tar", "-x", "-C", dest)

	pipe, err := archive.StdoutPipe()
	if err != nil {
		return "", err
	}
	extract.Stdin = pipe
	archive.Stderr = os.Stderr
	extract.Stderr = os.Stderr

	if err := extract.Start(); err != nil {
		return "", err
	}
	if err := archive.Start(); err != nil {
		return "", err
	}
	if err := archive.Wait(); err != nil {
		return "", &GitExportError{Ref: ref, Err: fmt.Errorf("git archive: %w", err)}
	}
	if err := extract.Wait(); err != nil {
		return "", &GitExportError{Ref: ref, Err: fmt.Errorf("tar extract: %w", err)}
	}

	s.Logger.Debug("exported git work tree", "ref", ref, "dir", dest)
	return dest, nil
}

// Close removes the scratch directory if Enter created one.
func (sp *ScratchSpace) Close() error {
	if !sp.owned {
		return nil
	}
	sp.logger.Debug("removing scratch directory", "dir", sp.Dir)
	return os.RemoveAll(sp.Dir)
}

// sanitizeRef makes a git ref safe for use in a directory name.
func sanitizeRef(ref string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		default:
			return '_'
		}
	}, ref)
}

func randomSuffix(n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[rand.IntN(len(letters))]
	}
	return string(b)
}
