// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pipeline

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/dustin/go-humanize"
)

// Launcher starts a command and returns without waiting for it to finish.
type Launcher interface {
	Launch(cmd Command) error
}

// ExecLauncher runs commands as child processes. Output goes to the
// command's log file, truncated on start. Completion is only visible
// through that file; the exit status is logged and otherwise dropped.
type ExecLauncher struct{}

func (ExecLauncher) Launch(c Command) error {
	logFile, err := os.Create(c.LogPath)
	if err != nil {
		return fmt.Errorf("create log: %w", err)
	}

	cmd := exec.Command(c.Name, c.Args...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		logFile.Close()
		return fmt.Errorf("start %s: %w", c.Name, err)
	}

	started := time.Now()
	slog.Info("job started", "pid", cmd.Process.Pid, "command", c.String(), "log", c.LogPath)

	// Reap the child so it does not linger as a zombie.
	go func() {
		waitErr := cmd.Wait()
		logFile.Close()

		var size string
		if info, err := os.Stat(c.LogPath); err == nil {
			size = humanize.Bytes(uint64(info.Size()))
		}
		if waitErr != nil {
			slog.Warn("job exited", "command", c.Name, "error", waitErr, "log_size", size, "elapsed", time.Since(started).String())
			return
		}
		slog.Info("job exited", "command", c.Name, "log_size", size, "elapsed", time.Since(started).String())
	}()

	return nil
}
