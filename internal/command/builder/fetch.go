// Package builder builds downloader commands.
package builder

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"postgrab/internal/domain/consts"
	"postgrab/internal/domain/logger"
)

// FetchOptions configures the downloader command.
type FetchOptions struct {
	Tool       string
	Args       []string
	CookieFile string
	Dir        string
}

// Argv returns the argument list for sourceURL, the URL always last.
//
// With no extras configured this is just the URL.
func (o FetchOptions) Argv(sourceURL string) []string {
	args := make([]string, 0, len(o.Args)+3)
	args = append(args, o.Args...)
	if o.CookieFile != "" {
		args = append(args, consts.CookieFlag, o.CookieFile)
	}
	return append(args, sourceURL)
}

// FetchCommand builds the command downloading sourceURL into o.Dir.
func FetchCommand(ctx context.Context, sourceURL string, o FetchOptions) (*exec.Cmd, error) {
	if sourceURL == "" {
		return nil, errors.New("url passed in blank")
	}

	tool := o.Tool
	if tool == "" {
		tool = consts.DefaultDownloader
	}
	if _, err := exec.LookPath(tool); err != nil {
		return nil, fmt.Errorf("%s command not found: %w", tool, err)
	}

	args := o.Argv(sourceURL)
	logger.Pl.D(1, "Built argument list: %v", args)

	cmd := exec.CommandContext(ctx, tool, args...)
	cmd.Dir = o.Dir
	return cmd, nil
}
