// Package execute runs the external downloader.
package execute

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"postgrab/internal/command/builder"
	"postgrab/internal/domain/consts"
	"postgrab/internal/domain/logger"
	"postgrab/internal/models"
	"postgrab/internal/utils/browser"
)

// Executor downloads one source URL.
type Executor interface {
	Fetch(ctx context.Context, sourceURL string) models.ProcessResult
}

// CommandExecutor runs the configured downloader as a subprocess.
type CommandExecutor struct {
	Opts builder.FetchOptions

	// Cookies, if set, exports browser cookies for the URL's domain before
	// each fetch unless Opts already names a cookie file.
	Cookies *browser.CookieExporter
}

// NewCommandExecutor returns a CommandExecutor using o.
func NewCommandExecutor(o builder.FetchOptions) *CommandExecutor {
	return &CommandExecutor{Opts: o}
}

// Fetch runs the downloader for sourceURL and waits for it to exit.
//
// Output lines are logged as they arrive and also captured in the result.
// Result.Err is set on launch failure or non-zero exit.
func (e *CommandExecutor) Fetch(ctx context.Context, sourceURL string) models.ProcessResult {
	tool := e.Opts.Tool
	if tool == "" {
		tool = consts.DefaultDownloader
	}

	opts := e.Opts
	if e.Cookies != nil && opts.CookieFile == "" {
		p, err := e.Cookies.Export(ctx, sourceURL)
		if err != nil {
			logger.Pl.W("Proceeding without cookies for %q: %v", sourceURL, err)
		}
		opts.CookieFile = p
	}

	cmd, err := builder.FetchCommand(ctx, sourceURL, opts)
	if err != nil {
		return models.ProcessResult{Err: err}
	}

	// Create pipes for stdout and stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return models.ProcessResult{Err: fmt.Errorf("failed to create stdout pipe: %w", err)}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return models.ProcessResult{Err: fmt.Errorf("failed to create stderr pipe: %w", err)}
	}

	logger.Pl.I("Executing download command: %s", cmd.String())
	if err := cmd.Start(); err != nil {
		return models.ProcessResult{Err: fmt.Errorf("failed to start %s: %w", tool, err)}
	}

	var (
		wg             sync.WaitGroup
		outBuf, errBuf bytes.Buffer
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		pipeLines(stdout, &outBuf, func(line string) {
			logger.Pl.P("%s output: %s", tool, line)
		})
	}()
	go func() {
		defer wg.Done()
		pipeLines(stderr, &errBuf, func(line string) {
			logger.Pl.P("%s: %s", tool, line)
		})
	}()

	// Pipes must be drained before Wait closes them
	wg.Wait()
	waitErr := cmd.Wait()

	res := models.ProcessResult{
		Stdout: outBuf.String(),
		Stderr: errBuf.String(),
	}
	if waitErr != nil {
		res.Err = fmt.Errorf("%s exited with error: %w", tool, waitErr)
	}

	if lines := FilterStatusLines(res.Stderr); len(lines) > 0 {
		logger.Pl.W("%s error output: %s", tool, strings.Join(lines, "\n"))
	}
	return res
}

// FilterStatusLines drops progress/status lines (those containing '[') and blank
// lines from downloader stderr output.
func FilterStatusLines(stderr string) []string {
	var out []string
	for _, line := range splitLines(stderr) {
		if strings.TrimSpace(line) == "" || strings.Contains(line, consts.StatusLineMarker) {
			continue
		}
		out = append(out, line)
	}
	return out
}

// pipeLines copies r into buf, calling emit for each line.
func pipeLines(r io.Reader, buf *bytes.Buffer, emit func(string)) {
	scanner := bufio.NewScanner(io.TeeReader(r, buf))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(scanLinesCR)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			emit(line)
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Pl.E("Scanner error: %v", err)
		// Keep the capture complete so the process never blocks on a full pipe.
		_, _ = io.Copy(buf, r)
	}
}

// scanLinesCR is bufio.ScanLines that also breaks on a lone '\r',
// which progress bars use to redraw in place.
func scanLinesCR(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		j := i + 1
		if data[i] == '\r' && j < len(data) && data[j] == '\n' {
			j++
		}
		return j, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

func splitLines(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == '\n' || r == '\r' })
}
