package ytdlp

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onLine func(string)) error
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onLine func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		once     sync.Once
		scanErr  error
		lastLine string
	)

	scan := func(r io.Reader, keepTail bool) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		// --dump-json emits one very long line.
		scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			mu.Lock()
			if keepTail && strings.TrimSpace(line) != "" {
				lastLine = line
			}
			if onLine != nil {
				onLine(line)
			}
			mu.Unlock()
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() {
				scanErr = err
			})
		}
	}

	wg.Add(2)
	go scan(stdout, false)
	go scan(stderr, true)

	wg.Wait()
	if scanErr != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return fmt.Errorf("scan output: %w", scanErr)
	}
	if err := cmd.Wait(); err != nil {
		if lastLine != "" {
			return fmt.Errorf("wait command: %w: %s", err, strings.TrimSpace(lastLine))
		}
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}
