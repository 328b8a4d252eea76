// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/0xbrayo/whatdidyougetdone/internal/config"
)

// mustToken resolves the GitHub credential or exits with guidance. The
// credential is the one fatal startup requirement.
func mustToken() string {
	token, err := config.Token()
	if err != nil {
		if errors.Is(err, config.ErrNoToken) {
			fmt.Fprintln(os.Stderr, config.TokenGuidance())
		} else {
			fmt.Fprintf(os.Stderr, "Failed to resolve GitHub token: %v\n", err)
		}
		os.Exit(1)
	}
	return token
}

// defaultReportPath derives the output path from the report name and the
// current date: reports/<name>-<YYYY-MM-DD>.md.
func defaultReportPath(name string) string {
	filename := fmt.Sprintf("%s-%s.md", name, time.Now().Format("2006-01-02"))
	return filepath.Join(viper.GetString("reports_dir"), filename)
}

// writeReport writes the fully rendered report in one shot, creating the
// target directory if needed. Nothing is written until rendering succeeded,
// so a failed run never leaves a partial file.
func writeReport(path, text string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// offerPreview asks to open the report in a browser. Skipped entirely when
// stdin is not a terminal (pipes, CI).
func offerPreview(path string) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return
	}
	fmt.Print("Open in browser? [y/N] ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return
	}
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "y") {
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if err := browser.OpenFile(abs); err != nil {
		logger.Debugf("failed to open browser: %v", err)
	}
}
