// Package minter runs the external minting executable and interprets its output.
package minter

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog"

	"aria/internal/config"
	"aria/internal/domain"
)

// waitDelay bounds how long Wait blocks on pipes held open by a killed child's descendants.
const waitDelay = 5 * time.Second

// Invoker implements port.Minter by running <command> [args...] <recipient> <contentID>.
type Invoker struct {
	command string
	args    []string
	workDir string
	env     []string
	log     zerolog.Logger
}

// NewInvoker creates an Invoker from the mint config.
func NewInvoker(cfg *config.MintConfig, log zerolog.Logger) *Invoker {
	return &Invoker{
		command: cfg.Command,
		args:    append([]string(nil), cfg.Args...),
		workDir: cfg.WorkDir,
		env:     append([]string(nil), cfg.Env...),
		log:     log.With().Str("component", "minter").Logger(),
	}
}

func (i *Invoker) Mint(ctx context.Context, recipient, contentID string) (*domain.MintResult, error) {
	args := make([]string, 0, len(i.args)+2)
	args = append(args, i.args...)
	args = append(args, recipient, contentID)

	cmd := exec.CommandContext(ctx, i.command, args...)
	cmd.Env = append(os.Environ(), i.env...)
	cmd.Dir = i.workDir
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	i.log.Info().Str("recipient", recipient).Str("content_id", contentID).Msg("executing minting script")
	start := time.Now()
	runErr := cmd.Run()

	exitCode := 0
	if runErr != nil {
		if ctx.Err() != nil {
			return nil, &domain.MintInvocationError{ExitCode: -1, Detail: ctx.Err().Error(), Err: ctx.Err()}
		}
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return nil, &domain.MintInvocationError{ExitCode: -1, Detail: runErr.Error(), Err: runErr}
		}
		exitCode = exitErr.ExitCode()
	}

	i.log.Debug().
		Int("exit_code", exitCode).
		Dur("elapsed", time.Since(start)).
		Str("stdout", stdout.String()).
		Str("stderr", stderr.String()).
		Msg("minting script finished")

	return ParseOutput(exitCode, stdout.String(), stderr.String())
}
