// Package gitpush commits the composed output back to the repository
// it lives in. It is deliberately thin glue over the git CLI: stage
// the file, commit only when the working tree shows a difference for
// it, and push through a token-authenticated remote derived from the
// repository's origin.
package gitpush

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Options configures one push.
type Options struct {
	// Dir is the repository root. Default: current directory.
	Dir string
	// File is the output file to commit, relative to Dir.
	File string
	// Token authenticates the push. It never appears in logs.
	Token string
	// Message is the commit message. Default: "update collage".
	Message string
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

func (o *Options) defaults() {
	if o.Message == "" {
		o.Message = "update collage"
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Push stages opts.File and, if the index shows a change for it,
// commits and pushes. It reports whether a commit was made. The
// composition output is deterministic, so "no diff" reliably means
// "nothing to publish".
func Push(ctx context.Context, opts Options) (committed bool, err error) {
	opts.defaults()

	if _, err := run(ctx, opts.Dir, "git", "add", "--", opts.File); err != nil {
		return false, err
	}
	// exit status 0: no staged change for the file
	if _, err := run(ctx, opts.Dir, "git", "diff", "--cached", "--quiet", "--", opts.File); err == nil {
		opts.Logger.Info("output unchanged, nothing to commit", "file", opts.File)
		return false, nil
	}
	if _, err := run(ctx, opts.Dir, "git", "commit", "-m", opts.Message, "--", opts.File); err != nil {
		return false, err
	}

	remote, err := pushURL(ctx, opts)
	if err != nil {
		return true, err
	}
	if _, err := run(ctx, opts.Dir, "git", "push", remote, "HEAD"); err != nil {
		// never leak the token through the wrapped command line
		return true, fmt.Errorf("git push: %w", sanitize(err, opts.Token))
	}
	opts.Logger.Info("pushed", "file", opts.File)
	return true, nil
}

// pushURL derives the token-authenticated remote URL from origin.
func pushURL(ctx context.Context, opts Options) (string, error) {
	origin, err := run(ctx, opts.Dir, "git", "config", "--get", "remote.origin.url")
	if err != nil {
		return "", err
	}
	return TokenURL(strings.TrimSpace(origin), opts.Token)
}

// TokenURL rewrites a git remote URL (https or scp-like ssh form) into
// an https URL carrying the access token.
func TokenURL(origin, token string) (string, error) {
	var hostPath string
	switch {
	case strings.HasPrefix(origin, "https://"):
		hostPath = strings.TrimPrefix(origin, "https://")
		if i := strings.IndexByte(hostPath, '@'); i >= 0 {
			hostPath = hostPath[i+1:] // drop existing credentials
		}
	case strings.HasPrefix(origin, "http://"):
		hostPath = strings.TrimPrefix(origin, "http://")
		if i := strings.IndexByte(hostPath, '@'); i >= 0 {
			hostPath = hostPath[i+1:]
		}
	case strings.HasPrefix(origin, "git@"):
		rest := strings.TrimPrefix(origin, "git@")
		host, path, ok := strings.Cut(rest, ":")
		if !ok {
			return "", fmt.Errorf("unrecognized remote url %q", origin)
		}
		hostPath = host + "/" + path
	default:
		return "", fmt.Errorf("unrecognized remote url %q", origin)
	}
	if token == "" {
		return "https://" + hostPath, nil
	}
	return "https://x-access-token:" + token + "@" + hostPath, nil
}

func run(ctx context.Context, dir string, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

func sanitize(err error, token string) error {
	if token == "" {
		return err
	}
	return fmt.Errorf("%s", strings.ReplaceAll(err.Error(), token, "***"))
}
