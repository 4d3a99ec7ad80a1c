// Package export runs one complete address-book export: list the
// collection, truncate the output file and append every fetched vCard.
package export

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cyp0633/libcarddav/davclient"
	"github.com/google/uuid"
)

// ErrSink is returned when the output file cannot be created or opened.
// It is the only condition that stops a run before any contact is fetched.
var ErrSink = errors.New("failed to create output file")

type Options struct {
	OutputPath string
	Logger     *slog.Logger
}

// Summary describes a finished run.
type Summary struct {
	RunID      string
	Path       string
	Discovered int
	Success    int
	Failure    int
	Failed     []string
	// ListErr is set when the collection could not be listed; the run still
	// completes with an empty output file.
	ListErr  error
	Duration time.Duration
}

// Run lists the collection served by client and writes every member's
// payload to opts.OutputPath, replacing whatever the file held before.
// The file is closed on every return path.
func Run(ctx context.Context, client davclient.DAVClient, opts Options) (summary Summary, err error) {
	start := time.Now()
	summary = Summary{RunID: uuid.NewString(), Path: opts.OutputPath}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger = logger.With("run_id", summary.RunID)

	defer func() {
		summary.Duration = time.Since(start)
	}()

	refs, listErr := client.ListResources(ctx)
	if listErr != nil {
		summary.ListErr = listErr
	}
	summary.Discovered = len(refs)
	logger.Info("found contacts", "count", len(refs), "collection", client.Endpoint().CollectionURL())

	if dir := filepath.Dir(opts.OutputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return summary, fmt.Errorf("%w: %w", ErrSink, err)
		}
	}

	f, err := os.OpenFile(opts.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return summary, fmt.Errorf("%w: %w", ErrSink, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", opts.OutputPath, cerr)
		}
	}()

	w := bufio.NewWriter(f)
	res, err := client.FetchAll(ctx, refs, w)
	summary.Success = res.Success
	summary.Failure = res.Failure
	summary.Failed = res.Failed
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = fmt.Errorf("%w: %w", davclient.ErrSinkWrite, ferr)
	}
	if err != nil {
		logger.Error("export aborted", "error", err, "saved", res.Success)
		return summary, err
	}

	logger.Info("all contacts saved",
		"path", opts.OutputPath,
		"saved", res.Success,
		"failed", res.Failure)
	return summary, nil
}
