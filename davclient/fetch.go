package davclient

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/samber/mo"
	"golang.org/x/sync/errgroup"
)

// ErrSinkWrite is returned when the aggregate output cannot be written.
var ErrSinkWrite = errors.New("failed to write aggregate output")

var separator = []byte("\n")

// Result tallies one FetchAll call.
type Result struct {
	Success int
	Failure int
	// Failed lists the refs that could not be fetched, in listing order.
	Failed []string
}

// FetchAll downloads refs and appends every payload, followed by a single
// newline, to sink. A failed download writes nothing and does not stop the
// run; only a write error on sink or a cancelled context does.
func (c *davClient) FetchAll(ctx context.Context, refs []string, sink io.Writer) (Result, error) {
	if c.opts.Concurrency > 1 && len(refs) > 1 {
		return c.fetchConcurrent(ctx, refs, sink)
	}

	var res Result
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		outcome := c.fetchOne(ctx, ref)
		if outcome.IsError() && ctx.Err() != nil {
			return res, ctx.Err()
		}
		if err := c.record(&res, ref, outcome, sink); err != nil {
			return res, err
		}
	}
	return res, nil
}

// fetchConcurrent downloads with a bounded pool. Each ref has its own
// buffered slot and the writer drains the slots in listing order, so a
// payload reaches the sink as soon as every ref before it is settled and the
// sink sees the same bytes as a sequential run, including on cancellation.
func (c *davClient) fetchConcurrent(ctx context.Context, refs []string, sink io.Writer) (Result, error) {
	ctx, cancel := context.WithCancel(ctx)

	slots := make([]chan mo.Result[[]byte], len(refs))
	for i := range slots {
		slots[i] = make(chan mo.Result[[]byte], 1)
	}

	var g errgroup.Group
	g.SetLimit(c.opts.Concurrency)
	launched := make(chan struct{})
	go func() {
		defer close(launched)
		for i, ref := range refs {
			if ctx.Err() != nil {
				return
			}
			i, ref := i, ref
			g.Go(func() error {
				slots[i] <- c.fetchOne(ctx, ref)
				return nil
			})
		}
	}()
	defer func() {
		cancel()
		<-launched
		_ = g.Wait()
	}()

	var res Result
	for i, ref := range refs {
		var outcome mo.Result[[]byte]
		select {
		case outcome = <-slots[i]:
		default:
			select {
			case outcome = <-slots[i]:
			case <-ctx.Done():
				return res, ctx.Err()
			}
		}
		if outcome.IsError() && ctx.Err() != nil {
			return res, ctx.Err()
		}
		if err := c.record(&res, ref, outcome, sink); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (c *davClient) fetchOne(ctx context.Context, ref string) mo.Result[[]byte] {
	data, err := c.httpClient.DoGET(ctx, c.endpoint.ResourceURL(ref))
	if err != nil {
		return mo.Err[[]byte](err)
	}
	if c.opts.Clean {
		data = CleanVCard(data)
	}
	if c.opts.Validate {
		if err := ValidateVCard(data); err != nil {
			return mo.Err[[]byte](err)
		}
	}
	return mo.Ok(data)
}

func (c *davClient) record(res *Result, ref string, outcome mo.Result[[]byte], sink io.Writer) error {
	payload, err := outcome.Get()
	if err != nil {
		res.Failure++
		res.Failed = append(res.Failed, ref)
		c.logger.Warn("failed to fetch contact", "href", ref, "error", err)
		return nil
	}

	if _, err := sink.Write(payload); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSinkWrite, ref, err)
	}
	if _, err := sink.Write(separator); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSinkWrite, ref, err)
	}

	res.Success++
	c.logger.Info("fetched and saved contact", "href", ref, "size", len(payload))
	return nil
}
