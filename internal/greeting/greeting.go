// Package greeting runs the program body: place a greeting in a freshly acquired buffer,
// print it and release the buffer.
package greeting

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/javi11/greetbuf/internal/buffer"
	bufErrors "github.com/javi11/greetbuf/internal/errors"
	"github.com/javi11/greetbuf/internal/slogutil"
)

const (
	// Message is the greeting written when Options.Text is empty.
	Message = "Hello, World!"
	// AllocationFailedMessage is written instead of the greeting when no buffer could be acquired.
	AllocationFailedMessage = "Memory allocation failed"
)

// Exit codes returned by Run.
const (
	ExitOK                = 0
	ExitAllocationFailure = 1
	ExitContractViolation = 2
)

// Options configures a run. Zero values select the default allocator,
// Message, and a capacity derived from the text.
type Options struct {
	Allocator buffer.Allocator
	Text      string
	Capacity  int
}

// Result is everything a run produces: what goes to standard output and the process exit code.
type Result struct {
	Output   string
	ExitCode int
}

// Run executes the program without touching the process and returns its output and exit code.
func Run(ctx context.Context, opts Options) Result {
	var out bytes.Buffer
	code := Write(ctx, &out, opts)

	return Result{
		Output:   out.String(),
		ExitCode: code,
	}
}

// Write executes the program with w as standard output and returns the exit code.
func Write(ctx context.Context, w io.Writer, opts Options) int {
	text := opts.Text
	if text == "" {
		text = Message
	}

	capacity := opts.Capacity
	if capacity <= 0 {
		capacity = buffer.CapacityFor(text)
	}

	ctx = slogutil.With(ctx, "capacity", capacity)
	logger := slog.Default().With("component", "greeting")

	alloc := opts.Allocator
	if alloc == nil {
		heap := buffer.NewHeapAllocator()
		defer func() {
			if err := heap.Close(); err != nil {
				logger.ErrorContext(ctx, "Failed to close allocator", "error", err)
			}
		}()
		alloc = heap
	}

	err := buffer.With(ctx, alloc, capacity, func(b *buffer.Buffer) error {
		if err := b.Populate(text); err != nil {
			return err
		}

		return b.Emit(w)
	})

	switch {
	case err == nil:
		return ExitOK
	case bufErrors.IsAllocationFailure(err):
		logger.InfoContext(ctx, "Could not acquire greeting buffer", "error", err)
		fmt.Fprintln(w, AllocationFailedMessage)
		return ExitAllocationFailure
	default:
		logger.ErrorContext(ctx, "Greeting aborted", "error", err)
		return ExitContractViolation
	}
}
