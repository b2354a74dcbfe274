package out

import (
	"context"
	"errors"
	"testing"

	apperrors "rsoc/internal/platform/errors"
)

func TestDeadSurfaceReportsFailedLoad(t *testing.T) {
	t.Parallel()
	s := newDeadSurface()
	var got error
	called := false
	s.OnLoad(func(err error) {
		called = true
		got = err
	})
	s.Load("https://offers.example.com/entry")
	if !called || !errors.Is(got, apperrors.ErrLoadFailed) {
		t.Fatalf("dead surface load must report ErrLoadFailed, err = %v", got)
	}

	var evalErr error
	s.Evaluate("document.title", func(_ string, err error) { evalErr = err })
	if !errors.Is(evalErr, apperrors.ErrSurfaceDiscarded) {
		t.Fatalf("dead surface evaluate err = %v, want ErrSurfaceDiscarded", evalErr)
	}
}

func TestClassifyLoadError(t *testing.T) {
	t.Parallel()
	if err := classifyLoadError(context.DeadlineExceeded); !errors.Is(err, apperrors.ErrLoadTimeout) {
		t.Fatalf("deadline must map to ErrLoadTimeout, got %v", err)
	}
	if err := classifyLoadError(errors.New("connection refused")); !errors.Is(err, apperrors.ErrLoadFailed) {
		t.Fatalf("transport failure must map to ErrLoadFailed, got %v", err)
	}
}
