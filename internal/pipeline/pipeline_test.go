package pipeline

import (
	"context"
	"errors"
	"slices"
	"testing"
)

// mockRun is a minimal Run for exercising the pipeline itself.
type mockRun struct {
	trace
	seen []string
}

func (r *mockRun) Subject() string { return "mock" }

// mockStep is a test helper that implements the Step interface.
type mockStep struct {
	name      string
	doFunc    func(ctx context.Context, run *mockRun) error
	callCount int
	finishes  bool
}

// Do implements Step.Do.
func (m *mockStep) Do(ctx context.Context, run *mockRun) error {
	m.callCount++
	run.seen = append(run.seen, m.name)
	if m.doFunc != nil {
		return m.doFunc(ctx, run)
	}
	return nil
}

// Name implements Step.Name.
func (m *mockStep) Name() string {
	return m.name
}

// Finishes implements Finisher.
func (m *mockStep) Finishes() bool {
	return m.finishes
}

func TestPipelineNew(t *testing.T) {
	t.Parallel()

	t.Run("creates pipeline with default settings", func(t *testing.T) {
		t.Parallel()

		p := New[*mockRun]()
		if p.StepCount() != 0 {
			t.Errorf("expected 0 steps, got %d", p.StepCount())
		}
		if p.logger == nil {
			t.Error("expected default logger")
		}
		if p.continueOnError {
			t.Error("expected continueOnError to default to false")
		}
	})

	t.Run("applies WithContinueOnError option", func(t *testing.T) {
		t.Parallel()

		p := New[*mockRun](WithContinueOnError(true))
		if !p.continueOnError {
			t.Error("expected continueOnError to be true")
		}
	})
}

func TestPipelineAddStep(t *testing.T) {
	t.Parallel()

	p := New[*mockRun]()
	p.AddStep(&mockStep{name: "step-1"})
	p.AddSteps(&mockStep{name: "step-2"}, &mockStep{name: "step-3"})

	if p.StepCount() != 3 {
		t.Errorf("expected 3 steps, got %d", p.StepCount())
	}
	want := []string{"step-1", "step-2", "step-3"}
	if got := p.StepNames(); !slices.Equal(got, want) {
		t.Errorf("StepNames() = %v, want %v", got, want)
	}
}

func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	errStep := errors.New("step failed")

	t.Run("runs steps in order and records them", func(t *testing.T) {
		t.Parallel()

		p := New[*mockRun]()
		p.AddSteps(&mockStep{name: "a"}, &mockStep{name: "b"}, &mockStep{name: "c"})

		run := &mockRun{}
		if err := p.Execute(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"a", "b", "c"}
		if !slices.Equal(run.seen, want) {
			t.Errorf("order = %v, want %v", run.seen, want)
		}
		if !slices.Equal(run.Performed, want) {
			t.Errorf("Performed = %v, want %v", run.Performed, want)
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		last := &mockStep{name: "c"}
		p := New[*mockRun]()
		p.AddSteps(
			&mockStep{name: "a"},
			&mockStep{name: "b", doFunc: func(context.Context, *mockRun) error { return errStep }},
			last,
		)

		run := &mockRun{}
		err := p.Execute(context.Background(), run)
		if !errors.Is(err, errStep) {
			t.Fatalf("expected errStep, got %v", err)
		}
		if last.callCount != 0 {
			t.Error("expected step after failure to be skipped")
		}
		if !errors.Is(run.Err, errStep) {
			t.Errorf("run.Err = %v, want errStep", run.Err)
		}
		if !slices.Equal(run.Performed, []string{"a"}) {
			t.Errorf("Performed = %v", run.Performed)
		}
	})

	t.Run("continues on error when configured", func(t *testing.T) {
		t.Parallel()

		last := &mockStep{name: "c"}
		p := New[*mockRun](WithContinueOnError(true))
		p.AddSteps(
			&mockStep{name: "a", doFunc: func(context.Context, *mockRun) error { return errStep }},
			last,
		)

		run := &mockRun{}
		if err := p.Execute(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if last.callCount != 1 {
			t.Error("expected the last step to run")
		}
		if !errors.Is(run.Err, errStep) {
			t.Errorf("run.Err = %v, want errStep", run.Err)
		}
	})

	t.Run("cancellation runs only finishers", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		var finisherCtxErr error

		lookup := &mockStep{name: "lookup"}
		render := &mockStep{name: "render", finishes: true, doFunc: func(ctx context.Context, _ *mockRun) error {
			finisherCtxErr = ctx.Err()
			return nil
		}}
		p := New[*mockRun]()
		p.AddSteps(
			&mockStep{name: "dig", doFunc: func(context.Context, *mockRun) error {
				cancel()
				return nil
			}},
			lookup,
			render,
		)

		run := &mockRun{}
		err := p.Execute(ctx, run)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if lookup.callCount != 0 {
			t.Error("expected non-finisher to be skipped after cancel")
		}
		if render.callCount != 1 {
			t.Error("expected finisher to run after cancel")
		}
		if finisherCtxErr != nil {
			t.Errorf("finisher context error = %v, want nil", finisherCtxErr)
		}
		if !slices.Equal(run.Performed, []string{"dig", "render"}) {
			t.Errorf("Performed = %v", run.Performed)
		}
	})

	t.Run("already cancelled context skips everything but finishers", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		first := &mockStep{name: "first"}
		save := &mockStep{name: "save", finishes: true}
		p := New[*mockRun]()
		p.AddSteps(first, save)

		if err := p.Execute(ctx, &mockRun{}); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if first.callCount != 0 || save.callCount != 1 {
			t.Errorf("calls = %d/%d, want 0/1", first.callCount, save.callCount)
		}
	})
}
