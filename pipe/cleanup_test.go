package pipe

import (
	"context"
	"fmt"
	"testing"
)

func TestAddCleanup_CompletedTrueOnFullDrain(t *testing.T) {
	var calls []bool
	src := AddCleanup(FromSlice([]int{1, 2}), func(_ context.Context, completed bool) error {
		calls = append(calls, completed)
		return nil
	})
	got, err := Connect(context.Background(), src, SinkSlice[int]())
	if err != nil {
		t.Fatal(err)
	}
	if fmt.Sprint(got) != "[1 2]" {
		t.Errorf("got %v, want [1 2]", got)
	}
	if fmt.Sprint(calls) != "[true]" {
		t.Errorf("cleanup calls %v, want [true]", calls)
	}
}

func TestAddCleanup_CompletedFalseOnEarlyStop(t *testing.T) {
	var calls []bool
	src := AddCleanup(FromSlice([]int{1, 2, 3}), func(_ context.Context, completed bool) error {
		calls = append(calls, completed)
		return nil
	})
	_, err := Connect(context.Background(), src, sinkTake(1))
	if err != nil {
		t.Fatal(err)
	}
	if fmt.Sprint(calls) != "[false]" {
		t.Errorf("cleanup calls %v, want [false]", calls)
	}
}

func TestBracket_ReleaseOnFullDrain(t *testing.T) {
	var events []string
	src := Bracket(
		func(context.Context) (string, error) {
			events = append(events, "acquire")
			return "res", nil
		},
		func(_ context.Context, r string) error {
			events = append(events, "release "+r)
			return nil
		},
		func(r string) *Source[int] { return FromSlice([]int{1, 2}) },
	)
	got, err := Connect(context.Background(), src, SinkSlice[int]())
	if err != nil {
		t.Fatal(err)
	}
	if fmt.Sprint(got) != "[1 2]" {
		t.Errorf("got %v, want [1 2]", got)
	}
	if fmt.Sprint(events) != "[acquire release res]" {
		t.Errorf("events %v, want [acquire release res]", events)
	}
}

func TestBracket_ReleaseOnEarlyTermination(t *testing.T) {
	released := 0
	src := Bracket(
		func(context.Context) (int, error) { return 0, nil },
		func(context.Context, int) error { released++; return nil },
		func(int) *Source[int] { return FromSlice([]int{1, 2, 3}) },
	)
	_, err := Connect(context.Background(), src, sinkTake(1))
	if err != nil {
		t.Fatal(err)
	}
	if released != 1 {
		t.Errorf("release ran %d times, want 1", released)
	}
}

func TestBracket_ReleaseOnBodyError(t *testing.T) {
	released := 0
	boom := fmt.Errorf("body boom")
	src := Bracket(
		func(context.Context) (int, error) { return 0, nil },
		func(context.Context, int) error { released++; return nil },
		func(int) *Source[int] {
			return Yield(1, func() *Source[int] { return Fail[None, int, None, None](boom) })
		},
	)
	_, err := Connect(context.Background(), src, SinkSlice[int]())
	if err != boom {
		t.Fatalf("got %v, want boom", err)
	}
	if released != 1 {
		t.Errorf("release ran %d times, want 1", released)
	}
}

func TestBracket_ReleaseOnConsumerError(t *testing.T) {
	released := 0
	src := Bracket(
		func(context.Context) (int, error) { return 0, nil },
		func(context.Context, int) error { released++; return nil },
		func(int) *Source[int] { return FromSlice([]int{1, 2, 3}) },
	)
	snk := Await(
		func(v int) *Sink[int, None] { return Fail[int, None, None, None](fmt.Errorf("sink boom")) },
		func(None) *Sink[int, None] { return Done[int, None, None](None{}) },
	)
	_, err := Connect(context.Background(), src, snk)
	if err == nil {
		t.Fatal("expected error")
	}
	if released != 1 {
		t.Errorf("release ran %d times, want 1", released)
	}
}

func TestBracket_AcquireErrorSkipsRelease(t *testing.T) {
	released := 0
	boom := fmt.Errorf("acquire boom")
	src := Bracket(
		func(context.Context) (int, error) { return 0, boom },
		func(context.Context, int) error { released++; return nil },
		func(int) *Source[int] { return FromSlice([]int{1}) },
	)
	_, err := Connect(context.Background(), src, SinkSlice[int]())
	if err != boom {
		t.Fatalf("got %v, want boom", err)
	}
	if released != 0 {
		t.Errorf("release ran %d times, want 0", released)
	}
}
