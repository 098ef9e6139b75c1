package domain

import (
	"context"
	"errors"
	"testing"
)

func TestFetchError_Is(t *testing.T) {
	err := NewFetchError("cortar", 2, 503, errors.New("Service Unavailable"))

	if !errors.Is(err, ErrFetch) {
		t.Fatal("expected errors.Is(err, ErrFetch)")
	}

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatal("expected errors.As to *FetchError")
	}
	if fe.Strategy != "cortar" || fe.Page != 2 || fe.StatusCode != 503 {
		t.Errorf("unexpected fields: %+v", fe)
	}
}

func TestFetchError_UnwrapsCause(t *testing.T) {
	err := NewFetchError("geo", 1, 0, context.Canceled)
	if !errors.Is(err, context.Canceled) {
		t.Error("expected cause to be reachable via errors.Is")
	}
}

func TestFetchError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "with status",
			err:  NewFetchError("cortar", 3, 500, errors.New("Internal Server Error")),
			want: "upstream fetch failed: strategy cortar page 3: status 500: Internal Server Error",
		},
		{
			name: "transport",
			err:  NewFetchError("geo", 1, 0, errors.New("timeout")),
			want: "upstream fetch failed: strategy geo page 1: timeout",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
