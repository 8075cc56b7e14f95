package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/strata-kv/strata/kit/errors"
)

func TestErrorMessage(t *testing.T) {
	cases := []struct {
		name string
		err  *errors.Error
		want string
	}{
		{
			name: "msg only",
			err:  &errors.Error{Msg: "expected 4 bytes, got 3"},
			want: "expected 4 bytes, got 3",
		},
		{
			name: "msg wrapping err",
			err: &errors.Error{
				Msg: "field 1 (Y)",
				Err: &errors.Error{Msg: "expected 4 bytes, got 3"},
			},
			want: "field 1 (Y): expected 4 bytes, got 3",
		},
		{
			name: "code only",
			err:  &errors.Error{Code: errors.ENotFound},
			want: "<not found>",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.err.Error(); got != c.want {
				t.Fatalf("got %q, want %q", got, c.want)
			}
		})
	}
}

func TestErrorCodeWalksChain(t *testing.T) {
	err := &errors.Error{
		Msg: "field 0 (X)",
		Err: &errors.Error{Code: errors.EInvalid, Msg: "value already flushed"},
	}
	if got := errors.ErrorCode(err); got != errors.EInvalid {
		t.Fatalf("got %q, want %q", got, errors.EInvalid)
	}
	if got := errors.ErrorMessage(err); got != "field 0 (X)" {
		t.Fatalf("got %q, want %q", got, "field 0 (X)")
	}
}

func TestUnwrap(t *testing.T) {
	inner := stderrors.New("backend failure")
	err := &errors.Error{Code: errors.EInternal, Err: inner}
	if !stderrors.Is(err, inner) {
		t.Fatal("expected errors.Is to find the wrapped error")
	}
}
