package serial_test

import (
	"errors"
	"fmt"
	"testing"

	serial "github.com/bridgekit/serial"
)

func TestError_Rendering(t *testing.T) {
	err := &serial.Error{Path: "/content/msgtype", Code: serial.CodeInvalidType, Message: "expected string, got list"}
	want := "invalid_type at /content/msgtype: expected string, got list"
	if err.Error() != want {
		t.Fatalf("unexpected rendering: %q", err.Error())
	}
}

func TestRebaseError_BuildsPath(t *testing.T) {
	base := serial.NewError(serial.CodeInvalidType, "expected string")
	rebased := serial.RebaseError(serial.RebaseError(base, "msgtype"), "content")
	if rebased.Path != "/content/msgtype" {
		t.Fatalf("unexpected path: %q", rebased.Path)
	}
	if rebased.Code != serial.CodeInvalidType {
		t.Fatalf("rebase changed the code: %q", rebased.Code)
	}
}

func TestWrapError_ChainsCause(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	wrapped := serial.WrapError(cause)
	if wrapped.Code != serial.CodeUnknown {
		t.Fatalf("expected unknown, got %q", wrapped.Code)
	}
	if !errors.Is(wrapped, cause) {
		t.Fatalf("cause lost from chain")
	}
}

func TestWrapError_PassesCodecErrorsThrough(t *testing.T) {
	orig := serial.NewError(serial.CodeMissingField, "missing")
	if got := serial.WrapError(orig); got != orig {
		t.Fatalf("codec error should pass through unchanged")
	}
}

func TestAsCodecError_FindsNestedError(t *testing.T) {
	inner := serial.NewError(serial.CodeInvalidVariant, "bad variant")
	outer := fmt.Errorf("while decoding event: %w", inner)
	ce, ok := serial.AsCodecError(outer)
	if !ok || ce.Code != serial.CodeInvalidVariant {
		t.Fatalf("expected to find nested codec error, got: %v", ce)
	}
	if _, ok := serial.AsCodecError(errors.New("plain")); ok {
		t.Fatalf("plain errors must not match")
	}
}
