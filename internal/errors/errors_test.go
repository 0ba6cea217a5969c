package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNewFromRegistry(t *testing.T) {
	err := New("E001")
	if err.Code != "E001" {
		t.Errorf("Code = %q, want E001", err.Code)
	}
	if err.Category != CategoryRuntime {
		t.Errorf("Category = %q, want runtime", err.Category)
	}
	if err.Message == "" || err.Message == "Unknown error" {
		t.Errorf("Message = %q, want registered message", err.Message)
	}
}

func TestNewUnknownCode(t *testing.T) {
	err := New("E999")
	if err.Message != "Unknown error" {
		t.Errorf("Message = %q, want Unknown error", err.Message)
	}
}

func TestWrapSupportsErrorsIs(t *testing.T) {
	sentinel := stderrors.New("boom")
	err := New("E020").Wrap(sentinel)

	if !stderrors.Is(err, sentinel) {
		t.Error("errors.Is should find the wrapped sentinel")
	}

	outer := fmt.Errorf("render: %w", err)
	if got := Code(outer); got != "E020" {
		t.Errorf("Code(outer) = %q, want E020", got)
	}
	if got := Code(sentinel); got != "" {
		t.Errorf("Code(sentinel) = %q, want empty", got)
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E001") != nil {
		t.Error("FromError(nil) should be nil")
	}

	me := New("E080")
	if FromError(me, "E001") != me {
		t.Error("FromError should return an existing MyUIError unchanged")
	}

	wrapped := FromError(stderrors.New("disk"), "E082")
	if wrapped.Code != "E082" || wrapped.Wrapped == nil {
		t.Errorf("FromError = %+v, want E082 wrapping cause", wrapped)
	}
}

func TestErrorStringIncludesDetail(t *testing.T) {
	err := New("E122").WithDetail("server.port must be between 0 and 65535")
	if !strings.Contains(err.Error(), "server.port") {
		t.Errorf("Error() = %q, want detail included", err.Error())
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer func() { colorEnabled = true }()

	out := New("E002").WithSuggestion("call hooks unconditionally").Format()
	for _, want := range []string{"ERROR E002:", "same hooks in the same order", "Hint: call hooks unconditionally"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
}

func TestFormatJSON(t *testing.T) {
	got := New("E081").WithDetail("name is required").FormatJSON()
	want := `{"code":"E081","category":"validation","message":"Invalid student","detail":"name is required"}`
	if got != want {
		t.Errorf("FormatJSON() = %s, want %s", got, want)
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five six", 10)
	for _, l := range lines {
		if len(l) > 10 {
			t.Errorf("line %q exceeds width", l)
		}
	}
	if strings.Join(lines, " ") != "one two three four five six" {
		t.Errorf("wrapText lost words: %v", lines)
	}
}

func TestAllCodesSorted(t *testing.T) {
	codes := GetAllCodes()
	for i := 1; i < len(codes); i++ {
		if codes[i-1] > codes[i] {
			t.Fatalf("codes not sorted: %v", codes)
		}
	}
	if _, ok := GetTemplate("E001"); !ok {
		t.Error("E001 should be registered")
	}
}

func TestPrintErrorColors(t *testing.T) {
	defer func() { colorEnabled = true }()

	var colored, plain bytes.Buffer
	PrintError(&colored, New("E120"))
	PrintError(&colored, stderrors.New("plain failure"))
	if !strings.Contains(colored.String(), "\033[") {
		t.Errorf("colored output has no escapes: %q", colored.String())
	}

	DisableColors()
	PrintError(&plain, New("E120"))
	PrintError(&plain, stderrors.New("plain failure"))
	if strings.Contains(plain.String(), "\033[") {
		t.Errorf("escapes after DisableColors: %q", plain.String())
	}
	for _, want := range []string{"ERROR E120:", "ERROR: plain failure"} {
		if !strings.Contains(plain.String(), want) {
			t.Errorf("output misses %q:\n%s", want, plain.String())
		}
	}
}
