package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "no component name",
			code:    "E201",
			wantMsg: "No component name specified",
			wantCat: CategoryComponent,
		},
		{
			name:    "template error",
			code:    "E205",
			wantMsg: "Invalid component template",
			wantCat: CategoryComponent,
		},
		{
			name:    "loader error",
			code:    "E210",
			wantMsg: "Component load failed",
			wantCat: CategoryLoader,
		},
		{
			name:    "config error",
			code:    "E301",
			wantMsg: "Invalid compose.json",
			wantCat: CategoryConfig,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestErrorString(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := New("E210").WithDetailf("component %q", "card").Wrap(cause)

	want := `E210: Component load failed: component "card": connection refused`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestKindMatchesSentinel(t *testing.T) {
	sentinel := stderrors.New("unknown component")
	other := stderrors.New("other")

	err := New("E202").Kind(sentinel)
	if !stderrors.Is(err, sentinel) {
		t.Error("errors.Is should match the attached kind")
	}
	if stderrors.Is(err, other) {
		t.Error("errors.Is matched an unrelated sentinel")
	}

	var wrapped error = err
	var ce *ComposeError
	if !stderrors.As(wrapped, &ce) || ce.Code != "E202" {
		t.Error("errors.As should recover the ComposeError")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E210") != nil {
		t.Error("FromError(nil) should be nil")
	}

	orig := New("E203")
	if FromError(orig, "E210") != orig {
		t.Error("FromError should return ComposeErrors unchanged")
	}

	plain := stderrors.New("io")
	ce := FromError(plain, "E210")
	if ce.Code != "E210" || ce.Wrapped != plain {
		t.Errorf("FromError wrapped incorrectly: %+v", ce)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E203").WithDetail("component 'card' has no template")
	out := err.Format()
	for _, want := range []string{
		"ERROR E203: Component has no template",
		"component 'card' has no template",
		"Hint: ",
		"Learn more: https://vango.dev/docs/compose/errors/E203",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}

	if got := Format(stderrors.New("plain")); !strings.Contains(got, "ERROR: plain") {
		t.Errorf("Format(plain) = %q", got)
	}
	if Format(nil) != "" {
		t.Error("Format(nil) should be empty")
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four", 9)
	want := []string{"one two", "three", "four"}
	if len(lines) != len(want) {
		t.Fatalf("wrapText = %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
	if wrapText("", 10) != nil {
		t.Error("empty text should produce no lines")
	}
}
