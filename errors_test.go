package tmx_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	tmx "github.com/reoring/tmx"
)

func TestIssuesError(t *testing.T) {
	iss := tmx.Issues{
		{Path: "/map/layer[0]/data", Code: tmx.CodeInvalidEncoding, Message: "bad"},
		{Path: "/map", Code: tmx.CodeInvalidAttribute, Message: "bad"},
	}
	msg := iss.Error()
	if !strings.Contains(msg, "invalid_encoding at /map/layer[0]/data") {
		t.Fatalf("Error() = %q", msg)
	}
	if !strings.Contains(msg, "invalid_attribute at /map") {
		t.Fatalf("Error() = %q", msg)
	}
}

func TestIssuesErrorTruncates(t *testing.T) {
	var iss tmx.Issues
	for i := 0; i < 5; i++ {
		iss = append(iss, tmx.Issue{Path: fmt.Sprintf("/p%d", i), Code: "c"})
	}
	if msg := iss.Error(); !strings.Contains(msg, "(total 5)") {
		t.Fatalf("Error() = %q", msg)
	}
}

func TestAsIssues(t *testing.T) {
	_, err := tmx.Parse([]byte(`<map width="1"`))
	iss, ok := tmx.AsIssues(err)
	if !ok || len(iss) == 0 {
		t.Fatalf("AsIssues = %v, %v", iss, ok)
	}
	if iss[0].Code != tmx.CodeXMLSyntax {
		t.Fatalf("code = %q", iss[0].Code)
	}

	if _, ok := tmx.AsIssues(nil); ok {
		t.Fatal("AsIssues(nil) = true")
	}
	if _, ok := tmx.AsIssues(errors.New("other")); ok {
		t.Fatal("AsIssues(plain error) = true")
	}
}

func TestAsIssuesWrapped(t *testing.T) {
	_, err := tmx.Parse([]byte(`<map width="1"`))
	wrapped := fmt.Errorf("loading level: %w", err)
	if _, ok := tmx.AsIssues(wrapped); !ok {
		t.Fatal("AsIssues did not see through the wrapper")
	}
	if !tmx.HasCode(wrapped, tmx.CodeXMLSyntax) {
		t.Fatal("HasCode did not see through the wrapper")
	}
}

func TestHasCode(t *testing.T) {
	_, err := tmx.Parse([]byte(`<map width="2" height="2" tilewidth="8" tileheight="8">
	 <layer name="l" width="2" height="2"><data encoding="csv">1,2,3</data></layer>
	</map>`))
	if !tmx.HasCode(err, tmx.CodeDataLengthMismatch) {
		t.Fatalf("HasCode = false for %v", err)
	}
	if tmx.HasCode(err, tmx.CodeUnresolvedGID) {
		t.Fatal("HasCode matched the wrong code")
	}
	if tmx.HasCode(nil, tmx.CodeIO) {
		t.Fatal("HasCode(nil) = true")
	}
}

// A single wrapped issue exposes its cause to errors.Is chains.
func TestIssuesUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	iss := tmx.Issues{{Path: "/", Code: tmx.CodeIO, Cause: cause}}
	if !errors.Is(iss, cause) {
		t.Fatal("errors.Is did not reach the cause")
	}
}
