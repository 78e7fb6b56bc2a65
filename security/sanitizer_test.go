package security

import (
	"testing"
)

func TestCleanStringStripsScriptBlocks(t *testing.T) {
	if got := CleanString("<script>alert(1)</script>hello"); got != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
}

func TestCleanStringStripsJavascriptURIs(t *testing.T) {
	if got := CleanString("javascript:evil()"); got != "" {
		t.Fatalf("got %q, want empty string", got)
	}
}

func TestCleanStringStripsEvalAndExpression(t *testing.T) {
	if got := CleanString("x eval(1) y"); got != "x 1) y" {
		t.Fatalf("eval: got %q", got)
	}
	if got := CleanString("width: expression(alert(1))"); got != "width: alert(1))" {
		t.Fatalf("expression: got %q", got)
	}
}

func TestCleanStringStripsNullBytes(t *testing.T) {
	if got := CleanString("a\x00b"); got != "ab" {
		t.Fatalf("got %q, want %q", got, "ab")
	}
}

func TestCleanStringStripsEventHandlers(t *testing.T) {
	if got := CleanString(`<img src=x onerror="alert(1)">`); got != "<img src=x>" {
		t.Fatalf("got %q", got)
	}
}

func TestSanitizeJSONPreservesStructureAndOrder(t *testing.T) {
	in := `{"a":"<iframe src=x></iframe>ok","b":[1,"javascript:evil()"]}`
	want := `{"a":"ok","b":[1,""]}`
	if got := string(SanitizeJSON([]byte(in))); got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestSanitizeJSONLeavesNonStringLeavesAlone(t *testing.T) {
	in := `{"n":12345678901234567890,"f":1.25,"b":true,"z":null,"s":"plain"}`
	if got := string(SanitizeJSON([]byte(in))); got != in {
		t.Fatalf("got %s, want input unchanged", got)
	}
}

func TestSanitizeJSONPassesThroughInvalidPayloads(t *testing.T) {
	in := []byte("not json at all")
	if got := string(SanitizeJSON(in)); got != string(in) {
		t.Fatalf("invalid payload was modified: %q", got)
	}
}

func TestSanitizeNestedTree(t *testing.T) {
	in := `{"outer":{"inner":["<script>a</script>keep",{"deep":"javascript:x"}]}}`
	want := `{"outer":{"inner":["keep",{"deep":""}]}}`
	if got := string(SanitizeJSON([]byte(in))); got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestSanitizeRawQueryKeepsOrder(t *testing.T) {
	raw := "fromToken=ETH&note=%3Cscript%3Ex%3C%2Fscript%3Ehi&amount=100"
	got := SanitizeRawQuery(raw)
	want := "fromToken=ETH&note=hi&amount=100"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
