package sanitize

import (
	"strings"
	"testing"
)

func TestTextStripsControlChars(t *testing.T) {
	got := Text("hello\x00world\x07 again\x1F")
	if got != "helloworld again" {
		t.Errorf("Text() = %q", got)
	}
}

func TestTextKeepsNewlinesAndTabs(t *testing.T) {
	got := Text("step one\nstep two\tdone")
	if got != "step one\nstep two\tdone" {
		t.Errorf("newlines and tabs must survive, got %q", got)
	}
}

func TestTextCapsAt500Runes(t *testing.T) {
	long := strings.Repeat("я", 600)
	got := Text(long)
	if n := len([]rune(got)); n != 500 {
		t.Errorf("expected 500 runes, got %d", n)
	}
}

func TestHTMLRemovesScriptBlocks(t *testing.T) {
	got := HTML(`before<script type="text/javascript">alert(1)</script>after`)
	if got != "beforeafter" {
		t.Errorf("HTML() = %q", got)
	}
}

func TestHTMLRemovesIframesAndDanglingTags(t *testing.T) {
	got := HTML(`a<iframe src="x"></iframe>b<script>c`)
	if got != "abc" {
		t.Errorf("HTML() = %q", got)
	}
}

func TestHTMLRemovesEventHandlers(t *testing.T) {
	got := HTML(`<img src="x" onerror="steal()">`)
	if strings.Contains(got, "onerror") {
		t.Errorf("event handler survived: %q", got)
	}
}

func TestHTMLRemovesJavascriptURLs(t *testing.T) {
	got := HTML(`<a href="javascript:run()">go</a>`)
	if strings.Contains(strings.ToLower(got), "javascript") {
		t.Errorf("javascript: URL survived: %q", got)
	}
}

func TestFormatIngredientAmount(t *testing.T) {
	tests := []struct {
		amount string
		unit   string
		want   string
	}{
		{"0.5", "cup", "1/2"},
		{"1.5", "cups", "1 1/2"},
		{"0.25", "tbsp", "1/4"},
		{"0.33", "cup", "1/3"},
		{"2", "cup", "2"},
		{"0.4", "cup", "0.40"},
		{"1.5", "kg", "1.5"},
		{"200", "g", "200"},
		{"2", "pcs", "2"},
		{"1.256", "pcs", "1.26"},
		{"pinch", "", "pinch"},
		{"to taste", "tsp", "to taste"},
	}

	for _, tt := range tests {
		if got := FormatIngredientAmount(tt.amount, tt.unit); got != tt.want {
			t.Errorf("FormatIngredientAmount(%q, %q) = %q, want %q", tt.amount, tt.unit, got, tt.want)
		}
	}
}
