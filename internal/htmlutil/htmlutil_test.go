package htmlutil

import (
	"strings"
	"testing"
)

func TestClean(t *testing.T) {
	in := `<html><head><style>.a{color:red}</style></head><body>
		<script type="text/javascript">var x = 1;</script>
		<noscript>enable js</noscript>
		<div class="posting-wrapper" style="margin:0">
			<h2>About the role</h2>
			<p>We build infrastructure.</p>
		</div>
	</body></html>`

	out := Clean(in)

	for _, gone := range []string{"<script", "<style", "<noscript", "var x = 1", "class=", "style="} {
		if strings.Contains(out, gone) {
			t.Errorf("Clean kept %q:\n%s", gone, out)
		}
	}
	for _, kept := range []string{"<h2>About the role</h2>", "We build infrastructure."} {
		if !strings.Contains(out, kept) {
			t.Errorf("Clean lost %q:\n%s", kept, out)
		}
	}
}

func TestCleanEmpty(t *testing.T) {
	if got := Clean(""); got != "" {
		t.Errorf("Clean(\"\") = %q", got)
	}
}

func TestCleanPlainText(t *testing.T) {
	// Non-HTML input survives untouched apart from trimming.
	if got := Clean("  just words  "); got != "just words" {
		t.Errorf("Clean = %q", got)
	}
}

func TestText(t *testing.T) {
	in := `<div><h2>Pay</h2><p>$100,000 - $120,000 in <b>USD</b></p></div>`
	out := Text(in)

	if !strings.Contains(out, "$100,000 - $120,000") {
		t.Errorf("Text = %q", out)
	}
	if strings.Contains(out, "<") {
		t.Errorf("Text kept markup: %q", out)
	}
}

func TestTextEmpty(t *testing.T) {
	if got := Text(""); got != "" {
		t.Errorf("Text(\"\") = %q", got)
	}
}
