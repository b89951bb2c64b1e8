package parser

import (
	"strings"
	"testing"

	"github.com/dgallion1/docbrief/internal/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitTexts(units []document.Unit) []string {
	out := make([]string, len(units))
	for i, u := range units {
		out[i] = u.Text
	}
	return out
}

func TestHTMLParser_ExtractsBlocksInOrder(t *testing.T) {
	input := `<html><head><title>Ignored</title><style>p{}</style></head>
<body>
<nav><p>menu</p></nav>
<h1>Carbon Markets</h1>
<p>First <b>paragraph</b>.</p>
<ul><li>one</li><li>two</li></ul>
<script>var x = 1;</script>
<footer><p>footer</p></footer>
</body></html>`

	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "page.html")
	require.NoError(t, err)

	assert.Equal(t, document.KindHTML, doc.Kind)
	assert.Equal(t, []string{"Carbon Markets", "First paragraph.", "one", "two"}, unitTexts(doc.Units))
}

func TestHTMLParser_NoBody(t *testing.T) {
	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.htm")
	require.NoError(t, err)
	assert.Empty(t, doc.Units)
	assert.Equal(t, "empty", doc.Stem)
}

func TestHTMLParser_CollapsesWhitespace(t *testing.T) {
	input := "<body><p>  Net\n\tzero   targets </p><pre>a\n  b</pre></body>"

	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "ws.html")
	require.NoError(t, err)
	assert.Equal(t, []string{"Net zero targets", "a b"}, unitTexts(doc.Units))
}
