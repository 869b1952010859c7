package differ

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
	<title>Product page</title>
	<style>body { color: red; }</style>
</head>
<body>
	<script>window.state = {"tracking": "12345"};</script>
	<div id="main">
		<h1>  Widget  </h1>
		<p class="price">Price: $19.99</p>
	</div>
	<noscript>Enable JavaScript</noscript>
	<footer>   </footer>
</body>
</html>`

func TestNormalizer_StripsScriptsAndStyles(t *testing.T) {
	normalizer := NewNormalizer()

	text, err := normalizer.Normalize([]byte(samplePage), "text/html", ExtractionRule{})

	require.NoError(t, err)
	assert.Contains(t, text, "Widget")
	assert.Contains(t, text, "Price: $19.99")
	assert.NotContains(t, text, "tracking")
	assert.NotContains(t, text, "color: red")
	assert.NotContains(t, text, "Enable JavaScript")
}

func TestNormalizer_TrimsAndDropsEmptyLines(t *testing.T) {
	normalizer := NewNormalizer()

	text, err := normalizer.Normalize([]byte(samplePage), "text/html", ExtractionRule{})

	require.NoError(t, err)
	for _, line := range []string{text} {
		assert.NotContains(t, line, "\n\n")
	}
	assert.NotContains(t, text, "  Widget  ")
	assert.Contains(t, text, "Widget")
}

func TestNormalizer_SelectorScopesExtraction(t *testing.T) {
	normalizer := NewNormalizer()

	text, err := normalizer.Normalize([]byte(samplePage), "text/html", ExtractionRule{Selector: ".price"})

	require.NoError(t, err)
	assert.Equal(t, "Price: $19.99", text)
}

func TestNormalizer_RegexpKeepsMatches(t *testing.T) {
	normalizer := NewNormalizer()

	text, err := normalizer.Normalize([]byte(samplePage), "text/html", ExtractionRule{Regexp: `\$\d+\.\d{2}`})

	require.NoError(t, err)
	assert.Equal(t, "$19.99", text)
}

func TestNormalizer_InvalidRegexpReturnsError(t *testing.T) {
	normalizer := NewNormalizer()

	_, err := normalizer.Normalize([]byte(samplePage), "text/html", ExtractionRule{Regexp: `([`})

	assert.Error(t, err)
}

func TestNormalizer_PlainTextNormalization(t *testing.T) {
	normalizer := NewNormalizer()
	body := "  alpha  \n\n\tbeta\t\n\n"

	text, err := normalizer.Normalize([]byte(body), "text/plain", ExtractionRule{})

	require.NoError(t, err)
	assert.Equal(t, "alpha\nbeta", text)
}

func TestNormalizer_SniffsHTMLWithoutContentType(t *testing.T) {
	normalizer := NewNormalizer()

	text, err := normalizer.Normalize([]byte(samplePage), "", ExtractionRule{})

	require.NoError(t, err)
	assert.NotContains(t, text, "<div")
	assert.Contains(t, text, "Widget")
}

func TestNormalizer_DeterministicOutput(t *testing.T) {
	normalizer := NewNormalizer()

	first, err := normalizer.Normalize([]byte(samplePage), "text/html", ExtractionRule{})
	require.NoError(t, err)
	second, err := normalizer.Normalize([]byte(samplePage), "text/html", ExtractionRule{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
