package html

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ccv-cli/internal/core/domain"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title>  Best Running Shoes 2025 | Guide </title>
  <meta name="Description" content=" Compare the best running shoes for every runner. ">
  <style>h1 { color: red }</style>
</head>
<body>
  <h3>Orphan before any H2</h3>
  <h1>Best Running <em>Shoes</em> of 2025</h1>
  <p>Intro text.</p>
  <h2>What is pronation?</h2>
  <h3>Overpronation</h3>
  <h3>  </h3>
  <h2>Cushioning</h2>
  <h3>Foam types</h3>
  <script>var x = "hidden";</script>
  <h1></h1>
</body>
</html>`

func TestParser_Metadata(t *testing.T) {
	p := New()

	assert.Equal(t, domain.SourceHTML, p.Format())
	assert.Contains(t, p.SupportedMIMETypes(), "text/html")
	assert.Contains(t, p.SupportedExtensions(), ".html")
}

func TestParse_SamplePage(t *testing.T) {
	s, err := New().Parse(context.Background(), []byte(samplePage))
	require.NoError(t, err)

	require.NotNil(t, s.Title)
	assert.Equal(t, "Best Running Shoes 2025 | Guide", *s.Title)
	require.NotNil(t, s.MetaDescription)
	assert.Equal(t, "Compare the best running shoes for every runner.", *s.MetaDescription)
	assert.Equal(t, []string{"Best Running Shoes of 2025"}, s.H1List)
	assert.Equal(t, domain.SourceHTML, s.SourceType)

	require.Len(t, s.H2List, 2)
	assert.Equal(t, "What is pronation?", s.H2List[0].Text)
	assert.Equal(t, 1, s.H2List[0].Position)
	assert.Equal(t, 3, s.H2List[1].Position)

	require.Len(t, s.H3List, 3)
	assert.Nil(t, s.H3List[0].ParentIndex, "H3 before any H2 is an orphan")
	assert.Equal(t, 0, s.H3List[0].Position)
	require.NotNil(t, s.H3List[1].ParentIndex)
	assert.Equal(t, 0, *s.H3List[1].ParentIndex)
	require.NotNil(t, s.H3List[2].ParentIndex)
	assert.Equal(t, 1, *s.H3List[2].ParentIndex)

	assert.Contains(t, s.RawText, "Intro text.")
	assert.NotContains(t, s.RawText, "hidden")
	assert.NotContains(t, s.RawText, "color: red")
}

func TestParse_MissingElements(t *testing.T) {
	s, err := New().Parse(context.Background(), []byte(`<p>Just text</p>`))
	require.NoError(t, err)

	assert.Nil(t, s.Title)
	assert.Nil(t, s.MetaDescription)
	assert.Empty(t, s.H1List)
	assert.Empty(t, s.H2List)
	assert.NotNil(t, s.H2List)
	assert.Equal(t, "Just text", s.RawText)
}

func TestParse_EmptyMetaIgnored(t *testing.T) {
	page := `<head><meta name="description" content="  "><meta name="description" content="Second"></head>`

	s, err := New().Parse(context.Background(), []byte(page))

	require.NoError(t, err)
	require.NotNil(t, s.MetaDescription)
	assert.Equal(t, "Second", *s.MetaDescription)
}

func TestParse_MultipleH1AndMalformed(t *testing.T) {
	page := `<h1>First<h1>Second</h1><h2>Unclosed <b>bold`

	s, err := New().Parse(context.Background(), []byte(page))

	require.NoError(t, err)
	assert.Equal(t, 2, s.H1Count())
}

func TestParse_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Parse(ctx, []byte(samplePage))

	assert.ErrorIs(t, err, context.Canceled)
}
