package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobStar(t *testing.T) {
	g, err := compileGlob("*.html")
	require.NoError(t, err)

	assert.True(t, g.match("index.html", false))
	assert.True(t, g.match("dir/INDEX.HTML", false))
	assert.False(t, g.match("index.html.bak", false))
	assert.False(t, g.match("index.htm", false))
}

func TestGlobDoubleStar(t *testing.T) {
	g, err := compileGlob("**/tour/*.htm")
	require.NoError(t, err)

	assert.True(t, g.match("tour/a.htm", false))
	assert.True(t, g.match("produkt/tour/a.htm", false))
	assert.False(t, g.match("produkt/tour/sub/a.htm", false))
}

func TestGlobAnchored(t *testing.T) {
	g, err := compileGlob("/index.htm")
	require.NoError(t, err)

	assert.True(t, g.match("index.htm", false))
	assert.False(t, g.match("sub/index.htm", false))
}

func TestGlobInnerSlashIsAnchored(t *testing.T) {
	g, err := compileGlob("produkt/*.htm")
	require.NoError(t, err)

	assert.True(t, g.match("produkt/a.htm", false))
	assert.False(t, g.match("x/produkt/a.htm", false))
}

func TestGlobDirOnly(t *testing.T) {
	g, err := compileGlob("alt/")
	require.NoError(t, err)

	assert.True(t, g.match("alt", true))
	assert.True(t, g.match("sub/alt", true))
	assert.False(t, g.match("alt", false))
	assert.Equal(t, "alt/", g.String())
}

func TestGlobQuestionAndClass(t *testing.T) {
	g, err := compileGlob("seite?.htm")
	require.NoError(t, err)
	assert.True(t, g.match("seite1.htm", false))
	assert.False(t, g.match("seite12.htm", false))
	assert.False(t, g.match("seite/.htm", false))

	g, err = compileGlob("v[0-9].htm")
	require.NoError(t, err)
	assert.True(t, g.match("v3.htm", false))
	assert.False(t, g.match("vx.htm", false))

	g, err = compileGlob("v[!0-9].htm")
	require.NoError(t, err)
	assert.True(t, g.match("vx.htm", false))
	assert.False(t, g.match("v3.htm", false))
}

func TestGlobLiteralMeta(t *testing.T) {
	g, err := compileGlob("a+b(1).htm")
	require.NoError(t, err)
	assert.True(t, g.match("a+b(1).htm", false))
	assert.False(t, g.match("aab1xhtm", false))

	g, err = compileGlob("odd[.htm")
	require.NoError(t, err)
	assert.True(t, g.match("odd[.htm", false))
}
