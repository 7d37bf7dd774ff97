package region

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var startSpellings = []struct {
	name   string
	format string
}{
	{"spaced", beginSpaced},
	{"compact", beginCompact},
	{"mixed", beginMixed},
}

var endSpellings = []string{EndSpaced, EndCompact}

func page(start, content, end string) string {
	return "<html><head><title>x</title>\n" + start + content + end + "\n</head><body></body></html>"
}

func TestExtract_AllSpellingsAgree(t *testing.T) {
	const content = "\n<meta name=\"description\" content=\"Passwort\">\n"
	for _, s := range startSpellings {
		for _, end := range endSpellings {
			t.Run(s.name+"/"+end, func(t *testing.T) {
				buf := page(fmt.Sprintf(s.format, "head"), content, end)
				got, ok := Extract(buf, "head")
				require.True(t, ok)
				assert.Equal(t, content, got)
			})
		}
	}
}

func TestLocate_CaseInsensitive(t *testing.T) {
	buf := page(`<!-- INSTANCEBEGINEDITABLE NAME="HEAD" -->`, "abc", `<!-- instanceendeditable -->`)

	span, ok := Locate(buf, "head")
	require.True(t, ok)
	assert.Equal(t, `<!-- INSTANCEBEGINEDITABLE NAME="HEAD" -->`, span.StartMarker)
	assert.Equal(t, `<!-- instanceendeditable -->`, span.EndMarker)
	assert.Equal(t, "abc", buf[span.ContentStart:span.ContentEnd])
}

func TestLocate_SpanBounds(t *testing.T) {
	start := fmt.Sprintf(beginSpaced, "PageContent")
	buf := "pre" + start + "body" + EndSpaced + "post"

	span, ok := Locate(buf, "PageContent")
	require.True(t, ok)
	assert.Equal(t, 3, span.Start)
	assert.Equal(t, 3+len(start), span.ContentStart)
	assert.Equal(t, span.ContentStart+4, span.ContentEnd)
	assert.Equal(t, len(buf)-4, span.End)
	assert.Equal(t, 4, span.Len())
}

func TestLocate_StartVariantPriorityBeatsPosition(t *testing.T) {
	// The compact spelling occurs first in the buffer, but the spaced
	// spelling has priority and therefore wins.
	buf := fmt.Sprintf(beginCompact, "head") + "early" + EndSpaced +
		fmt.Sprintf(beginSpaced, "head") + "late" + EndSpaced

	got, ok := Extract(buf, "head")
	require.True(t, ok)
	assert.Equal(t, "late", got)
}

func TestLocate_EndVariantPriorityBeatsPosition(t *testing.T) {
	buf := fmt.Sprintf(beginSpaced, "head") + "a" + EndCompact + "b" + EndSpaced

	got, ok := Extract(buf, "head")
	require.True(t, ok)
	assert.Equal(t, "a"+EndCompact+"b", got)
}

func TestLocate_EndMarkerMustFollowStart(t *testing.T) {
	buf := EndSpaced + fmt.Sprintf(beginSpaced, "head") + "dangling"

	_, ok := Locate(buf, "head")
	assert.False(t, ok)
}

func TestLocate_NotFound(t *testing.T) {
	tests := []struct {
		name string
		buf  string
	}{
		{"empty", ""},
		{"no markers", "<html><body>plain</body></html>"},
		{"other region", page(fmt.Sprintf(beginSpaced, "PageContent"), "x", EndSpaced)},
		{"prefix of name", page(fmt.Sprintf(beginSpaced, "headline"), "x", EndSpaced)},
		{"truncated start", `<!-- InstanceBeginEditable name="head"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Locate(tt.buf, "head")
			assert.False(t, ok)
			_, ok = Extract(tt.buf, "head")
			assert.False(t, ok)
			_, ok = Replace(tt.buf, "head", "new")
			assert.False(t, ok)
		})
	}
}

func TestLocate_EmptyContent(t *testing.T) {
	buf := page(fmt.Sprintf(beginSpaced, "head"), "", EndSpaced)

	got, ok := Extract(buf, "head")
	require.True(t, ok)
	assert.Empty(t, got)
}

func TestReplace_RoundTrip(t *testing.T) {
	contents := []string{"", "<h1>Title</h1>", "multi\nline\r\ncontent ü ß 日本", strings.Repeat("x", 10000)}
	for _, s := range startSpellings {
		for _, c := range contents {
			buf := page(fmt.Sprintf(s.format, "PageContent"), "old content", EndCompact)
			out, ok := Replace(buf, "PageContent", c)
			require.True(t, ok)

			got, ok := Extract(out, "PageContent")
			require.True(t, ok)
			assert.Equal(t, c, got)
		}
	}
}

func TestReplace_PreservesBytesOutsideSpan(t *testing.T) {
	start := `<!--instanceBeginEditable name="PageContent"-->`
	prefix := "<!DOCTYPE html>\n<html lang=\"fr\">\n<body class=\"x\">"
	suffix := "\n<footer>Pied de page</footer></body></html>\n"
	buf := prefix + start + "ancien" + EndCompact + suffix

	out, ok := Replace(buf, "PageContent", "nouveau")
	require.True(t, ok)
	assert.Equal(t, prefix+start+"nouveau"+EndCompact+suffix, out)

	span, ok := Locate(buf, "PageContent")
	require.True(t, ok)
	assert.Equal(t, buf[:span.ContentStart], out[:span.ContentStart])
	assert.Equal(t, buf[span.ContentEnd:], out[len(out)-(len(buf)-span.ContentEnd):])
}

func TestReplace_DoesNotMutateInput(t *testing.T) {
	buf := page(fmt.Sprintf(beginSpaced, "head"), "keep", EndSpaced)
	orig := strings.Clone(buf)

	_, ok := Replace(buf, "head", "changed")
	require.True(t, ok)
	assert.Equal(t, orig, buf)
}

func TestReplace_OnlyFirstOccurrence(t *testing.T) {
	m := fmt.Sprintf(beginSpaced, "head")
	buf := m + "one" + EndSpaced + m + "two" + EndSpaced

	out, ok := Replace(buf, "head", "X")
	require.True(t, ok)
	assert.Equal(t, m+"X"+EndSpaced+m+"two"+EndSpaced, out)
}

func TestLocator_RegexMetacharactersInName(t *testing.T) {
	l := NewLocator("a.b(c)")
	buf := page(fmt.Sprintf(beginSpaced, "a.b(c)"), "ok", EndSpaced)

	got, ok := l.Extract(buf)
	require.True(t, ok)
	assert.Equal(t, "ok", got)
	assert.Equal(t, "a.b(c)", l.Name())

	_, ok = l.Extract(page(fmt.Sprintf(beginSpaced, "aXb(c)"), "no", EndSpaced))
	assert.False(t, ok)
}

func TestFirstVariant_OutOfRange(t *testing.T) {
	_, ok := firstVariant(endVariants, "abc", 10)
	assert.False(t, ok)
	_, ok = firstVariant(endVariants, "abc", -1)
	assert.False(t, ok)
}
