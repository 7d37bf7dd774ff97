package content

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func begin(name string) string {
	return fmt.Sprintf(`<!-- InstanceBeginEditable name="%s" -->`, name)
}

const end = `<!-- InstanceEndEditable -->`

func writeDoc(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func readDoc(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestSync_PartialTargetMarkers(t *testing.T) {
	dir := t.TempDir()
	src := writeDoc(t, dir, "src.htm",
		"<html><head>"+begin("head")+"<h1>Title</h1>"+end+"</head><body>"+
			begin("PageContent")+"<p>Inhalt</p>"+end+"</body></html>")
	dst := writeDoc(t, dir, "dst.htm",
		"<html lang=\"en\"><head>"+begin("head")+"old"+end+"</head><body>static</body></html>")

	out := New().Sync(src, dst)

	require.True(t, out.Success, out.Message)
	require.NoError(t, out.Err)
	assert.Equal(t, []string{"head"}, out.Processed)
	assert.Equal(t, []string{"PageContent"}, out.Missing)
	assert.Equal(t, 4, out.Total)
	assert.Equal(t, 1, out.Synced())
	assert.False(t, out.Unchanged)

	got := readDoc(t, dst)
	assert.Equal(t,
		"<html lang=\"en\"><head>"+begin("head")+"<h1>Title</h1>"+end+"</head><body>static</body></html>",
		got)
	assert.Equal(t, int64(len(got)), out.Written)
}

func TestSync_AllRegionsInOrder(t *testing.T) {
	dir := t.TempDir()
	var srcBuf, dstBuf string
	for _, name := range []string{"head", "ScriptHeader", "PageContent", "PageEnde"} {
		srcBuf += begin(name) + "src-" + name + end + "\n"
		dstBuf += "<div>" + begin(name) + "dst-" + name + end + "</div>\n"
	}
	src := writeDoc(t, dir, "src.htm", srcBuf)
	dst := writeDoc(t, dir, "dst.htm", dstBuf)

	out := New().Sync(src, dst)

	require.True(t, out.Success)
	assert.Equal(t, []string{"head", "ScriptHeader", "PageContent", "PageEnde"}, out.Processed)
	assert.Empty(t, out.Missing)

	got := readDoc(t, dst)
	for _, name := range []string{"head", "ScriptHeader", "PageContent", "PageEnde"} {
		assert.Contains(t, got, "<div>"+begin(name)+"src-"+name+end+"</div>")
	}
}

func TestSync_Idempotent(t *testing.T) {
	dir := t.TempDir()
	src := writeDoc(t, dir, "src.htm", begin("PageContent")+"neu"+end)
	dst := writeDoc(t, dir, "dst.htm", "<body>"+begin("PageContent")+"alt"+end+"</body>")

	s := New()
	first := s.Sync(src, dst)
	require.True(t, first.Success)
	afterFirst := readDoc(t, dst)

	second := s.Sync(src, dst)
	require.True(t, second.Success)
	assert.True(t, second.Unchanged)
	assert.Zero(t, second.Written)
	assert.Equal(t, first.Written, second.Size)
	assert.Equal(t, int64(len(afterFirst)), second.Size)
	assert.Equal(t, afterFirst, readDoc(t, dst))
}

func TestSync_NoMarkersLeavesTargetUntouched(t *testing.T) {
	dir := t.TempDir()
	src := writeDoc(t, dir, "src.htm", "<html>no markers</html>")
	dst := writeDoc(t, dir, "dst.htm", "<html>no markers either</html>")
	before, err := os.Stat(dst)
	require.NoError(t, err)

	out := New().Sync(src, dst)

	assert.False(t, out.Success)
	require.ErrorIs(t, out.Err, ErrNoRegions)
	assert.Contains(t, out.Message, "no editable regions synchronized")
	assert.Equal(t, "<html>no markers either</html>", readDoc(t, dst))

	after, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
}

func TestSync_TargetLacksAllSourceRegions(t *testing.T) {
	dir := t.TempDir()
	src := writeDoc(t, dir, "src.htm", begin("head")+"a"+end+begin("PageEnde")+"b"+end)
	dst := writeDoc(t, dir, "dst.htm", begin("PageContent")+"c"+end)

	out := New().Sync(src, dst)

	assert.False(t, out.Success)
	require.ErrorIs(t, out.Err, ErrNoRegions)
	assert.Equal(t, []string{"head", "PageEnde"}, out.Missing)
	assert.Equal(t, begin("PageContent")+"c"+end, readDoc(t, dst))
}

func TestSync_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	existing := writeDoc(t, dir, "x.htm", begin("head")+"a"+end)

	out := New().Sync(filepath.Join(dir, "nope.htm"), existing)
	assert.False(t, out.Success)
	require.ErrorIs(t, out.Err, ErrSourceMissing)
	assert.Contains(t, out.Message, "nope.htm")

	out = New().Sync(existing, filepath.Join(dir, "gone.htm"))
	assert.False(t, out.Success)
	require.ErrorIs(t, out.Err, ErrTargetMissing)

	out = New().Sync(existing, dir)
	assert.False(t, out.Success)
	require.ErrorIs(t, out.Err, ErrTargetMissing)

	_, err := os.Stat(filepath.Join(dir, "gone.htm"))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestSync_InvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	src := writeDoc(t, dir, "src.htm", begin("head")+"caf\xe9"+end)
	dst := writeDoc(t, dir, "dst.htm", begin("head")+"x"+end)

	out := New().Sync(src, dst)

	assert.False(t, out.Success)
	require.ErrorIs(t, out.Err, ErrInvalidEncoding)
	assert.Equal(t, begin("head")+"x"+end, readDoc(t, dst))
}

func TestSync_PreservesBOMAndCompactMarkers(t *testing.T) {
	dir := t.TempDir()
	src := writeDoc(t, dir, "src.htm", begin("head")+"neu"+end)
	target := "\ufeff<html><!--InstanceBeginEditable name=\"head\"-->alt<!--InstanceEndEditable--></html>"
	dst := writeDoc(t, dir, "dst.htm", target)

	out := New().Sync(src, dst)

	require.True(t, out.Success)
	assert.Equal(t,
		"\ufeff<html><!--InstanceBeginEditable name=\"head\"-->neu<!--InstanceEndEditable--></html>",
		readDoc(t, dst))
}

func TestSync_WriterError(t *testing.T) {
	dir := t.TempDir()
	src := writeDoc(t, dir, "src.htm", begin("head")+"neu"+end)
	dst := writeDoc(t, dir, "dst.htm", begin("head")+"alt"+end)

	s := New(WithWriter(func(string, []byte) error { return assert.AnError }))
	out := s.Sync(src, dst)

	assert.False(t, out.Success)
	require.ErrorIs(t, out.Err, assert.AnError)
	assert.Equal(t, []string{"head"}, out.Processed)
	assert.Equal(t, begin("head")+"alt"+end, readDoc(t, dst))
}

func TestSync_DiscardWriter(t *testing.T) {
	dir := t.TempDir()
	src := writeDoc(t, dir, "src.htm", begin("head")+"neu"+end)
	dst := writeDoc(t, dir, "dst.htm", begin("head")+"alt"+end)

	out := New(WithWriter(Discard)).Sync(src, dst)

	require.True(t, out.Success)
	assert.Equal(t, int64(len(begin("head")+"neu"+end)), out.Written)
	assert.Equal(t, begin("head")+"alt"+end, readDoc(t, dst))
}

func TestSync_WriterPanicIsContained(t *testing.T) {
	dir := t.TempDir()
	src := writeDoc(t, dir, "src.htm", begin("head")+"neu"+end)
	dst := writeDoc(t, dir, "dst.htm", begin("head")+"alt"+end)

	s := New(WithWriter(func(string, []byte) error { panic("disk on fire") }))
	out := s.Sync(src, dst)

	assert.False(t, out.Success)
	assert.Contains(t, out.Message, "disk on fire")
}

func TestSync_CustomRegions(t *testing.T) {
	dir := t.TempDir()
	src := writeDoc(t, dir, "src.htm", begin("Sidebar")+"side"+end+begin("head")+"h"+end)
	dst := writeDoc(t, dir, "dst.htm", begin("Sidebar")+"old"+end+begin("head")+"keep"+end)

	s := New(WithRegions("Sidebar"))
	assert.Equal(t, []string{"Sidebar"}, s.Regions())

	out := s.Sync(src, dst)
	require.True(t, out.Success)
	assert.Equal(t, 1, out.Total)
	assert.Equal(t, begin("Sidebar")+"side"+end+begin("head")+"keep"+end, readDoc(t, dst))
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()

	t.Run("found", func(t *testing.T) {
		path := writeDoc(t, dir, "ok.htm", begin("head")+"äbc"+end+begin("PageContent")+"de"+end)
		out := New().Validate(path)
		assert.True(t, out.Valid)
		assert.Equal(t, []string{"head", "PageContent"}, out.Found)
		assert.Equal(t, 5, out.ContentLength)
		assert.Contains(t, out.Message, "head, PageContent")
	})

	t.Run("none", func(t *testing.T) {
		path := writeDoc(t, dir, "empty.htm", "<html></html>")
		out := New().Validate(path)
		assert.False(t, out.Valid)
		require.ErrorIs(t, out.Err, ErrNoRegions)
		assert.Empty(t, out.Found)
	})

	t.Run("missing", func(t *testing.T) {
		out := New().Validate(filepath.Join(dir, "missing.htm"))
		assert.False(t, out.Valid)
		require.ErrorIs(t, out.Err, fs.ErrNotExist)
	})
}
