package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// page builds a document with a head and a PageContent region.
func page(head, body string) string {
	return "<html><head>\n" +
		`<!-- InstanceBeginEditable name="head" -->` + head + `<!-- InstanceEndEditable -->` +
		"\n</head><body>\n" +
		`<!-- InstanceBeginEditable name="PageContent" -->` + body + `<!-- InstanceEndEditable -->` +
		"\n</body></html>\n"
}

// writeFile creates path (slash separated, relative to root) with content.
func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// createProject populates root with a small site:
//
//	de/index.htm                  canonical, both regions
//	de/download/x.htm             canonical, both regions
//	de/produkt/preise.htm         canonical, no translation anywhere
//	de/intern/geheim.htm          excluded directory
//	de/robots.txt                 not a document
//	en/index.htm                  stale translation
//	en/download/x.htm             stale translation
//	fr/index.htm                  translation without markers
func createProject(t *testing.T, root string) {
	t.Helper()
	writeFile(t, root, "de/index.htm", page("<title>Start</title>", "<p>Willkommen</p>"))
	writeFile(t, root, "de/download/x.htm", page("<title>Download</title>", "<p>Neu</p>"))
	writeFile(t, root, "de/produkt/preise.htm", page("<title>Preise</title>", "<p>Preise</p>"))
	writeFile(t, root, "de/intern/geheim.htm", page("", "secret"))
	writeFile(t, root, "de/robots.txt", "User-agent: *\n")

	writeFile(t, root, "en/index.htm", page("<title>Old</title>", "<p>Welcome</p>"))
	writeFile(t, root, "en/download/x.htm", page("<title>Old</title>", "<p>Old</p>"))
	writeFile(t, root, "fr/index.htm", "<html><body>Bienvenue</body></html>\n")
}
