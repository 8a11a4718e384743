// Renders dist/index.html for the release download page: the README body
// converted to HTML, with the Installation section swapped for a table of
// links to the goreleaser archives found in the dist directory.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <dist-dir>\n", os.Args[0])
		os.Exit(1)
	}
	if err := run(os.Args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(distDir string) error {
	readme, err := os.ReadFile("README.md")
	if err != nil {
		return fmt.Errorf("reading README.md: %w", err)
	}

	archives, version := scanArchives(distDir)
	body := renderReadme(readme)
	body = spliceDownloads(body, downloadTable(version, archives))

	out := filepath.Join(distDir, "index.html")
	page := pageHeader + string(body) + pageFooter
	if err := os.WriteFile(out, []byte(page), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Fprintf(os.Stderr, "Generated %s\n", out)
	return nil
}

func renderReadme(src []byte) []byte {
	exts := parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock
	doc := parser.NewWithExtensions(exts).Parse(src)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.HrefTargetBlank,
	})
	return markdown.Render(doc, renderer)
}

// archive is one goreleaser artifact with a human platform label.
type archive struct {
	label string
	file  string
}

// Goreleaser names archives rowpick_VERSION_OS_ARCH.{tar.gz,zip}.
var archivePattern = regexp.MustCompile(`^rowpick_(.+)_(Darwin|Linux|Windows)_(arm64|x86_64)\.(?:tar\.gz|zip)$`)

var platformLabels = map[string]string{
	"Darwin_arm64":   "macOS (Apple Silicon)",
	"Darwin_x86_64":  "macOS (Intel)",
	"Linux_arm64":    "Linux (ARM64)",
	"Linux_x86_64":   "Linux (x86_64)",
	"Windows_arm64":  "Windows (ARM64)",
	"Windows_x86_64": "Windows (x86_64)",
}

func scanArchives(distDir string) ([]archive, string) {
	entries, err := os.ReadDir(distDir)
	if err != nil {
		return nil, "unknown"
	}

	version := "unknown"
	var out []archive
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := archivePattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		version = m[1]
		out = append(out, archive{
			label: platformLabels[m[2]+"_"+m[3]],
			file:  e.Name(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].label < out[j].label })
	return out, version
}

func downloadTable(version string, archives []archive) string {
	var sb strings.Builder
	sb.WriteString("<div class=\"downloads\">\n<h2>Downloads</h2>\n")
	fmt.Fprintf(&sb, "<h3>%s</h3>\n<table class=\"download-table\">\n", version)
	for _, a := range archives {
		// index.html sits next to the archives, a bare filename links fine.
		fmt.Fprintf(&sb, "<tr><td class=\"platform-name\">%s</td><td><a href=\"%s\">download</a></td></tr>\n",
			a.label, a.file)
	}
	sb.WriteString("</table>\n</div>\n")
	return sb.String()
}

// spliceDownloads replaces the README's Installation section, up to the next
// h2, with the download table plus extraction instructions. The body passes
// through untouched when the section is missing.
func spliceDownloads(body []byte, table string) []byte {
	page := string(body)

	start := strings.Index(page, `<h2 id="installation">`)
	if start == -1 {
		start = strings.Index(page, `<h2 id="install">`)
	}
	if start == -1 {
		return body
	}
	next := strings.Index(page[start+1:], `<h2 id="`)
	if next == -1 {
		return body
	}
	next += start + 1

	section := `<h2 id="installation">Installation</h2>
` + table + `
<p>Extract the archive and move the binary to your PATH:</p>
<pre><code># macOS / Linux
tar -xzf rowpick_*.tar.gz
sudo mv rowpick /usr/local/bin/

# Windows: extract the .zip and add rowpick.exe to your PATH
</code></pre>
`
	return []byte(page[:start] + section + page[next:])
}

const pageHeader = `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>rowpick</title>
  <style>
    body { font-family: system-ui, sans-serif; max-width: 860px; margin: 40px auto; padding: 0 20px; line-height: 1.6; color: #222; }
    h1 { border-bottom: 2px solid #0f766e; padding-bottom: 8px; }
    h2 { color: #0f766e; margin-top: 28px; }
    code { background: #f1f5f9; padding: 2px 5px; border-radius: 3px; font-size: 0.9em; }
    pre { background: #0f172a; color: #e2e8f0; padding: 14px; border-radius: 6px; overflow-x: auto; }
    pre code { background: none; padding: 0; }
    .downloads { background: #f0fdfa; border-left: 4px solid #0f766e; padding: 16px 20px; border-radius: 6px; margin: 20px 0; }
    .download-table { border-collapse: collapse; }
    .download-table td { padding: 4px 12px 4px 0; }
    .platform-name { font-weight: 500; }
    .download-table a { color: #0f766e; font-weight: 500; }
  </style>
</head>
<body>
`

const pageFooter = `</body>
</html>
`
