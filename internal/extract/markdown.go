package extract

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"
)

// maxSectionDepth is the deepest heading level that starts a new
// section. H3 and below stay inside their parent section.
const maxSectionDepth = 2

// MarkdownSections splits a markdown document into sections at H1/H2
// boundaries. Content before the first heading becomes its own section,
// and a document without headings is returned whole. Blank sections are
// dropped.
func MarkdownSections(source []byte) []string {
	md := goldmark.New()
	doc := md.Parser().Parse(gtext.NewReader(source))

	var offsets []int
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Kind() != ast.KindHeading {
			return ast.WalkContinue, nil
		}
		heading := n.(*ast.Heading)
		if heading.Level > maxSectionDepth || heading.Lines().Len() == 0 {
			return ast.WalkContinue, nil
		}
		offsets = append(offsets, lineStart(source, heading.Lines().At(0).Start))
		return ast.WalkContinue, nil
	})

	if len(offsets) == 0 {
		if s := strings.TrimSpace(string(source)); s != "" {
			return []string{s}
		}
		return nil
	}

	// Preamble before the first heading is a section of its own.
	if offsets[0] > 0 {
		offsets = append([]int{0}, offsets...)
	}

	var sections []string
	for i, start := range offsets {
		end := len(source)
		if i+1 < len(offsets) {
			end = offsets[i+1]
		}
		if s := strings.TrimSpace(string(source[start:end])); s != "" {
			sections = append(sections, s)
		}
	}
	return sections
}

// lineStart walks back from a heading's text segment to the beginning
// of its line, so the section includes the # markers.
func lineStart(source []byte, offset int) int {
	for offset > 0 && source[offset-1] != '\n' {
		offset--
	}
	return offset
}
