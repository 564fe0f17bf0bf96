package extract

import (
	"strings"
	"testing"
)

func TestMarkdownSections_SplitsAtHeadings(t *testing.T) {
	input := `# Varieties

Seed variety overview.

## Certification

Certification rules here.

## Storage

Keep seeds dry.
`

	sections := MarkdownSections([]byte(input))
	if len(sections) != 3 {
		t.Fatalf("expected 3 sections, got %d: %q", len(sections), sections)
	}

	if !strings.HasPrefix(sections[0], "# Varieties") {
		t.Errorf("section 0 should start with the H1, got %q", sections[0])
	}
	if !strings.Contains(sections[1], "Certification rules here") {
		t.Errorf("section 1 missing expected content: %q", sections[1])
	}
	if !strings.HasPrefix(sections[2], "## Storage") {
		t.Errorf("section 2 should start with the H2, got %q", sections[2])
	}
}

func TestMarkdownSections_DeepHeadingsStayInParent(t *testing.T) {
	input := `## Planting

Intro.

### Timing

Plant in spring.
`

	sections := MarkdownSections([]byte(input))
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if !strings.Contains(sections[0], "### Timing") {
		t.Errorf("H3 subsection should remain in its parent section")
	}
}

func TestMarkdownSections_NoHeadings(t *testing.T) {
	input := "Just a plain paragraph.\n\nAnd another one.\n"

	sections := MarkdownSections([]byte(input))
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0] != strings.TrimSpace(input) {
		t.Errorf("section should be the whole trimmed document, got %q", sections[0])
	}
}

func TestMarkdownSections_Preamble(t *testing.T) {
	input := `Some introduction before any heading.

# First Heading

Body text.
`

	sections := MarkdownSections([]byte(input))
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d: %q", len(sections), sections)
	}
	if sections[0] != "Some introduction before any heading." {
		t.Errorf("preamble section wrong: %q", sections[0])
	}
	if !strings.HasPrefix(sections[1], "# First Heading") {
		t.Errorf("heading section wrong: %q", sections[1])
	}
}

func TestMarkdownSections_Empty(t *testing.T) {
	if sections := MarkdownSections([]byte("  \n\n")); sections != nil {
		t.Errorf("expected no sections for blank input, got %q", sections)
	}
}
