package tui

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

var (
	mdRendererMu sync.Mutex
	// Cache renderers by wrap width + style. Creating a renderer with WithAutoStyle can trigger
	// terminal capability/background queries that may block on some terminals.
	// Using a fixed style + caching keeps section-body rendering fast and predictable.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	mdRendererMu.Lock()
	styleName := markdownStyle()
	key := styleName + ":" + strconv.Itoa(width)
	r := mdRenderers[key]
	mdRendererMu.Unlock()

	if r == nil {
		cfg := markdownStyleConfig(styleName)
		zero := uint(0)
		// No outer margin: section bodies already sit inside a padded pane.
		cfg.Document.Margin = &zero
		rr, err := glamour.NewTermRenderer(
			glamour.WithStyles(cfg),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRendererMu.Lock()
		// Re-check in case a concurrent goroutine filled it.
		if existing := mdRenderers[key]; existing != nil {
			r = existing
		} else {
			mdRenderers[key] = rr
			r = rr
		}
		mdRendererMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func markdownStyleConfig(styleName string) ansi.StyleConfig {
	switch strings.ToLower(strings.TrimSpace(styleName)) {
	case "light":
		cfg := styles.LightStyleConfig
		applyDraftpadMarkdownPalette(&cfg, "light")
		return cfg
	default:
		cfg := styles.DarkStyleConfig
		applyDraftpadMarkdownPalette(&cfg, "dark")
		return cfg
	}
}

func markdownStyle() string {
	// Explicit override for debugging / accessibility.
	switch strings.ToLower(strings.TrimSpace(os.Getenv("DRAFTPAD_TUI_MD_STYLE"))) {
	case "light":
		return "light"
	case "dark":
		return "dark"
	}
	// Keep markdown styling aligned with the TUI theme preference. Without
	// this, section text can render with a dark palette even when the TUI is
	// forced to light mode, making it unreadable on light terminals.
	switch strings.ToLower(strings.TrimSpace(os.Getenv("DRAFTPAD_TUI_THEME"))) {
	case "light":
		return "light"
	case "dark":
		return "dark"
	case "auto":
		// fallthrough
	}
	if v := strings.TrimSpace(os.Getenv("DRAFTPAD_TUI_DARKBG")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			if b {
				return "dark"
			}
			return "light"
		}
	}
	// Final fallback: align markdown with Lip Gloss's current background
	// detection.
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

func applyDraftpadMarkdownPalette(cfg *ansi.StyleConfig, styleName string) {
	if cfg == nil {
		return
	}

	// Headings: high-contrast and aligned with the normal text palette.
	headingColor := mdColor(colorSurfaceFg.(lipgloss.AdaptiveColor), styleName)
	cfg.Heading.Color = headingColor
	cfg.H1.Color = headingColor
	cfg.H2.Color = headingColor
	cfg.H3.Color = headingColor
	cfg.H4.Color = headingColor
	cfg.H5.Color = headingColor
	cfg.H6.Color = headingColor

	// Links: accent with underline.
	linkColor := mdColor(colorAccent.(lipgloss.AdaptiveColor), styleName)
	cfg.Link.Color = linkColor
	cfg.Link.Underline = mdBoolPtr(true)
	cfg.LinkText.Color = linkColor
	cfg.LinkText.Underline = mdBoolPtr(true)

	// Inline code: avoid bright red; keep readable and distinct.
	cfg.Code.Color = mdColor(colorSurfaceFg.(lipgloss.AdaptiveColor), styleName)
	cfg.CodeBlock.Color = mdColor(colorSurfaceFg.(lipgloss.AdaptiveColor), styleName)
	if cfg.CodeBlock.BackgroundColor == nil {
		cfg.CodeBlock.BackgroundColor = mdColor(colorControlBg.(lipgloss.AdaptiveColor), styleName)
	}

	// Base text stays aligned with the surface foreground; emphasis/strong
	// inherit it rather than picking surprising colors.
	cfg.Text.Color = mdColor(colorSurfaceFg.(lipgloss.AdaptiveColor), styleName)
	cfg.Strong.Color = nil
	cfg.Emph.Color = nil

	// Some default styles use faint for blockquotes, which gets too hard to read.
	cfg.BlockQuote.Faint = mdBoolPtr(false)
}

func mdColor(c lipgloss.AdaptiveColor, styleName string) *string {
	if strings.TrimSpace(strings.ToLower(styleName)) == "light" {
		return mdStrPtr(c.Light)
	}
	return mdStrPtr(c.Dark)
}

func mdStrPtr(s string) *string { return &s }
func mdBoolPtr(b bool) *bool    { return &b }
