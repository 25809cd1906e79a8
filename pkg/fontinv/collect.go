package fontinv

import (
	"regexp"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/hellenic-development/scene-extractor/pkg/oracle"
	"github.com/hellenic-development/scene-extractor/pkg/scene"
)

var (
	importRe   = regexp.MustCompile(`@import\s+(?:url\(\s*)?["']?([^"')\s;]+)["']?\s*\)?`)
	fontFaceRe = regexp.MustCompile(`(?is)@font-face\s*\{([^}]*)\}`)
	urlRe      = regexp.MustCompile(`url\(\s*["']?([^"')]+?)["']?\s*\)`)
)

// Usage is a family/weight/slant combination used by rendered text.
type Usage struct {
	Family string
	Weight int
	Italic bool
}

// Collect builds the font inventory from the renderer's style sources, the
// optional source markup, the active font faces and the combinations that
// text nodes actually use. URLs keep first-seen order; embedded data: URLs
// are excluded.
func Collect(sources []oracle.StyleSource, markup string, faces []oracle.FontFace, used []Usage) scene.FontInventory {
	c := &collector{seen: map[string]bool{}, families: map[string]map[string]bool{}}
	for _, s := range sources {
		if s.Href != "" {
			c.addURL(s.Href)
		}
		if s.Text != "" {
			c.crawlCSS(s.Text)
		}
	}
	if markup != "" {
		c.crawlMarkup(markup)
	}
	for _, f := range faces {
		if strings.EqualFold(f.Status, "error") {
			continue
		}
		for _, m := range urlRe.FindAllStringSubmatch(f.Source, -1) {
			c.addURL(m[1])
		}
		c.addUsage(Usage{
			Family: f.Family,
			Weight: parseFaceWeight(f.Weight),
			Italic: strings.Contains(strings.ToLower(f.Style), "italic"),
		})
	}
	// Declared faces can be incomplete, so the families text really uses
	// are always added as well.
	for _, u := range used {
		c.addUsage(u)
	}
	return c.inventory()
}

type collector struct {
	urls     []string
	seen     map[string]bool
	families map[string]map[string]bool
}

func (c *collector) addURL(u string) {
	u = strings.TrimSpace(u)
	if u == "" || strings.HasPrefix(strings.ToLower(u), "data:") || c.seen[u] {
		return
	}
	c.seen[u] = true
	c.urls = append(c.urls, u)
}

func (c *collector) addUsage(u Usage) {
	if IsGeneric(u.Family) {
		return
	}
	base := BaseName(u.Family)
	if base == "" {
		return
	}
	if c.families[base] == nil {
		c.families[base] = map[string]bool{}
	}
	c.families[base][Variant(u.Weight, u.Italic)] = true
}

// crawlCSS picks @import targets and @font-face sources out of a style
// sheet.
func (c *collector) crawlCSS(css string) {
	for _, m := range importRe.FindAllStringSubmatch(css, -1) {
		c.addURL(m[1])
	}
	for _, block := range fontFaceRe.FindAllStringSubmatch(css, -1) {
		for _, m := range urlRe.FindAllStringSubmatch(block[1], -1) {
			c.addURL(m[1])
		}
	}
}

// crawlMarkup follows <link> elements that load style sheets or preload
// fonts, and crawls inline <style> blocks.
func (c *collector) crawlMarkup(markup string) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return
	}
	for n := range doc.Descendants() {
		if n.Type != html.ElementNode {
			continue
		}
		switch n.DataAtom {
		case atom.Link:
			rel := strings.ToLower(attr(n, "rel"))
			as := strings.ToLower(attr(n, "as"))
			if strings.Contains(rel, "stylesheet") || (strings.Contains(rel, "preload") && as == "font") {
				c.addURL(attr(n, "href"))
			}
		case atom.Style:
			var sb strings.Builder
			for t := n.FirstChild; t != nil; t = t.NextSibling {
				if t.Type == html.TextNode {
					sb.WriteString(t.Data)
				}
			}
			c.crawlCSS(sb.String())
		}
	}
}

func (c *collector) inventory() scene.FontInventory {
	inv := scene.FontInventory{
		URLs:     c.urls,
		Families: make(map[string][]string, len(c.families)),
	}
	if inv.URLs == nil {
		inv.URLs = []string{}
	}
	for fam, set := range c.families {
		variants := make([]string, 0, len(set))
		for v := range set {
			variants = append(variants, v)
		}
		slices.Sort(variants)
		inv.Families[fam] = variants
	}
	return inv
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
