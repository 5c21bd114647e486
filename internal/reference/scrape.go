package reference

import (
	"bytes"
	"context"
	"regexp"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"

	"maqamat/internal/services"
)

// menuSourceMaqam is the page whose sidebar lists every maqam; any maqam page would do.
const menuSourceMaqam = "ajam"

var (
	menuLinks = xpath.MustCompile(`//*[contains(concat(' ', normalize-space(@class), ' '), ' sub-menu ')]//a[@href]`)
	jinsLinks = xpath.MustCompile(`//*[contains(concat(' ', normalize-space(@class), ' '), ' mapLink ')][@href]`)

	maqamHref = regexp.MustCompile(`/en/maqam/(.*)\.php`)
	jinsHref  = regexp.MustCompile(`\.\./jins/(.*)\.php`)
)

// MaqamEntry is one maqam as listed by the reference site.
type MaqamEntry struct {
	Name  string   `json:"name"`
	Ajnas []string `json:"ajnas,omitempty"`
}

// Maqamat returns the maqam names listed in the reference site menu, in menu
// order, without duplicates or configured skips.
func (c *Client) Maqamat(ctx context.Context) ([]string, error) {
	page, err := c.MaqamPage(ctx, menuSourceMaqam)
	if err != nil {
		return nil, err
	}
	hrefs, err := selectHrefs(page, menuLinks)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "reference", "parse menu", c.MaqamURL(menuSourceMaqam), err)
	}

	var names []string
	seen := make(map[string]struct{})
	for _, href := range hrefs {
		if href == "#" {
			continue
		}
		match := maqamHref.FindStringSubmatch(href)
		if match == nil {
			continue
		}
		name := match[1]
		if _, skip := c.skip[name]; skip {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names, nil
}

// Ajnas returns the ajnas linked from the maqam's map, in page order.
// Repeated links are kept since a jins can appear at several degrees.
func (c *Client) Ajnas(ctx context.Context, maqam string) ([]string, error) {
	page, err := c.MaqamPage(ctx, maqam)
	if err != nil {
		return nil, err
	}
	hrefs, err := selectHrefs(page, jinsLinks)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "reference", "parse jins map", c.MaqamURL(maqam), err)
	}

	var ajnas []string
	for _, href := range hrefs {
		if match := jinsHref.FindStringSubmatch(href); match != nil {
			ajnas = append(ajnas, match[1])
		}
	}
	return ajnas, nil
}

// Survey lists every maqam together with its ajnas. Maqamat whose pages fail
// to load are returned with their error in failed; the survey continues.
func (c *Client) Survey(ctx context.Context) (entries []MaqamEntry, failed map[string]error, err error) {
	names, err := c.Maqamat(ctx)
	if err != nil {
		return nil, nil, err
	}
	failed = make(map[string]error)
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return entries, failed, err
		}
		ajnas, err := c.Ajnas(ctx, name)
		if err != nil {
			failed[name] = err
			continue
		}
		entries = append(entries, MaqamEntry{Name: name, Ajnas: ajnas})
	}
	return entries, failed, nil
}

func selectHrefs(page []byte, expr *xpath.Expr) ([]string, error) {
	doc, err := htmlquery.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, err
	}
	nodes := htmlquery.QuerySelectorAll(doc, expr)
	hrefs := make([]string, 0, len(nodes))
	for _, node := range nodes {
		hrefs = append(hrefs, htmlquery.SelectAttr(node, "href"))
	}
	return hrefs, nil
}
