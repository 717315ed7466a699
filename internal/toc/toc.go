// Package toc reads a work's table of contents into an ordered list of
// chapter URLs.
package toc

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/novelgrab/internal/extract"
	"github.com/hyperifyio/novelgrab/internal/fetch"
	"github.com/hyperifyio/novelgrab/internal/legacy"
)

// Getter is the part of the transport client the listing stage needs.
type Getter interface {
	GetPage(ctx context.Context, rawURL string) (fetch.Page, error)
}

// Lister fetches listing pages.
type Lister struct {
	Client     Getter
	SourceHost string
	MirrorHost string
	Patterns   *extract.Patterns
}

// List fetches the table of contents at location and returns every chapter
// link in page order, rewritten to the mirror host. A page with no chapter
// anchors yields an empty list and no error.
func (l *Lister) List(ctx context.Context, location string) ([]string, error) {
	page, err := l.Client.GetPage(ctx, location)
	if err != nil {
		return nil, err
	}
	urls := l.Parse(legacy.DecodePage(page.Body, page.ContentType))
	log.Debug().Str("url", location).Int("count", len(urls)).Msg("listing parsed")
	return urls, nil
}

// Parse returns the chapter URLs found in a listing page.
func (l *Lister) Parse(page string) []string {
	links := extract.All(l.Patterns.Listing, page)
	rewrite := []extract.Replacement{extract.HostRewrite(l.SourceHost, l.MirrorHost)}
	for i, link := range links {
		links[i] = extract.Strip(link, rewrite)
	}
	return links
}
