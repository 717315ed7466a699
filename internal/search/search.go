// Package search runs the site's search form and reads the first hit.
package search

import (
	"context"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/novelgrab/internal/extract"
	"github.com/hyperifyio/novelgrab/internal/fetch"
	"github.com/hyperifyio/novelgrab/internal/legacy"
)

// Result is the first hit on a results page. Each field is empty when its
// sub-pattern did not match, independently of the others.
type Result struct {
	Title            string
	Author           string
	DocumentLocation string
}

// Poster is the part of the transport client the search stage needs.
type Poster interface {
	PostFormPage(ctx context.Context, rawURL string, form url.Values) (fetch.Page, error)
}

// Site submits queries to one search endpoint.
type Site struct {
	Client    Poster
	SearchURL string
	// SourceHost is the host result links point at; MirrorHost replaces it.
	SourceHost string
	MirrorHost string
	Codec      *legacy.Codec
	Patterns   *extract.Patterns
}

// Search posts query and returns the first result block. A page without any
// result block yields a zero Result and no error; callers decide whether an
// empty DocumentLocation is fatal.
func (s *Site) Search(ctx context.Context, query string) (Result, error) {
	codec := s.Codec
	if codec == nil {
		codec = legacy.Default()
	}
	form := url.Values{
		"searchkey":  {codec.EncodeQuery(query)},
		"searchtype": {"all"},
	}
	page, err := s.Client.PostFormPage(ctx, s.SearchURL, form)
	if err != nil {
		return Result{}, err
	}
	res := s.Parse(legacy.DecodePage(page.Body, page.ContentType))
	log.Debug().Str("query", query).Str("title", res.Title).Str("location", res.DocumentLocation).Msg("search parsed")
	return res, nil
}

// Parse extracts the first result block of a results page.
func (s *Site) Parse(page string) Result {
	p := s.Patterns
	block, ok := extract.First(p.ResultBlock, page)
	if !ok {
		return Result{}
	}
	var res Result
	if link, ok := extract.First(p.Link, block); ok {
		res.DocumentLocation = extract.Strip(link, []extract.Replacement{
			{Old: ".htm", New: "/"},
			extract.HostRewrite(s.SourceHost, s.MirrorHost),
		})
	}
	if title, ok := extract.First(p.Title, block); ok {
		res.Title = extract.Strip(title, extract.Highlight)
	}
	if author, ok := extract.First(p.Author, block); ok {
		res.Author = extract.Strip(author, extract.Highlight)
	}
	return res
}
