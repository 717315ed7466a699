// Package chapter downloads one chapter page and reduces it to plain text.
package chapter

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/novelgrab/internal/extract"
	"github.com/hyperifyio/novelgrab/internal/legacy"
)

// Getter is the part of the transport client the chapter stage needs.
type Getter interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

// Fetcher fetches and cleans chapter pages.
type Fetcher struct {
	Client   Getter
	Codec    *legacy.Codec
	Patterns *extract.Patterns
}

// Fetch returns the cleaned body of the chapter at rawURL. found is false
// when the page lacks either ad-slot marker; the text is then "" and err nil.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (text string, found bool, err error) {
	raw, err := f.Client.Get(ctx, rawURL)
	if err != nil {
		return "", false, err
	}
	text, found = f.Clean(raw)
	log.Debug().Str("url", rawURL).Int("bytes", len(raw)).Bool("found", found).Int("chars", len(text)).Msg("chapter cleaned")
	return text, found, nil
}

// Clean decodes raw chapter bytes and extracts the region between the
// ad-slot 2 and ad-slot 3 markers. The bool reports whether both markers
// were present.
func (f *Fetcher) Clean(raw []byte) (string, bool) {
	codec := f.Codec
	if codec == nil {
		codec = legacy.Default()
	}
	body, ok := extract.First(f.Patterns.ChapterBody, codec.DecodeDocument(raw))
	if !ok {
		return "", false
	}
	return extract.Strip(body, extract.ChapterNoise), true
}
