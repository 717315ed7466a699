package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/hyperifyio/novelgrab/internal/app"
	"github.com/hyperifyio/novelgrab/internal/extract"
	"github.com/hyperifyio/novelgrab/internal/fetch"
	"github.com/hyperifyio/novelgrab/internal/legacy"
	"github.com/hyperifyio/novelgrab/internal/search"
	"github.com/hyperifyio/novelgrab/internal/toc"
)

// debugsearch runs the search stage once and, with -list, the listing stage,
// printing what was extracted. Nothing is written to disk.
func main() {
	searchURL := flag.String("search.url", app.DefaultSearchURL, "Search endpoint")
	source := flag.String("site.source", app.DefaultSourceHost, "Source host")
	mirror := flag.String("site.mirror", app.DefaultMirrorHost, "Mirror host")
	list := flag.Bool("list", false, "Also fetch the chapter listing")
	sslVerify := flag.Bool("ssl.verify", false, "Verify TLS certificates")
	flag.Parse()

	q := "斗破苍穹"
	if flag.NArg() > 0 { q = strings.Join(flag.Args(), " ") }

	hc := app.NewHTTPClient(*sslVerify, app.DefaultTimeout)
	client, err := fetch.New(fetch.Options{HTTPClient: hc, UserAgent: fetch.DefaultUserAgent, PerRequestTimeout: app.DefaultTimeout})
	if err != nil { fmt.Println("err:", err); os.Exit(1) }
	pats, err := extract.NewPatterns(*source)
	if err != nil { fmt.Println("err:", err); os.Exit(1) }

	ctx, cancel := context.WithTimeout(context.Background(), 2*app.DefaultTimeout)
	defer cancel()

	site := &search.Site{Client: client, SearchURL: *searchURL, SourceHost: *source, MirrorHost: *mirror, Codec: legacy.Default(), Patterns: pats}
	res, err := site.Search(ctx, q)
	fmt.Println("err:", err)
	fmt.Printf("query:  %s (%s)\ntitle:  %s\nauthor: %s\nurl:    %s\n", q, legacy.EncodeQuery(q), res.Title, res.Author, res.DocumentLocation)
	if !*list || res.DocumentLocation == "" {
		return
	}
	lister := &toc.Lister{Client: client, SourceHost: *source, MirrorHost: *mirror, Patterns: pats}
	urls, err := lister.List(ctx, res.DocumentLocation)
	fmt.Println("err:", err)
	fmt.Printf("chapters: %d\n", len(urls))
	for i, u := range urls {
		if i == 3 { fmt.Println("..."); break }
		fmt.Printf("%d. %s\n", i+1, u)
	}
}
