package extract

import (
	"errors"
	"fmt"
	"regexp"
)

// Markup shapes of the search, listing and chapter pages.
const (
	resultBlockPattern = `(<li>[\s\S]*?<a target=[\s\S]*?<img[\s\S]*?</li>)`
	linkPattern        = `<a target="_blank" href="(.*?)" class="imgbox">`
	titlePattern       = `<h3><a target="_blank" href=".*?">(.*?)</a></h3>`
	authorPattern      = `<div class="labelbox">[\s\S]*?<label>(.*?)</label>`
	listingPatternFmt  = `<li data-num="\d*?"><a href="(https?://%s/txt/.*?)">.*?</a></li>`
	chapterBodyPattern = `(?s)<script>loadAdv\(2,0\);</script>(.*?)<script>loadAdv\(3,0\);</script>`
)

// Highlight removes the search-term highlight wrapper from titles and authors.
var Highlight = []Replacement{
	{`<span class="hottext">`, ""},
	{`</span>`, ""},
}

// ChapterNoise is the cleanup applied to a chapter body, in this order.
var ChapterNoise = []Replacement{
	{`<div class="bottom-ad">`, ""},
	{`</div>`, ""},
	{`&nbsp;`, " "},
	{`<br />`, ""},
	{`<br>`, ""},
	{"\r", ""},
	{`&emsp;`, "  "},
	{`(本章完)`, ""},
}

// Patterns holds the compiled matchers for one source host.
type Patterns struct {
	ResultBlock *regexp.Regexp
	Link        *regexp.Regexp
	Title       *regexp.Regexp
	Author      *regexp.Regexp
	Listing     *regexp.Regexp
	ChapterBody *regexp.Regexp
}

// NewPatterns compiles the matchers. sourceHost is the host chapter anchors
// on listing pages point at.
func NewPatterns(sourceHost string) (*Patterns, error) {
	if sourceHost == "" {
		return nil, errors.New("extract: source host is required")
	}
	p := &Patterns{}
	specs := []struct {
		dst     **regexp.Regexp
		pattern string
	}{
		{&p.ResultBlock, resultBlockPattern},
		{&p.Link, linkPattern},
		{&p.Title, titlePattern},
		{&p.Author, authorPattern},
		{&p.Listing, fmt.Sprintf(listingPatternFmt, regexp.QuoteMeta(sourceHost))},
		{&p.ChapterBody, chapterBodyPattern},
	}
	for _, s := range specs {
		re, err := Compile(s.pattern)
		if err != nil {
			return nil, err
		}
		*s.dst = re
	}
	return p, nil
}
