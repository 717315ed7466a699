package toc

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/hyperifyio/novelgrab/internal/extract"
	"github.com/hyperifyio/novelgrab/internal/fetch"
)

type fakeGetter struct {
	pages       map[string]string
	contentType string
	err         error
}

func (f fakeGetter) GetPage(_ context.Context, rawURL string) (fetch.Page, error) {
	if f.err != nil {
		return fetch.Page{}, f.err
	}
	return fetch.Page{Body: []byte(f.pages[rawURL]), ContentType: f.contentType}, nil
}

const listingPage = `<div class="catalog"><ul>
<li data-num="1"><a href="https://www.69shuba.com/txt/4242/1001">第一章 开始</a></li>
<li data-num="2"><a href="https://www.69shuba.com/txt/4242/1003">第二章 转折</a></li>
<li class="ad"><a href="https://www.69shuba.com/txt/4242/9999">not a chapter</a></li>
<li data-num="3"><a href="https://www.69shuba.com/txt/4242/1002">第三章 结局</a></li>
<li data-num="4"><a href="https://other.example/txt/4242/1004">foreign host</a></li>
</ul></div>`

func newLister(t *testing.T, g Getter) *Lister {
	t.Helper()
	pats, err := extract.NewPatterns("www.69shuba.com")
	if err != nil {
		t.Fatalf("patterns: %v", err)
	}
	return &Lister{Client: g, SourceHost: "www.69shuba.com", MirrorHost: "cooolr.online", Patterns: pats}
}

func TestList_OrderAndRewrite(t *testing.T) {
	loc := "https://cooolr.online/book/4242/"
	l := newLister(t, fakeGetter{pages: map[string]string{loc: listingPage}})
	got, err := l.List(context.Background(), loc)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{
		"https://cooolr.online/txt/4242/1001",
		"https://cooolr.online/txt/4242/1003",
		"https://cooolr.online/txt/4242/1002",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v\nwant %v", got, want)
	}
}

func TestList_UnexpectedPageIsEmpty(t *testing.T) {
	l := newLister(t, fakeGetter{pages: map[string]string{}})
	got, err := l.List(context.Background(), "https://cooolr.online/book/1/")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty listing, got %v", got)
	}
}

func TestList_TransportError(t *testing.T) {
	boom := errors.New("boom")
	l := newLister(t, fakeGetter{err: boom})
	if _, err := l.List(context.Background(), "https://cooolr.online/book/1/"); !errors.Is(err, boom) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestList_GBKListing(t *testing.T) {
	const loc = "https://cooolr.online/book/4242/"
	raw, err := simplifiedchinese.GBK.NewEncoder().String(listingPage)
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	l := newLister(t, fakeGetter{pages: map[string]string{loc: raw}, contentType: "text/html; charset=GBK"})
	got, err := l.List(context.Background(), loc)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 || got[0] != "https://cooolr.online/txt/4242/1001" {
		t.Fatalf("got %v", got)
	}
}
