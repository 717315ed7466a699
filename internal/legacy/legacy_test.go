package legacy

import (
	"strings"
	"testing"

	"golang.org/x/text/encoding/simplifiedchinese"
)

func TestEncodeQuery_KnownBytes(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"abc", "%61%62%63"},
		{"中文", "%D6%D0%CE%C4"},
		{"", ""},
		{"a b", "%61%20%62"},
	}
	for _, tc := range cases {
		if got := EncodeQuery(tc.in); got != tc.want {
			t.Fatalf("EncodeQuery(%q)=%q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEncodeQuery_AlphabetAndLength(t *testing.T) {
	inputs := []string{
		"Example Novel",
		"斗破苍穹",
		"mixed 大主宰 2024!",
		"😀 emoji falls back",
		"tab\tand\nnewline",
		string([]byte{0xff, 0xfe, 'x'}),
	}
	for _, in := range inputs {
		got := EncodeQuery(in)
		if len(got)%3 != 0 {
			t.Fatalf("EncodeQuery(%q) length %d not divisible by 3", in, len(got))
		}
		for i, r := range got {
			ok := r == '%' || (r >= '0' && r <= '9') || (r >= 'A' && r <= 'F')
			if !ok {
				t.Fatalf("EncodeQuery(%q) has %q at %d", in, r, i)
			}
			if i%3 == 0 && r != '%' {
				t.Fatalf("EncodeQuery(%q) expected %% at %d, got %q", in, i, r)
			}
		}
	}
}

func TestEncodeQuery_UnmappableUsesNumericReference(t *testing.T) {
	// "&#128512;" in ASCII
	want := "%26%23%31%32%38%35%31%32%3B"
	if got := EncodeQuery("😀"); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDecodeDocument_RoundTrip(t *testing.T) {
	texts := []string{
		"第一章 少年\n\n  他抬起头。",
		"plain ascii body",
		"",
	}
	enc := simplifiedchinese.GBK.NewEncoder()
	for _, text := range texts {
		raw, err := enc.String(text)
		if err != nil {
			t.Fatalf("encode fixture %q: %v", text, err)
		}
		if got := DecodeDocument([]byte(raw)); got != text {
			t.Fatalf("round trip mismatch: got %q want %q", got, text)
		}
	}
}

func TestDecodeDocument_InvalidBytesAreReplaced(t *testing.T) {
	got := DecodeDocument([]byte{'o', 'k', 0x81})
	if !strings.HasPrefix(got, "ok") {
		t.Fatalf("expected prefix ok, got %q", got)
	}
	if !strings.Contains(got, "�") {
		t.Fatalf("expected replacement character, got %q", got)
	}
}

func TestLookup(t *testing.T) {
	c, err := Lookup("")
	if err != nil || c != Default() {
		t.Fatalf("empty label should give default codec, got %v %v", c, err)
	}
	c, err = Lookup("GB18030")
	if err != nil {
		t.Fatalf("lookup gb18030: %v", err)
	}
	if c.Name() != "gb18030" {
		t.Fatalf("name=%q", c.Name())
	}
	if got := c.EncodeQuery("中"); got != "%D6%D0" {
		t.Fatalf("gb18030 encode=%q", got)
	}
	if _, err := Lookup("not-an-encoding"); err == nil {
		t.Fatalf("expected error for unknown label")
	}
}

func TestDecodePage(t *testing.T) {
	gbk, err := simplifiedchinese.GBK.NewEncoder().String("斗破苍穹")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	cases := []struct {
		name, body, contentType, want string
	}{
		{"declared gbk", gbk, "text/html; charset=gbk", "斗破苍穹"},
		{"declared gb2312 label", gbk, "text/html; charset=GB2312", "斗破苍穹"},
		{"utf-8 default", "斗破苍穹", "text/html", "斗破苍穹"},
		{"no content type", "plain", "", "plain"},
		{"unknown charset", "ok\xff", "text/html; charset=x-nope", "ok�"},
		{"undeclared gbk bytes", "a\xb6\xb7", "text/html", "a�"},
	}
	for _, tc := range cases {
		if got := DecodePage([]byte(tc.body), tc.contentType); got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}
