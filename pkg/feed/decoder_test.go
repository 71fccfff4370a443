package feed

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  [][]string
	}{
		{
			name:  "escaped quote",
			input: `a,"b""c",d`,
			want:  [][]string{{"a", `b"c`, "d"}},
		},
		{
			name:  "embedded newline",
			input: "a,\"line1\nline2\",b\nc,d,e",
			want:  [][]string{{"a", "line1\nline2", "b"}, {"c", "d", "e"}},
		},
		{
			name:  "blank rows skipped",
			input: "a,b\n\n\nc,d",
			want:  [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name:  "trailing newline",
			input: "a,b\nc,d\n",
			want:  [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name:  "crlf and bare cr",
			input: "a,b\r\nc,d\re,f",
			want:  [][]string{{"a", "b"}, {"c", "d"}, {"e", "f"}},
		},
		{
			name:  "quoted comma",
			input: `x,"one, two",y`,
			want:  [][]string{{"x", "one, two", "y"}},
		},
		{
			name:  "cells trimmed",
			input: "  a , b  ,c\t",
			want:  [][]string{{"a", "b", "c"}},
		},
		{
			name:  "byte order mark stripped",
			input: "\uFEFFid,url\n1,https://x.com/1",
			want:  [][]string{{"id", "url"}, {"1", "https://x.com/1"}},
		},
		{
			name:  "row of empty cells dropped",
			input: "a,b\n , ,\nc,d",
			want:  [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name:  "trailing empty cell kept",
			input: "a,",
			want:  [][]string{{"a", ""}},
		},
		{
			name:  "quoted crlf kept literally",
			input: "\"a\r\nb\",c",
			want:  [][]string{{"a\r\nb", "c"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decode(tt.input))
		})
	}
}

func TestDecode_Empty(t *testing.T) {
	assert.Empty(t, Decode(""))
	assert.Empty(t, Decode("\n\r\n"))
	assert.Empty(t, Decode(byteOrderMark))
}

func TestDecode_RoundTripWithStandardWriter(t *testing.T) {
	rows := [][]string{
		{"id", "platform", "url", "hashtags", "title"},
		{"1", "x", "https://x.com/a/status/1", "#one, #two", `she said "hi"`},
		{"2", "instagram", "https://instagram.com/p/abc", "line one\nline two", ""},
		{"3", "tiktok", "https://tiktok.com/@a/video/3", `""quoted""`, "a,b,c"},
		{"4", "facebook", "https://facebook.com/p/4", "multi\nline\n\"mixed\", content", "ไทย"},
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	require.NoError(t, w.WriteAll(rows))

	assert.Equal(t, rows, Decode(buf.String()))
}

func TestDecodeReader(t *testing.T) {
	rows, err := DecodeReader(strings.NewReader("a,b\nc,d\n"))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}}, rows)
}
