package subsonic

import (
	"net/url"
	"strconv"
	"strings"
)

// Query accumulates outgoing request parameters in insertion order. A key
// appears in the encoded request only if a call explicitly added it, so
// omitted optional arguments never show up as sentinel values.
type Query struct {
	pairs []queryPair
}

type queryPair struct {
	key   string
	value string
}

// NewQuery returns an empty parameter set.
func NewQuery() *Query {
	return &Query{}
}

// Arg appends one key/value pair and returns the query for chaining.
func (q *Query) Arg(key, value string) *Query {
	q.pairs = append(q.pairs, queryPair{key: key, value: value})
	return q
}

// ArgUint appends an unsigned integer argument in its decimal text form.
func (q *Query) ArgUint(key string, value uint64) *Query {
	return q.Arg(key, strconv.FormatUint(value, 10))
}

// Len reports how many parameters have been added.
func (q *Query) Len() int {
	return len(q.pairs)
}

// Pairs returns the accumulated parameters in insertion order.
func (q *Query) Pairs() [][2]string {
	out := make([][2]string, 0, len(q.pairs))
	for _, p := range q.pairs {
		out = append(out, [2]string{p.key, p.value})
	}
	return out
}

// Encode renders the parameters as a URL query string, preserving
// insertion order.
func (q *Query) Encode() string {
	var b strings.Builder
	for i, p := range q.pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}
