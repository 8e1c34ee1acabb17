// Package index maintains the reverse index from keyword sub-tokens to the
// headlines they were extracted from.
package index

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/citybeat-nyc/headline-harvester/internal/store"
)

// ListPrefix namespaces the reverse-index lists in the store.
const ListPrefix = "keywords:"

// A sub-token is an alphanumeric run, optionally keeping one colon that
// immediately follows it ("nypd:" stays whole); every other non-alphanumeric
// run separates tokens.
var subTokenRe = regexp.MustCompile(`[a-zA-Z0-9]+:?`)

// Indexer appends headlines to per-sub-token lists in the store.
type Indexer struct {
	store store.Store
}

func New(s store.Store) *Indexer {
	return &Indexer{store: s}
}

// SubTokens splits a keyword into normalized, lower-cased sub-tokens.
func SubTokens(keyword string) []string {
	return subTokenRe.FindAllString(strings.ToLower(keyword), -1)
}

// ListKey returns the store key for a sub-token's headline list. Colons would
// collide with the key namespace separator, so they become hyphens.
func ListKey(subToken string) string {
	return ListPrefix + strings.ReplaceAll(subToken, ":", "-")
}

// Append records the headline under every sub-token of the keyword. Appends
// are at-least-once: a headline enriched more than once may appear multiple
// times under the same sub-token, and consumers must tolerate that.
func (i *Indexer) Append(ctx context.Context, keyword, headline string) error {
	for _, sub := range SubTokens(keyword) {
		if err := i.store.AppendToList(ctx, ListKey(sub), headline); err != nil {
			return fmt.Errorf("append headline under %q: %w", sub, err)
		}
	}
	return nil
}
