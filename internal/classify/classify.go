// Package classify routes search hits into valid and excluded piles.
package classify

import (
	"context"
	"regexp"
	"strconv"

	"github.com/pfrederiksen/docket-watch/internal/docket"
	"github.com/pfrederiksen/docket-watch/internal/filter"
	"github.com/pfrederiksen/docket-watch/internal/logger"
	"github.com/pfrederiksen/docket-watch/internal/search"
)

// urlYearPattern matches the first /YYYY/ path segment, the publication
// year convention of most news site URLs.
var urlYearPattern = regexp.MustCompile(`/(\d{4})/`)

// URLYear extracts the publication year from an article URL. The second
// return is false when the URL carries no year segment.
func URLYear(url string) (int, bool) {
	m := urlYearPattern.FindStringSubmatch(url)
	if m == nil {
		return 0, false
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return year, true
}

// AuthorResolver resolves the byline for an article URL.
type AuthorResolver interface {
	Resolve(ctx context.Context, url string) string
}

// Hit is a search hit annotated with its article year and resolved author.
// A Year of zero means the URL carried no year segment.
type Hit struct {
	search.Hit
	Year   int
	Author string
}

// ExcludedHit is a Hit that tripped an exclusion rule.
type ExcludedHit struct {
	Hit
	Reason string
}

// Classifier annotates search hits with year and author, then applies the
// exclusion rules to split them into valid and excluded lists.
type Classifier struct {
	resolver AuthorResolver
	rules    *filter.Rules
	log      *logger.Logger
}

// New creates a Classifier.
func New(resolver AuthorResolver, rules *filter.Rules, log *logger.Logger) *Classifier {
	return &Classifier{
		resolver: resolver,
		rules:    rules,
		log:      log,
	}
}

// Classify splits the hits of one search response into valid and excluded
// lists. The case year is derived once from caseNumber; each hit's article
// year comes from its URL and its author from the resolver. Hits are
// evaluated in response order and every hit lands in exactly one list.
func (c *Classifier) Classify(ctx context.Context, resp *search.Response, caseNumber string) ([]Hit, []ExcludedHit) {
	if resp == nil || len(resp.Items) == 0 {
		return nil, nil
	}

	caseYear, ok := docket.CaseYear(caseNumber)
	if ok {
		c.log.Debug("extracted case year", "case_number", caseNumber, "year", caseYear)
	} else {
		c.log.Debug("no year in case number", "case_number", caseNumber)
	}

	var valid []Hit
	var excluded []ExcludedHit
	for _, item := range resp.Items {
		articleYear, _ := URLYear(item.Link)
		hit := Hit{
			Hit:    item,
			Year:   articleYear,
			Author: c.resolver.Resolve(ctx, item.Link),
		}

		verdict := c.rules.Evaluate(hit.Author, hit.Link, caseYear, articleYear)
		if verdict.Excluded() {
			c.log.Debug("excluding hit", "link", hit.Link, "reason", verdict.Reason)
			excluded = append(excluded, ExcludedHit{Hit: hit, Reason: verdict.Reason})
			continue
		}
		valid = append(valid, hit)
	}

	c.log.Info("classified search hits",
		"case_number", caseNumber,
		"valid", len(valid),
		"excluded", len(excluded),
	)
	return valid, excluded
}
