// Package html provides the Normaliser for crawled site pages.
// It strips non-prose subtrees (scripts, styles, noscript blocks and
// iframes), flattens the remaining markup to whitespace-collapsed text,
// and splits text into sentence-like units for snippet ranking.
package html
