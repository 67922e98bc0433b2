package source

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoPreBlock is returned when an HTML payload has no <pre> element.
var ErrNoPreBlock = errors.New("HTML payload has no <pre> block")

// Unwrap returns the dataset text carried by payload. Some mirrors serve the
// dataset wrapped in an HTML page; its first <pre> element is returned then.
// Any other payload is returned unchanged.
func Unwrap(payload string) (string, error) {
	if !looksLikeHTML(payload) {
		return payload, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	pre := doc.Find("pre").First()
	if pre.Length() == 0 {
		return "", ErrNoPreBlock
	}
	return strings.TrimLeft(pre.Text(), "\n"), nil
}

func looksLikeHTML(payload string) bool {
	head := strings.ToLower(strings.TrimSpace(payload))
	if len(head) > 512 {
		head = head[:512]
	}
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html") ||
		strings.Contains(head, "<body") || strings.HasPrefix(head, "<pre")
}
