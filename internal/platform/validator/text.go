package validator

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

// PlainText strips markup from user-entered text such as captions, comments
// and bios. The policy's entity escaping is undone: the result is stored and
// served as text, so `Tom & Jerry's` must come back unchanged.
type PlainText struct {
	policy *bluemonday.Policy
}

func NewPlainText() *PlainText {
	return &PlainText{policy: bluemonday.StrictPolicy()}
}

// Clean removes tags (and the bodies of script and style elements). Length
// rules apply to what Clean returns.
func (p *PlainText) Clean(s string) string {
	return html.UnescapeString(p.policy.Sanitize(s))
}
