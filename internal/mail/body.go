package mail

import (
	"io"
	"regexp"
	"strings"

	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
)

var htmlTag = regexp.MustCompile(`<[^>]+>`)

// extractBody decodes a MIME message into plain text. text/plain parts
// win; when a message only carries HTML, tags are stripped. Undecodable
// bytes are dropped rather than failing the message.
func extractBody(r io.Reader) string {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return ""
	}

	var plain, html string
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		h, ok := p.Header.(*mail.InlineHeader)
		if !ok {
			continue // attachment
		}

		ct, _, err := h.ContentType()
		if err != nil {
			continue
		}

		data, err := io.ReadAll(p.Body)
		if err != nil {
			continue
		}

		switch ct {
		case "text/plain":
			if plain == "" {
				plain = string(data)
			}
		case "text/html":
			if html == "" {
				html = string(data)
			}
		}
	}

	body := plain
	if body == "" && html != "" {
		body = stripHTML(html)
	}

	return strings.TrimSpace(strings.ToValidUTF8(body, ""))
}

// stripHTML is a crude tag remover; it only has to leave enough prose
// for the pattern catalog to chew on. Entities like &nbsp; are kept
// verbatim because the HTML-body rules match on them.
func stripHTML(s string) string {
	return htmlTag.ReplaceAllString(s, " ")
}
