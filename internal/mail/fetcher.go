// Package mail retrieves transaction-notification emails over IMAP and
// hands them to the pipeline as plain-text RawMessages.
package mail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"

	"github.com/arjunmk/mailspend/internal/domain"
	"github.com/arjunmk/mailspend/internal/logger"
)

// Fetcher connects to a mailbox and pulls recent mail from known bank
// senders. A connection is opened per Fetch and closed when it returns.
type Fetcher struct {
	address  string
	password string
	server   string
	port     int
	senders  map[string]bool
}

// NewFetcher builds a Fetcher for the given account. senders is the
// allowlist of bank sender addresses; anything else is skipped.
func NewFetcher(address, password, server string, port int, senders []string) *Fetcher {
	allow := make(map[string]bool, len(senders))
	for _, s := range senders {
		allow[strings.ToLower(s)] = true
	}
	return &Fetcher{
		address:  address,
		password: password,
		server:   server,
		port:     port,
		senders:  allow,
	}
}

// Fetch returns messages received since the given time, in mailbox
// order. The IMAP search is by date only (SINCE has day granularity);
// sender and exact-time filtering happen client-side.
func (f *Fetcher) Fetch(ctx context.Context, since time.Time) ([]domain.RawMessage, error) {
	log := logger.FromContext(ctx)

	addr := fmt.Sprintf("%s:%d", f.server, f.port)
	c, err := client.DialTLS(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("dial imap %s: %w", addr, err)
	}
	defer c.Logout()

	if err := c.Login(f.address, f.password); err != nil {
		return nil, fmt.Errorf("imap login: %w", err)
	}

	if _, err := c.Select("INBOX", true); err != nil {
		return nil, fmt.Errorf("select inbox: %w", err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.Since = since
	seqNums, err := c.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("imap search: %w", err)
	}

	log.Info().Int("candidates", len(seqNums)).Time("since", since).Msg("Searched mailbox")
	if len(seqNums) == 0 {
		return nil, nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(seqNums...)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchEnvelope, section.FetchItem()}

	messages := make(chan *imap.Message, 16)
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqset, items, messages)
	}()

	var out []domain.RawMessage
	for msg := range messages {
		raw, ok := f.convert(msg, section, since)
		if !ok {
			continue
		}
		out = append(out, raw)
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("imap fetch: %w", err)
	}

	log.Info().Int("messages", len(out)).Msg("Fetched bank emails")
	return out, nil
}

func (f *Fetcher) convert(msg *imap.Message, section *imap.BodySectionName, since time.Time) (domain.RawMessage, bool) {
	if msg.Envelope == nil {
		return domain.RawMessage{}, false
	}

	sender := envelopeSender(msg.Envelope)
	if !f.senders[strings.ToLower(sender)] {
		return domain.RawMessage{}, false
	}
	if msg.Envelope.Date.Before(since) {
		return domain.RawMessage{}, false
	}

	r := msg.GetBody(section)
	if r == nil {
		return domain.RawMessage{}, false
	}

	return domain.RawMessage{
		Subject:   msg.Envelope.Subject,
		Sender:    sender,
		Body:      extractBody(r),
		Timestamp: msg.Envelope.Date,
	}, true
}

func envelopeSender(env *imap.Envelope) string {
	if len(env.From) == 0 {
		return ""
	}
	a := env.From[0]
	return fmt.Sprintf("%s@%s", a.MailboxName, a.HostName)
}
