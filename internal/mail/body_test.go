package mail

import (
	"strings"
	"testing"
)

const plainMessage = "From: alerts@hdfcbank.net\r\n" +
	"To: user@example.com\r\n" +
	"Subject: Transaction alert\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"Rs.500.00 has been debited from account 1234 for VPA store@upi\r\n"

const htmlMessage = "From: alerts@axisbank.com\r\n" +
	"To: user@example.com\r\n" +
	"Subject: Transaction alert\r\n" +
	"Content-Type: text/html; charset=utf-8\r\n" +
	"\r\n" +
	"<html><body><p>Transaction Amount: INR &nbsp;250.00</p>" +
	"<p>Merchant Name: STORE</p></body></html>\r\n"

func TestExtractBody_PlainText(t *testing.T) {
	body := extractBody(strings.NewReader(plainMessage))
	if !strings.Contains(body, "Rs.500.00 has been debited") {
		t.Errorf("body = %q, want the plain text content", body)
	}
}

func TestExtractBody_HTMLFallback(t *testing.T) {
	body := extractBody(strings.NewReader(htmlMessage))

	if strings.Contains(body, "<p>") || strings.Contains(body, "<html>") {
		t.Errorf("body still contains tags: %q", body)
	}
	if !strings.Contains(body, "Transaction Amount: INR &nbsp;250.00") {
		t.Errorf("body = %q, want entities kept verbatim", body)
	}
}

func TestExtractBody_Garbage(t *testing.T) {
	if body := extractBody(strings.NewReader("not an email at all")); body != "" {
		t.Errorf("body = %q, want empty for undecodable input", body)
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"tags removed", "<b>Rs. 100</b> debited", " Rs. 100  debited"},
		{"entities kept", "INR &nbsp;250.00", "INR &nbsp;250.00"},
		{"no markup", "plain text", "plain text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripHTML(tt.in); got != tt.want {
				t.Errorf("stripHTML(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
