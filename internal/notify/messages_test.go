// AngelaMos | 2026
// messages_test.go

package notify

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestApplicationSubmittedMessageEscapesHTML(t *testing.T) {
	t.Parallel()

	msg := ApplicationSubmittedMessage(
		"<script>alert(1)</script>",
		"mallory@example.com",
		"@mallory",
		[]string{"go", "<b>bold</b>"},
		"built a thing",
	)

	assert.NotContains(t, msg, "<script>")
	assert.Contains(t, msg, "&lt;script&gt;")
	assert.Contains(t, msg, "@mallory")
	assert.Contains(t, msg, "go, &lt;b&gt;bold&lt;/b&gt;")
}

func TestApplicationSubmittedMessageOmitsEmptyFields(t *testing.T) {
	t.Parallel()

	msg := ApplicationSubmittedMessage(
		"Jordan", "jordan@example.com", "", nil, "",
	)

	assert.NotContains(t, msg, "Telegram")
	assert.NotContains(t, msg, "Skills")
	assert.NotContains(t, msg, "Experience")
}

func TestApplicationSubmittedMessageTruncatesExperience(t *testing.T) {
	t.Parallel()

	msg := ApplicationSubmittedMessage(
		"Jordan", "jordan@example.com", "", nil,
		strings.Repeat("a", 2000),
	)

	assert.Contains(t, msg, "…")
	assert.Less(t, len(msg), 1000)
}

func TestTruncateCutsOnRuneBoundary(t *testing.T) {
	t.Parallel()

	got := truncate(strings.Repeat("é", 300), 301)

	assert.True(t, utf8.ValidString(got),
		"truncation never splits a multibyte character")
	assert.True(t, strings.HasSuffix(got, "…"))
}

func TestPaymentConfirmedMessage(t *testing.T) {
	t.Parallel()

	msg := PaymentConfirmedMessage(
		"jordan@example.com",
		"inner",
		3499,
		"INR",
		time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC),
	)

	assert.Contains(t, msg, "INR 3499")
	assert.Contains(t, msg, "2026-09-15")
	assert.Contains(t, msg, "inner")
}
