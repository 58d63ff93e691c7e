// AngelaMos | 2026
// messages.go

package notify

import (
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"
)

// Message builders take plain fields rather than domain entities so the
// domain packages never import each other through here.

func ApplicationSubmittedMessage(
	name string,
	email string,
	telegramHandle string,
	skills []string,
	experience string,
) string {
	var b strings.Builder

	b.WriteString("<b>New Application</b>\n\n")
	fmt.Fprintf(&b, "<b>Name:</b> %s\n", html.EscapeString(name))
	fmt.Fprintf(&b, "<b>Email:</b> %s\n", html.EscapeString(email))

	if telegramHandle != "" {
		fmt.Fprintf(
			&b,
			"<b>Telegram:</b> %s\n",
			html.EscapeString(telegramHandle),
		)
	}

	if len(skills) > 0 {
		fmt.Fprintf(
			&b,
			"<b>Skills:</b> %s\n",
			html.EscapeString(strings.Join(skills, ", ")),
		)
	}

	if experience != "" {
		fmt.Fprintf(
			&b,
			"\n<b>Experience:</b>\n%s\n",
			html.EscapeString(truncate(experience, 500)),
		)
	}

	return b.String()
}

func ApplicationReviewedMessage(name, email, decision string) string {
	return fmt.Sprintf(
		"<b>Application %s</b>\n\n<b>Applicant:</b> %s (%s)",
		html.EscapeString(decision),
		html.EscapeString(name),
		html.EscapeString(email),
	)
}

func ProjectSubmittedMessage(title, submitterName string) string {
	return fmt.Sprintf(
		"<b>New Project Submission</b>\n\n<b>Title:</b> %s\n<b>By:</b> %s",
		html.EscapeString(title),
		html.EscapeString(submitterName),
	)
}

func ProjectReviewedMessage(title, decision, category string) string {
	var b strings.Builder

	b.WriteString("<b>Project ")
	b.WriteString(html.EscapeString(decision))
	b.WriteString("</b>\n\n")
	fmt.Fprintf(&b, "<b>Title:</b> %s\n", html.EscapeString(title))

	if category != "" {
		fmt.Fprintf(&b, "<b>Category:</b> %s\n", html.EscapeString(category))
	}

	return b.String()
}

func PaymentConfirmedMessage(
	email string,
	planType string,
	amount int64,
	currency string,
	expiresAt time.Time,
) string {
	return fmt.Sprintf(
		"<b>Payment Confirmed</b>\n\n"+
			"<b>User:</b> %s\n"+
			"<b>Plan:</b> %s\n"+
			"<b>Amount:</b> %s %d\n"+
			"<b>Expires:</b> %s",
		html.EscapeString(email),
		html.EscapeString(planType),
		html.EscapeString(currency),
		amount,
		expiresAt.Format("2006-01-02"),
	)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	// Back up to a rune boundary so the cut never splits a character.
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max] + "…"
}
