package mailer

import (
	"fmt"
	"html"
)

func MigrationComplete(to, backendName string) Message {
	return Message{
		To:      to,
		Subject: "Your Lift Legends profile has moved",
		HTML: fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto; padding: 24px;">
	<h2>Profile import complete</h2>
	<p>Your training profile is now stored on <strong>%s</strong>. Sign in with this email to pick up where you left off.</p>
</div>`, html.EscapeString(backendName)),
	}
}
