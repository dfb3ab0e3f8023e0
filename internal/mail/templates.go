package mail

import (
	"bytes"
	"html/template"
	"time"
)

var (
	inviteTmpl = template.Must(template.New("invite").Parse(`<!doctype html>
<html><body>
<p>{{.SenderName}} invited you to collaborate on the board <strong>{{.BoardTitle}}</strong>.</p>
<p><a href="{{.AcceptURL}}">Open the invitation</a></p>
<p>The invitation expires on {{.ExpiresAt.Format "2006-01-02 15:04 MST"}}.</p>
</body></html>`))

	verifyTmpl = template.Must(template.New("verify").Parse(`<!doctype html>
<html><body>
<p>Your verification code is <strong>{{.Code}}</strong>.</p>
<p>It expires on {{.ExpiresAt.Format "2006-01-02 15:04 MST"}}. If you did not request it, ignore this email.</p>
</body></html>`))
)

type InviteData struct {
	SenderName string
	BoardTitle string
	AcceptURL  string
	ExpiresAt  time.Time
}

type VerifyCodeData struct {
	Code      string
	ExpiresAt time.Time
}

func InviteMessage(to string, data InviteData) (Message, error) {
	body, err := render(inviteTmpl, data)
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: "You have been invited to " + data.BoardTitle, HTMLBody: body}, nil
}

func VerifyCodeMessage(to string, data VerifyCodeData) (Message, error) {
	body, err := render(verifyTmpl, data)
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: "Your verification code", HTMLBody: body}, nil
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
