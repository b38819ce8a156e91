package http

import (
	"html/template"
	"net/http"

	"github.com/AshesOfPhoenix/telepost/internal/core/domain"
)

// landingPage is the data for one success/failure page render.
type landingPage struct {
	Title    string
	Heading  string
	Message  string
	Success  bool
	BotLink  string
	BotLabel string
}

const landingTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width,initial-scale=1">
  <meta name="color-scheme" content="light dark">
  <title>{{.Title}}</title>
  <style>
    :root { --ok: #2ea86e; --fail: #d9534f; --bg: #f5f7fa; --card: #ffffff; }
    @media (prefers-color-scheme: dark) {
      :root { --bg: #161a20; --card: #1f242c; }
      body { color: #e4e7eb; }
    }
    body { margin: 0; font-family: -apple-system, "Segoe UI", Roboto, sans-serif; background: var(--bg);
           display: flex; min-height: 100vh; align-items: center; justify-content: center; }
    .card { background: var(--card); border-radius: 12px; padding: 40px 48px; max-width: 420px;
            text-align: center; box-shadow: 0 4px 24px rgba(0,0,0,.08); }
    .badge { width: 64px; height: 64px; border-radius: 50%; margin: 0 auto 24px; display: flex;
             align-items: center; justify-content: center; font-size: 32px; color: #fff;
             background: {{if .Success}}var(--ok){{else}}var(--fail){{end}}; }
    h1 { font-size: 22px; margin: 0 0 12px; }
    p { margin: 0 0 28px; opacity: .8; line-height: 1.5; }
    a.button { display: inline-block; padding: 12px 28px; border-radius: 8px; text-decoration: none;
               color: #fff; background: #2aabee; font-weight: 600; }
  </style>
</head>
<body>
  <div class="card">
    <div class="badge">{{if .Success}}&#10003;{{else}}&#10007;{{end}}</div>
    <h1>{{.Heading}}</h1>
    <p>{{.Message}}</p>
    {{if .BotLink}}<a class="button" href="{{.BotLink}}">{{.BotLabel}}</a>{{end}}
  </div>
</body>
</html>`

// pageRenderer renders the OAuth callback landing pages. Both outcomes
// deep-link back into the Telegram bot when a bot name is configured.
type pageRenderer struct {
	tpl     *template.Template
	botName string
}

func newPageRenderer(botName string) *pageRenderer {
	return &pageRenderer{
		tpl:     template.Must(template.New("landing").Parse(landingTemplate)),
		botName: botName,
	}
}

func (p *pageRenderer) botLink(platform domain.Provider, success bool) string {
	if p.botName == "" {
		return ""
	}
	suffix := "_connected"
	if !success {
		suffix = "_error"
	}
	return "https://t.me/" + p.botName + "?start=" + platform.String() + suffix
}

// renderSuccess writes the connected page.
func (p *pageRenderer) renderSuccess(w http.ResponseWriter, platform domain.Provider) {
	p.render(w, http.StatusOK, landingPage{
		Title:    "Account connected",
		Heading:  "Account connected",
		Message:  "Your " + platform.String() + " account is now linked. You can close this window.",
		Success:  true,
		BotLink:  p.botLink(platform, true),
		BotLabel: "Back to the bot",
	})
}

// renderFailure writes the failed page. Message must not leak provider
// internals; detail belongs in logs.
func (p *pageRenderer) renderFailure(w http.ResponseWriter, platform domain.Provider, message string) {
	if message == "" {
		message = "The authorization could not be completed. Please try connecting again."
	}
	p.render(w, http.StatusOK, landingPage{
		Title:    "Connection failed",
		Heading:  "Connection failed",
		Message:  message,
		Success:  false,
		BotLink:  p.botLink(platform, false),
		BotLabel: "Try again from the bot",
	})
}

func (p *pageRenderer) render(w http.ResponseWriter, status int, page landingPage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = p.tpl.Execute(w, page)
}
