package email

import (
	"fmt"
	"html/template"
	"net/url"
	"strings"
)

var verificationTemplate = template.Must(template.New("verification").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>{{.AppName}}</h2>
  <p>Sveiki, {{.Name}}!</p>
  <p>Lai apstiprinātu savu e-pasta adresi, nospiediet zemāk esošo pogu. Saite ir derīga 24 stundas.</p>
  <p><a href="{{.Link}}" style="display: inline-block; padding: 10px 20px; background: #1a56db; color: #fff; text-decoration: none; border-radius: 4px;">Apstiprināt e-pastu</a></p>
  <p>Ja poga nedarbojas, atveriet šo saiti pārlūkā:<br>{{.Link}}</p>
  <p>Ja šo kontu neveidojāt Jūs, ignorējiet šo vēstuli.</p>
</body>
</html>`))

var passwordResetTemplate = template.Must(template.New("password_reset").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>{{.AppName}}</h2>
  <p>Sveiki, {{.Name}}!</p>
  <p>Saņēmām pieprasījumu atiestatīt Jūsu paroli. Saite ir derīga 1 stundu.</p>
  <p><a href="{{.Link}}" style="display: inline-block; padding: 10px 20px; background: #1a56db; color: #fff; text-decoration: none; border-radius: 4px;">Atiestatīt paroli</a></p>
  <p>Ja poga nedarbojas, atveriet šo saiti pārlūkā:<br>{{.Link}}</p>
  <p>Ja paroles maiņu nepieprasījāt Jūs, ignorējiet šo vēstuli. Jūsu parole paliek nemainīta.</p>
</body>
</html>`))

type templateData struct {
	AppName string
	Name    string
	Link    string
}

// Composer builds the portal's outbound messages. Links are built from the
// configured public base URL so they work behind reverse proxies.
type Composer struct {
	appName string
	baseURL string
}

// NewComposer creates a message composer.
func NewComposer(appName, baseURL string) *Composer {
	return &Composer{
		appName: appName,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// VerificationMessage builds the subject and HTML body for an email
// verification message carrying the given token.
func (c *Composer) VerificationMessage(name, token string) (subject, htmlBody string, err error) {
	link := fmt.Sprintf("%s/verify-email?token=%s", c.baseURL, url.QueryEscape(token))
	body, err := render(verificationTemplate, templateData{AppName: c.appName, Name: name, Link: link})
	if err != nil {
		return "", "", err
	}
	return fmt.Sprintf("%s: apstipriniet savu e-pasta adresi", c.appName), body, nil
}

// PasswordResetMessage builds the subject and HTML body for a password reset
// message carrying the given token.
func (c *Composer) PasswordResetMessage(name, token string) (subject, htmlBody string, err error) {
	link := fmt.Sprintf("%s/reset-password?token=%s", c.baseURL, url.QueryEscape(token))
	body, err := render(passwordResetTemplate, templateData{AppName: c.appName, Name: name, Link: link})
	if err != nil {
		return "", "", err
	}
	return fmt.Sprintf("%s: paroles atiestatīšana", c.appName), body, nil
}

func render(tmpl *template.Template, data templateData) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render email template: %w", err)
	}
	return sb.String(), nil
}
