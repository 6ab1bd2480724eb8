// Package views renders the HTML pages of the service as templ components.
package views

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/a-h/templ"

	"github.com/dropDatabas3/hellosocial/internal/social"
)

// Nombres lógicos de las vistas; se exponen en <body data-view>.
const HelloView = "hello"

func ConnectStatusView() string { return "connect/status" }

func ConnectView(p social.ProviderID) string { return "connect/" + string(p) + "Connect" }

func ConnectedView(p social.ProviderID) string { return "connect/" + string(p) + "Connected" }

// Render escribe c como respuesta HTML con status.
func Render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	templ.Handler(c, templ.WithStatus(status)).ServeHTTP(w, r)
}

// page is a writer that stops at the first error.
type page struct {
	w   io.Writer
	err error
}

func (p *page) raw(s string) {
	if p.err == nil {
		_, p.err = io.WriteString(p.w, s)
	}
}

func (p *page) text(s string) { p.raw(templ.EscapeString(s)) }

func (p *page) rawf(format string, args ...any) {
	if p.err == nil {
		_, p.err = fmt.Fprintf(p.w, format, args...)
	}
}

// safeURL drops URLs with schemes other than http, https and mailto.
func safeURL(u string) string {
	return templ.EscapeString(string(templ.URL(u)))
}

func layout(view, title string, body func(p *page)) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		p := &page{w: w}
		p.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		p.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		p.raw(`<title>`)
		p.text(title)
		p.raw(`</title><style>body{font-family:sans-serif;max-width:40rem;margin:2rem auto}img.avatar{border-radius:50%;width:96px;height:96px}</style></head>`)
		p.rawf(`<body data-view="%s"><main>`, templ.EscapeString(view))
		body(p)
		p.raw(`</main></body></html>`)
		return p.err
	})
}

func disconnectForm(p *page, provider social.ProviderID) {
	p.rawf(`<form method="post" action="%s">`, templ.EscapeString(provider.ConnectPath()))
	p.raw(`<input type="hidden" name="_method" value="delete">`)
	p.raw(`<button type="submit">Disconnect from `)
	p.text(provider.DisplayName())
	p.raw(`</button></form>`)
}

// Hello renders the profile of provider found in vm.
func Hello(provider social.ProviderID, vm social.ViewModel) templ.Component {
	profile, _ := vm.Profile(provider)
	if profile == nil {
		profile = &social.Profile{}
	}
	return layout(HelloView, "Hello, "+profile.Name, func(p *page) {
		p.raw(`<h1>Hello, <span class="name">`)
		p.text(profile.Name)
		p.raw(`</span>!</h1>`)
		if profile.Picture != "" {
			p.rawf(`<img class="avatar" src="%s" alt="">`, safeURL(profile.Picture))
		}
		p.raw(`<dl><dt>`)
		p.text(provider.DisplayName())
		p.raw(` ID</dt><dd class="profile-id">`)
		p.text(profile.ID)
		p.raw(`</dd>`)
		if profile.Email != "" {
			p.raw(`<dt>Email</dt><dd>`)
			p.text(profile.Email)
			p.raw(`</dd>`)
		}
		if profile.Link != "" {
			p.rawf(`<dt>Profile</dt><dd><a href="%s">`, safeURL(profile.Link))
			p.text(profile.Link)
			p.raw(`</a></dd>`)
		}
		p.raw(`</dl>`)
		disconnectForm(p, provider)
	})
}

// ProviderStatus is one row of the connection status page.
type ProviderStatus struct {
	Provider  social.ProviderID
	Connected bool
}

func ConnectStatus(rows []ProviderStatus) templ.Component {
	return layout(ConnectStatusView(), "Connections", func(p *page) {
		p.raw(`<h1>Connections</h1><ul>`)
		for _, row := range rows {
			p.rawf(`<li data-provider="%s"><a href="%s">`, templ.EscapeString(row.Provider.String()), templ.EscapeString(row.Provider.ConnectPath()))
			p.text(row.Provider.DisplayName())
			p.raw(`</a> `)
			if row.Connected {
				p.raw(`<span class="status">connected</span>`)
			} else {
				p.raw(`<span class="status">not connected</span>`)
			}
			p.raw(`</li>`)
		}
		p.raw(`</ul>`)
	})
}

// Connect offers to start the OAuth dance with provider.
func Connect(provider social.ProviderID) templ.Component {
	return layout(ConnectView(provider), "Connect to "+provider.DisplayName(), func(p *page) {
		p.raw(`<h1>Connect to `)
		p.text(provider.DisplayName())
		p.raw(`</h1><p>You are not connected to `)
		p.text(provider.DisplayName())
		p.raw(` yet.</p>`)
		p.rawf(`<form method="post" action="%s">`, templ.EscapeString(provider.ConnectPath()))
		p.raw(`<button type="submit">Connect to `)
		p.text(provider.DisplayName())
		p.raw(`</button></form>`)
	})
}

// Connected shows the stored connection of provider.
func Connected(provider social.ProviderID, conn *social.Connection) templ.Component {
	return layout(ConnectedView(provider), "Connected to "+provider.DisplayName(), func(p *page) {
		p.raw(`<h1>Connected to `)
		p.text(provider.DisplayName())
		p.raw(`</h1>`)
		if conn != nil {
			if conn.ImageURL != "" {
				p.rawf(`<img class="avatar" src="%s" alt="">`, safeURL(conn.ImageURL))
			}
			p.raw(`<p>Connected as <strong>`)
			p.text(conn.DisplayName)
			p.raw(`</strong>.</p>`)
		}
		p.raw(`<p><a href="/">View your profile</a></p>`)
		disconnectForm(p, provider)
	})
}
