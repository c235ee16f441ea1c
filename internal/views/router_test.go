package views

import (
	"errors"
	"html/template"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush-velhal/portfolio/internal/assets"
	"github.com/ayush-velhal/portfolio/internal/contact"
	"github.com/ayush-velhal/portfolio/internal/content"
	"github.com/ayush-velhal/portfolio/internal/store"
)

type fakeLister struct {
	records []store.ContactMessage
	err     error
}

func (f *fakeLister) LoadAll() ([]store.ContactMessage, error) { return f.records, f.err }
func (f *fakeLister) Location() string                        { return "contact_messages.csv" }

func newTestRouter(fsys fstest.MapFS, opts ...RouterOption) *Router {
	gate := assets.NewFSGate(fsys, "/images", nil)
	return NewRouter(content.StaticSource(content.Default()), gate, opts...)
}

func TestParseSlug(t *testing.T) {
	for _, v := range All() {
		got, ok := ParseSlug(v.Slug())
		require.True(t, ok)
		assert.Equal(t, v, got)
	}

	_, ok := ParseSlug("blog")
	assert.False(t, ok)
	assert.Equal(t, "My Certifications", Certifications.Label())
	assert.Equal(t, "", View(42).Label())
}

func TestRouter_DispatchesEveryView(t *testing.T) {
	var rendered []View
	r := newTestRouter(fstest.MapFS{}, WithRenderHook(func(v View) { rendered = append(rendered, v) }))

	want := map[View]string{
		AboutMe:        "about.html",
		Projects:       "projects.html",
		Certifications: "certifications.html",
		Contact:        "contact.html",
	}
	for _, v := range All() {
		out := r.Render(v)
		assert.Equal(t, v, out.View)
		assert.Equal(t, want[v], out.Template)
	}
	assert.Equal(t, All(), rendered)
}

func TestRouter_AboutPortraitPresent(t *testing.T) {
	r := newTestRouter(fstest.MapFS{"portrait.jpg": {Data: []byte("jpeg")}})

	out := r.Render(AboutMe)

	portrait := out.Data["portrait"].(assets.Resolution)
	assert.True(t, portrait.Present)
	assert.Equal(t, "/images/portrait.jpg", portrait.RenderPath)
	assert.Equal(t, "Hey, I'm Ayush 👋", out.Data["greeting"])
	bio := out.Data["bio"].([]template.HTML)
	require.Len(t, bio, 2)
	assert.Contains(t, string(bio[0]), "<strong>AI/ML</strong>")
}

func TestRouter_AboutPortraitMissing(t *testing.T) {
	r := newTestRouter(fstest.MapFS{})

	out := r.Render(AboutMe)

	portrait := out.Data["portrait"].(assets.Resolution)
	assert.False(t, portrait.Present)
	require.NotNil(t, portrait.Placeholder)
	assert.Contains(t, portrait.Placeholder.URL, "portrait.jpg+missing")
}

func TestRouter_Certifications(t *testing.T) {
	r := newTestRouter(fstest.MapFS{"AWSCloudPractionerSS.png": {Data: []byte("png")}})

	out := r.Render(Certifications)

	cards := out.Data["certifications"].([]CertificationCard)
	require.Len(t, cards, 1)
	assert.True(t, cards[0].Image.Present)
	assert.Equal(t, 250, cards[0].Width)
	assert.Contains(t, string(cards[0].Notes), "Issued by AWS Training")

	r = newTestRouter(fstest.MapFS{})
	cards = r.Render(Certifications).Data["certifications"].([]CertificationCard)
	assert.False(t, cards[0].Image.Present)
	assert.Contains(t, cards[0].Image.Placeholder.Notice, "AWSCloudPractionerSS.png")
}

func TestRouter_ProjectsStatus(t *testing.T) {
	out := newTestRouter(fstest.MapFS{}).Render(Projects)
	assert.Equal(t, "IN PROGRESS", out.Data["status"])
	assert.Empty(t, out.Data["projects"])
}

func TestRouter_ContactPanel(t *testing.T) {
	r := newTestRouter(fstest.MapFS{}, WithMessages(&fakeLister{}))

	out := r.Render(Contact)
	assert.Equal(t, contact.Fields{}, out.Data["fields"])
	assert.Equal(t, true, out.Data["showMessages"])
	assert.NotContains(t, out.Data, "notice")

	fields := contact.Fields{Email: "a@x.com", Message: "hi"}
	outcome := contact.Outcome{
		State:  contact.Rejected,
		Notice: contact.NoticeInvalid,
		Err:    &contact.ValidationError{MissingFields: []string{"name"}},
	}
	out = r.Contact(ContactPanel{Fields: fields, Outcome: &outcome})
	assert.Equal(t, fields, out.Data["fields"])
	assert.Equal(t, contact.NoticeInvalid, out.Data["notice"])
	assert.Equal(t, false, out.Data["accepted"])
	assert.Equal(t, []string{"name"}, out.Data["missing"])
}

func TestRouter_Messages(t *testing.T) {
	records := []store.ContactMessage{{Timestamp: "2025-08-16T09:30:00", Name: "Ayush", Email: "a@x.com", Message: "hi"}}
	r := newTestRouter(fstest.MapFS{}, WithMessages(&fakeLister{records: records}))
	assert.True(t, r.ShowsMessages())

	out := r.Messages()
	assert.Equal(t, records, out.Data["messages"])
	assert.NotContains(t, out.Data, "error")

	r = newTestRouter(fstest.MapFS{}, WithMessages(&fakeLister{err: errors.New("CORRUPT contact_messages.csv")}))
	out = r.Messages()
	assert.Contains(t, out.Data["error"], "CORRUPT")
	assert.NotContains(t, out.Data, "messages")

	assert.False(t, newTestRouter(fstest.MapFS{}).ShowsMessages())
}

func TestRouter_UnknownViewPanics(t *testing.T) {
	r := newTestRouter(fstest.MapFS{})
	assert.Panics(t, func() { r.Render(View(9)) })
}
