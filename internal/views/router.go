package views

import (
	"fmt"
	"html/template"

	"github.com/ayush-velhal/portfolio/internal/assets"
	"github.com/ayush-velhal/portfolio/internal/content"
	"github.com/ayush-velhal/portfolio/internal/contact"
	"github.com/ayush-velhal/portfolio/internal/store"
)

// Output is what a view hands to the page shell: the template to execute
// and its data.
type Output struct {
	View     View
	Template string
	Title    string
	Data     map[string]any
}

// MessageLister reads the stored contact messages.
type MessageLister interface {
	LoadAll() ([]store.ContactMessage, error)
	Location() string
}

// Router dispatches a selection to its view.
type Router struct {
	content      *content.Source
	gate         assets.Gate
	messages     MessageLister
	showMessages bool
	onRender     func(View)
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithMessages enables the received-messages panel on the contact view.
func WithMessages(lister MessageLister) RouterOption {
	return func(r *Router) {
		r.messages = lister
		r.showMessages = lister != nil
	}
}

// WithRenderHook registers fn to run for every rendered view.
func WithRenderHook(fn func(View)) RouterOption {
	return func(r *Router) { r.onRender = fn }
}

// NewRouter returns a router reading copy from src and checking image
// assets through gate.
func NewRouter(src *content.Source, gate assets.Gate, opts ...RouterOption) *Router {
	r := &Router{content: src, gate: gate}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render returns the output of the selected view.
func (r *Router) Render(sel View) Output {
	var out Output
	switch sel {
	case AboutMe:
		out = r.about()
	case Projects:
		out = r.projects()
	case Certifications:
		out = r.certifications()
	case Contact:
		out = r.Contact(ContactPanel{})
	default:
		panic(fmt.Sprintf("views: unknown view %d", int(sel)))
	}
	if r.onRender != nil {
		r.onRender(sel)
	}
	return out
}

// Profile returns the active site content.
func (r *Router) Profile() *content.Profile {
	return r.content.Current()
}

func (r *Router) about() Output {
	p := r.content.Current()

	bio := make([]template.HTML, 0, len(p.Bio))
	for _, para := range p.Bio {
		bio = append(bio, content.Markdown(para))
	}

	return Output{
		View:     AboutMe,
		Template: "about.html",
		Title:    p.Greeting,
		Data: map[string]any{
			"greeting": p.Greeting,
			"portrait": r.gate.Resolve(p.Portrait),
			"caption":  p.PortraitCaption,
			"bio":      bio,
			"badges":   p.Badges,
			"facts":    p.Facts,
		},
	}
}

func (r *Router) projects() Output {
	p := r.content.Current()
	return Output{
		View:     Projects,
		Template: "projects.html",
		Title:    "📂 My Projects",
		Data: map[string]any{
			"projects": p.Projects,
			"status":   p.ProjectsStatus,
		},
	}
}

// CertificationCard is one rendered certification.
type CertificationCard struct {
	Title     string
	Issuer    string
	Completed string
	Width     int
	Image     assets.Resolution
	Notes     template.HTML
}

func (r *Router) certifications() Output {
	p := r.content.Current()

	cards := make([]CertificationCard, 0, len(p.Certifications))
	for _, c := range p.Certifications {
		card := CertificationCard{
			Title:     c.Title,
			Issuer:    c.Issuer,
			Completed: c.Completed,
			Width:     c.ImageWidth,
			Notes:     content.Markdown(c.Notes),
		}
		if c.Image != "" {
			card.Image = r.gate.Resolve(c.Image)
		}
		cards = append(cards, card)
	}

	return Output{
		View:     Certifications,
		Template: "certifications.html",
		Title:    "🎓 My Certifications",
		Data: map[string]any{
			"certifications": cards,
		},
	}
}

// ContactPanel is the form state the contact view renders: the current
// field values and, after a submit, its outcome.
type ContactPanel struct {
	Fields  contact.Fields
	Outcome *contact.Outcome
}

// Contact renders the contact view for panel.
func (r *Router) Contact(panel ContactPanel) Output {
	p := r.content.Current()

	data := map[string]any{
		"intro":        p.ContactIntro,
		"fields":       panel.Fields,
		"showMessages": r.showMessages,
	}
	if o := panel.Outcome; o != nil {
		data["notice"] = o.Notice
		data["accepted"] = o.State == contact.Accepted
		data["missing"] = o.Missing()
	}

	return Output{
		View:     Contact,
		Template: "contact.html",
		Title:    "✉️ Contact Me",
		Data:     data,
	}
}

// ShowsMessages reports whether the received-messages panel is enabled.
func (r *Router) ShowsMessages() bool {
	return r.showMessages
}

// Messages renders the received-messages table. A log that cannot be read
// renders as a notice instead of failing the page.
func (r *Router) Messages() Output {
	data := map[string]any{}
	if r.messages != nil {
		data["location"] = r.messages.Location()
		records, err := r.messages.LoadAll()
		if err != nil {
			data["error"] = fmt.Sprintf("Could not read %s: %v", r.messages.Location(), err)
		} else {
			data["messages"] = records
		}
	}
	return Output{
		View:     Contact,
		Template: "messages.html",
		Title:    "📥 Received messages",
		Data:     data,
	}
}
