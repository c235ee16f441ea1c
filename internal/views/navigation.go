// Package views maps the sidebar selection to one of the four site views
// and builds the data each view's template renders.
package views

// View is the navigation selection held by the page shell. The zero value
// is AboutMe.
type View int

const (
	AboutMe View = iota
	Projects
	Certifications
	Contact
)

var (
	slugs  = [...]string{"about", "projects", "certifications", "contact"}
	labels = [...]string{"About Me", "My Projects", "My Certifications", "Contact Me"}
)

// All lists the views in sidebar order.
func All() []View {
	return []View{AboutMe, Projects, Certifications, Contact}
}

// ParseSlug maps a URL slug to its view.
func ParseSlug(slug string) (View, bool) {
	for i, s := range slugs {
		if s == slug {
			return View(i), true
		}
	}
	return AboutMe, false
}

func (v View) valid() bool {
	return v >= AboutMe && v <= Contact
}

// Slug is the URL path segment for v.
func (v View) Slug() string {
	if !v.valid() {
		return ""
	}
	return slugs[v]
}

// Label is the sidebar text for v.
func (v View) Label() string {
	if !v.valid() {
		return ""
	}
	return labels[v]
}

func (v View) String() string {
	return v.Slug()
}
