// Package content holds the site copy rendered by the views: the built-in
// defaults, an optional YAML override file and its hot reloading.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Link is a sidebar quick link.
type Link struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

// Project is one card on the projects view.
type Project struct {
	Name    string   `yaml:"name"`
	Summary string   `yaml:"summary"`
	URL     string   `yaml:"url"`
	Tags    []string `yaml:"tags"`
}

// Certification is one entry on the certifications view. Image names a
// screenshot in the asset directory.
type Certification struct {
	Title      string `yaml:"title"`
	Issuer     string `yaml:"issuer"`
	Completed  string `yaml:"completed"`
	Image      string `yaml:"image"`
	ImageWidth int    `yaml:"image_width"`
	Notes      string `yaml:"notes"`
}

// Profile is everything the views print about the site owner.
type Profile struct {
	Title           string          `yaml:"title"`
	Brand           string          `yaml:"brand"`
	Owner           string          `yaml:"owner"`
	Greeting        string          `yaml:"greeting"`
	Portrait        string          `yaml:"portrait"`
	PortraitCaption string          `yaml:"portrait_caption"`
	Bio             []string        `yaml:"bio"`
	Badges          []string        `yaml:"badges"`
	Facts           []string        `yaml:"facts"`
	ProjectsStatus  string          `yaml:"projects_status"`
	Projects        []Project       `yaml:"projects"`
	Certifications  []Certification `yaml:"certifications"`
	ContactIntro    string          `yaml:"contact_intro"`
	Links           []Link          `yaml:"links"`
}

// Load returns the defaults overlaid with the YAML file at path. A missing
// file yields the defaults unchanged.
func Load(path string) (*Profile, error) {
	p := Default()
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read content file: %w", err)
	}
	if err := p.decode(data); err != nil {
		return nil, fmt.Errorf("failed to parse content file %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid content file %s: %w", path, err)
	}
	return p, nil
}

func (p *Profile) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks the fields every view depends on.
func (p *Profile) Validate() error {
	var problems []string
	if strings.TrimSpace(p.Title) == "" {
		problems = append(problems, "title is required")
	}
	if strings.TrimSpace(p.Owner) == "" {
		problems = append(problems, "owner is required")
	}
	for i, c := range p.Certifications {
		if strings.TrimSpace(c.Title) == "" {
			problems = append(problems, fmt.Sprintf("certifications[%d].title is required", i))
		}
		if c.ImageWidth < 0 {
			problems = append(problems, fmt.Sprintf("certifications[%d].image_width must not be negative", i))
		}
	}
	for i, l := range p.Links {
		if l.Label == "" || l.URL == "" {
			problems = append(problems, fmt.Sprintf("links[%d] needs a label and a url", i))
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
