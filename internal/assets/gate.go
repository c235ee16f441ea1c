// Package assets decides whether an image-dependent section can show its
// local file or has to fall back to a placeholder.
package assets

import (
	"fmt"
	"io/fs"
	"net/url"
	"path"
)

// PlaceholderBase is the remote image service used for missing assets.
const PlaceholderBase = "https://via.placeholder.com/600x800"

// Placeholder describes what to show instead of a missing asset.
type Placeholder struct {
	Notice string
	URL    string
}

// Resolution is the outcome of an existence check. Exactly one of
// RenderPath (Present) or Placeholder (Absent) is meaningful.
type Resolution struct {
	Name        string
	Present     bool
	RenderPath  string
	Placeholder *Placeholder
}

// Gate resolves named local assets.
type Gate interface {
	Resolve(name string) Resolution
}

// FSGate checks assets in a file system and serves present ones under a
// URL prefix. Every call hits the file system; nothing is cached.
type FSGate struct {
	fsys      fs.FS
	urlPrefix string
	onMissing func(name string)
}

var _ Gate = (*FSGate)(nil)

// NewFSGate returns a gate over fsys whose present assets render as
// urlPrefix/name. onMissing, when non-nil, is called for every absent asset.
func NewFSGate(fsys fs.FS, urlPrefix string, onMissing func(name string)) *FSGate {
	return &FSGate{fsys: fsys, urlPrefix: urlPrefix, onMissing: onMissing}
}

// Resolve never fails: any stat error, including an invalid name, resolves
// to a placeholder.
func (g *FSGate) Resolve(name string) Resolution {
	if g.exists(name) {
		return Present(name, path.Join(g.urlPrefix, name))
	}
	if g.onMissing != nil {
		g.onMissing(name)
	}
	return Absent(name)
}

func (g *FSGate) exists(name string) bool {
	if !fs.ValidPath(name) {
		return false
	}
	info, err := fs.Stat(g.fsys, name)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// Present is the resolution for an asset that exists.
func Present(name, renderPath string) Resolution {
	return Resolution{Name: name, Present: true, RenderPath: renderPath}
}

// Absent is the resolution for a missing asset.
func Absent(name string) Resolution {
	return Resolution{
		Name: name,
		Placeholder: &Placeholder{
			Notice: fmt.Sprintf("Add %s to the images folder to display it here.", name),
			URL:    PlaceholderBase + "?text=" + url.QueryEscape(name+" missing"),
		},
	}
}
