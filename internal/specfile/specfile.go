// Package specfile loads the compiler's XML specs file (§6): target
// triple, maintainer, search paths, signing keys and the cache-directory
// policy. XML parsing is intentionally standard-library — the core
// spec names "XML parsing of spec … files" as an external collaborator,
// not a kernel concern.
package specfile

import (
	"bytes"
	"context"
	"encoding/xml"

	"github.com/pkg/errors"
	"github.com/viant/afs"

	"github.com/viant/nocc/internal/diagnostic"
)

// CacheDir is the `<cachedir cow="yes|no" pref="yes|no">` element.
type CacheDir struct {
	Path string
	COW  bool
	Pref bool
}

// Spec is the decoded, environment-expanded specs file content.
type Spec struct {
	Target      string
	Maintainer  string
	HashAlgo    string
	PrivKey     string
	TrustedKeys []string
	EPath       []string
	Extn        []string
	IPath       []string
	LPath       []string
	Gperf       string
	GProlog     string
	GDB         string
	Wget        string
	WgetOpts    string
	CacheDir    *CacheDir
}

type rawCacheDir struct {
	COW   string `xml:"cow,attr"`
	Pref  string `xml:"pref,attr"`
	Value string `xml:",chardata"`
}

type rawRoot struct {
	XMLName     xml.Name
	Target      string        `xml:"target"`
	Maintainer  string        `xml:"maintainer"`
	HashAlgo    string        `xml:"hashalgo"`
	PrivKey     string        `xml:"privkey"`
	TrustedKey  []string      `xml:"trustedkey"`
	EPath       []string      `xml:"epath"`
	Extn        []string      `xml:"extn"`
	IPath       []string      `xml:"ipath"`
	LPath       []string      `xml:"lpath"`
	Gperf       string        `xml:"gperf"`
	GProlog     string        `xml:"gprolog"`
	GDB         string        `xml:"gdb"`
	Wget        string        `xml:"wget"`
	WgetOpts    string       `xml:"wgetopts"`
	CacheDir    *rawCacheDir `xml:"cachedir"`
}

// Load reads the specs file at url through fs and parses it.
func Load(ctx context.Context, fs afs.Service, url string, diag *diagnostic.Counter) (*Spec, error) {
	data, err := fs.DownloadWithURL(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(err, "specfile: reading %s", url)
	}
	return Parse(data, diag)
}

// Parse decodes specs-file XML content, expanding $NAME environment
// references and backslash escapes in every scalar value
// (specfile_stringdupenv), and records a warning diagnostic for every
// unrecognised root-level element rather than failing the parse.
func Parse(data []byte, diag *diagnostic.Counter) (*Spec, error) {
	raw, unknown, err := decodeRaw(data)
	if err != nil {
		return nil, errors.Wrap(err, "specfile: parse")
	}
	for _, name := range unknown {
		if diag != nil {
			diag.Errorf(diagnostic.Warning, diagnostic.Origin{}, "specfile: unrecognised element <%s>, ignored", name.Local)
		}
	}

	spec := &Spec{
		Target:     ExpandEnv(raw.Target, diag),
		Maintainer: ExpandEnv(raw.Maintainer, diag),
		HashAlgo:   ExpandEnv(raw.HashAlgo, diag),
		PrivKey:    ExpandEnv(raw.PrivKey, diag),
		Gperf:      ExpandEnv(raw.Gperf, diag),
		GProlog:    ExpandEnv(raw.GProlog, diag),
		GDB:        ExpandEnv(raw.GDB, diag),
		Wget:       ExpandEnv(raw.Wget, diag),
		WgetOpts:   ExpandEnv(raw.WgetOpts, diag),
	}
	for _, v := range raw.TrustedKey {
		spec.TrustedKeys = append(spec.TrustedKeys, ExpandEnv(v, diag))
	}
	for _, v := range raw.EPath {
		spec.EPath = append(spec.EPath, ExpandEnv(v, diag))
	}
	for _, v := range raw.Extn {
		spec.Extn = append(spec.Extn, ExpandEnv(v, diag))
	}
	for _, v := range raw.IPath {
		spec.IPath = append(spec.IPath, ExpandEnv(v, diag))
	}
	for _, v := range raw.LPath {
		spec.LPath = append(spec.LPath, ExpandEnv(v, diag))
	}
	if raw.CacheDir != nil {
		spec.CacheDir = &CacheDir{
			Path: ExpandEnv(raw.CacheDir.Value, diag),
			COW:  raw.CacheDir.COW == "yes",
			Pref: raw.CacheDir.Pref == "yes",
		}
	}
	return spec, nil
}

// decodeRaw unmarshals data and separately collects the names of any
// top-level child elements the schema doesn't recognise: encoding/xml's
// ",any" catch-all only fires for elements with no matching named field,
// so a second decode pass over raw tokens finds those names.
func decodeRaw(data []byte) (*rawRoot, []xml.Name, error) {
	var raw rawRoot
	if err := xml.Unmarshal(data, &raw); err != nil {
		return nil, nil, err
	}

	known := map[string]bool{
		"target": true, "maintainer": true, "hashalgo": true, "privkey": true,
		"trustedkey": true, "epath": true, "extn": true, "ipath": true, "lpath": true,
		"gperf": true, "gprolog": true, "gdb": true, "wget": true, "wgetopts": true,
		"cachedir": true,
	}

	var unknown []xml.Name
	dec := xml.NewDecoder(bytes.NewReader(data))
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		if se, ok := tok.(xml.StartElement); ok {
			depth++
			if depth == 2 && !known[se.Name.Local] {
				unknown = append(unknown, se.Name)
			}
		}
		if _, ok := tok.(xml.EndElement); ok {
			depth--
		}
	}
	return &raw, unknown, nil
}
