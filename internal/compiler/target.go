package compiler

import (
	"strings"

	"github.com/pkg/errors"
)

// Target (target_t, simplified) identifies the compilation target by its
// triple: CPU, vendor, OS.
type Target struct {
	CPU    string
	Vendor string
	OS     string
}

func (t Target) String() string {
	return t.CPU + "-" + t.Vendor + "-" + t.OS
}

// ParseTarget parses a "<cpu>-<vendor>-<os>" triple (specfile_setcomptarget's
// dash-split), e.g. "avr-atmel-none". A triple missing either dash is
// rejected, matching the original's "badly formed target" case, except the
// original only warns and keeps the previous target — here it is a fatal
// option error since Go callers decide what "previous" means.
func ParseTarget(spec string) (Target, error) {
	first := strings.IndexByte(spec, '-')
	if first < 0 {
		return Target{}, errors.Errorf("compiler: badly formed target %q, want <cpu>-<vendor>-<os>", spec)
	}
	rest := spec[first+1:]
	second := strings.IndexByte(rest, '-')
	if second < 0 {
		return Target{}, errors.Errorf("compiler: badly formed target %q, want <cpu>-<vendor>-<os>", spec)
	}
	return Target{
		CPU:    spec[:first],
		Vendor: rest[:second],
		OS:     rest[second+1:],
	}, nil
}
