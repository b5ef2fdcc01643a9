package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-envparse"
)

// DefaultOSReleasePath is read when package_manager is auto.
const DefaultOSReleasePath = "/etc/os-release"

// OSRelease holds the distribution identifiers from os-release(5).
type OSRelease struct {
	ID         string
	IDLike     []string
	PrettyName string
}

func ReadOSRelease(path string) (*OSRelease, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	vars, err := envparse.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &OSRelease{
		ID:         strings.ToLower(vars["ID"]),
		IDLike:     strings.Fields(strings.ToLower(vars["ID_LIKE"])),
		PrettyName: vars["PRETTY_NAME"],
	}, nil
}

// Name is PRETTY_NAME, or ID when the file has none.
func (r *OSRelease) Name() string {
	if r.PrettyName != "" {
		return r.PrettyName
	}
	return r.ID
}

var distroManagers = map[string]string{
	"debian":              "apt",
	"ubuntu":              "apt",
	"linuxmint":           "apt",
	"pop":                 "apt",
	"raspbian":            "apt",
	"fedora":              "dnf",
	"rhel":                "dnf",
	"centos":              "dnf",
	"rocky":               "dnf",
	"almalinux":           "dnf",
	"amzn":                "yum",
	"arch":                "pacman",
	"manjaro":             "pacman",
	"endeavouros":         "pacman",
	"opensuse":            "zypper",
	"opensuse-leap":       "zypper",
	"opensuse-tumbleweed": "zypper",
	"sles":                "zypper",
	"suse":                "zypper",
}

// PackageManager picks the preset for ID, then each ID_LIKE entry in order.
// Unrecognised distributions get apt.
func (r *OSRelease) PackageManager() string {
	for _, id := range append([]string{r.ID}, r.IDLike...) {
		if pm, ok := distroManagers[id]; ok {
			return pm
		}
	}
	return "apt"
}
