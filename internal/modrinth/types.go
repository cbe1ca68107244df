package modrinth

import "strings"

// SearchResults is the response envelope of the /search endpoint.
type SearchResults struct {
	Hits      []SearchHit `json:"hits"`
	Offset    int         `json:"offset"`
	Limit     int         `json:"limit"`
	TotalHits int         `json:"total_hits"`
}

// SearchHit is one project entry in a search result.
type SearchHit struct {
	Slug          string   `json:"slug"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Author        string   `json:"author"`
	ProjectType   string   `json:"project_type"`
	Downloads     uint64   `json:"downloads"`
	Categories    []string `json:"categories"`
	Versions      []string `json:"versions"`
	ClientSide    string   `json:"client_side"`
	ServerSide    string   `json:"server_side"`
	LatestVersion string   `json:"latest_version"`
}

// Project is the full project record.
type Project struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ProjectType string   `json:"project_type"`
	ClientSide  string   `json:"client_side"`
	ServerSide  string   `json:"server_side"`
	Categories  []string `json:"categories"`
	Downloads   uint64   `json:"downloads"`
}

// Version is one released version of a project.
type Version struct {
	ID            string        `json:"id"`
	ProjectID     string        `json:"project_id"`
	VersionNumber string        `json:"version_number"`
	GameVersions  []string      `json:"game_versions"`
	Loaders       []string      `json:"loaders"`
	Files         []VersionFile `json:"files"`
}

// VersionFile is a downloadable artifact attached to a version.
type VersionFile struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Primary  bool   `json:"primary"`
	Size     int64  `json:"size"`
}

// Number returns the human version string, falling back to the id when the
// project does not set one.
func (v Version) Number() string {
	if v.VersionNumber != "" {
		return v.VersionNumber
	}
	return v.ID
}

// PrimaryFile returns the file marked primary, or the first file when none
// is marked.
func (v Version) PrimaryFile() (VersionFile, bool) {
	for _, f := range v.Files {
		if f.Primary {
			return f, true
		}
	}
	if len(v.Files) > 0 {
		return v.Files[0], true
	}
	return VersionFile{}, false
}

// SupportsLoader reports whether the version declares loader support. An
// empty loader list is treated as compatible.
func (v Version) SupportsLoader(loader string) bool {
	if len(v.Loaders) == 0 {
		return true
	}
	for _, l := range v.Loaders {
		if strings.EqualFold(l, loader) {
			return true
		}
	}
	return false
}

// SupportsGameVersion reports whether the version targets gameVersion. An
// empty game version list is treated as compatible.
func (v Version) SupportsGameVersion(gameVersion string) bool {
	if len(v.GameVersions) == 0 {
		return true
	}
	for _, gv := range v.GameVersions {
		if gv == gameVersion {
			return true
		}
	}
	return false
}

// ResolveVersion picks the newest version (the API returns newest first)
// compatible with gameVersion and, when loader is non-empty, that loader.
func ResolveVersion(versions []Version, gameVersion, loader string) (Version, bool) {
	for _, v := range versions {
		if loader != "" && !v.SupportsLoader(loader) {
			continue
		}
		if !v.SupportsGameVersion(gameVersion) {
			continue
		}
		return v, true
	}
	return Version{}, false
}
