package tracker

// Info is the Debian security tracker data, keyed by source package name and then by CVE identifier.
type Info map[string]map[string]CVE

type CVE struct {
	Description string                 `json:"description,omitempty"`
	Scope       string                 `json:"scope,omitempty"`
	Releases    map[string]ReleaseInfo `json:"releases"`
}

// ReleaseInfo is the state of a CVE for a package within one Debian release.
type ReleaseInfo struct {
	Status       string            `json:"status"`
	Repositories map[string]string `json:"repositories"`
	FixedVersion string            `json:"fixed_version,omitempty"`
	Urgency      string            `json:"urgency"`
}

// Tracks reports whether the security tracker has any record for the given source package, under any CVE.
func (i Info) Tracks(source string) bool {
	_, ok := i[source]
	return ok
}
