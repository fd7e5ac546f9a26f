package models

import "time"

// Package is a published registry package. Exactly one Author owns it.
// UploadNames is the append-only sequence of upload identities
// ("name@version") recorded for this package.
type Package struct {
	Name                string    `json:"name"`
	CanonicalName       string    `json:"canonicalName"`
	Owner               string    `json:"owner"`
	Description         string    `json:"description"`
	RepositoryURL       string    `json:"repositoryUrl"`
	LatestVersion       string    `json:"latestVersion"`
	LatestStableVersion string    `json:"latestStableVersion"`
	UploadNames         []string  `json:"uploadNames"`
	Locked              bool      `json:"locked"`
	Malicious           bool      `json:"malicious"`
	Unlisted            bool      `json:"unlisted"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}
