// Package models defines the persisted registry entities.
package models

import "time"

// Author is a registry account that can own and publish packages.
// PackageNames is the denormalized set of owned package names; the store
// keeps it equal to the set of Package rows whose Owner is this author.
type Author struct {
	Name          string
	CanonicalName string
	Credential    string
	SecretHash    []byte
	SecretSalt    []byte
	PackageNames  []string
	CreatedAt     time.Time
}

// PublicAuthor is the externally visible author record: no credential, no
// secret material.
type PublicAuthor struct {
	Name          string    `json:"name"`
	CanonicalName string    `json:"canonicalName"`
	PackageNames  []string  `json:"packageNames"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Public strips everything a non-owner must not see.
func (a *Author) Public() *PublicAuthor {
	names := a.PackageNames
	if names == nil {
		names = []string{}
	}
	return &PublicAuthor{
		Name:          a.Name,
		CanonicalName: a.CanonicalName,
		PackageNames:  names,
		CreatedAt:     a.CreatedAt,
	}
}
