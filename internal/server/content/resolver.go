// Package content talks to the external content-addressing service and to
// the S3-compatible staging store. The registry treats content references
// as opaque; resolution always happens outside any open database
// transaction.
package content

import "context"

// Resolved is the content service's answer for a temporary upload handle.
type Resolved struct {
	TxID         string `json:"tx_id"`
	Name         string `json:"name"`
	RelativePath string `json:"relative_path"`

	// Prefix is the public URL under which the resolved content tree is
	// served, derived from the configured CDN prefix.
	Prefix string `json:"-"`
}

// Resolver exchanges a temporary upload handle for a permanent content
// reference.
type Resolver interface {
	Resolve(ctx context.Context, tmpID string) (*Resolved, error)
}
