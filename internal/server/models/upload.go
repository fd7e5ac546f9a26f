package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// UploadFiles describes where the uploaded content landed: the manifest
// entry inside the content tree and the opaque reference issued by the
// external content-addressing service. Stored as JSONB.
type UploadFiles struct {
	Manifest   string `json:"manifest"`
	ContentRef string `json:"content_ref"`
}

// Value implements driver.Valuer for the JSONB column.
func (f UploadFiles) Value() (driver.Value, error) {
	return json.Marshal(f)
}

// Scan implements sql.Scanner for the JSONB column.
func (f *UploadFiles) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	case nil:
		*f = UploadFiles{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into UploadFiles", src)
	}
}

// UploadSession records one completed publish-and-upload cycle for a
// specific package version. Rows are append-only and immutable.
type UploadSession struct {
	Name       string      `json:"name"` // "package@version"
	Package    string      `json:"package"`
	EntryPoint string      `json:"entryPoint"`
	Version    string      `json:"version"`
	Prefix     string      `json:"prefix"`
	Files      UploadFiles `json:"files"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// UploadName builds the composite "name@version" identity.
func UploadName(pkg, version string) string {
	return fmt.Sprintf("%s@%s", pkg, version)
}
