package schema

import (
	"github.com/getkin/kin-openapi/openapi3"
)

// Fixed describes a type that is always rendered with the same inline schema,
// regardless of its Go structure.
type Fixed struct {
	Type     string
	Format   string
	Nullable bool
}

func (f Fixed) schema() *openapi3.Schema {
	s := openapi3.NewSchema()
	if f.Type != "" {
		s.Type = &openapi3.Types{f.Type}
	}
	s.Format = f.Format
	s.Nullable = f.Nullable
	return s
}

// DefaultWellKnown maps qualified type names to their fixed schemas.
func DefaultWellKnown() map[string]Fixed {
	return map[string]Fixed{
		"time.Time":                    {Type: openapi3.TypeString, Format: "date-time"},
		"time.Duration":                {Type: openapi3.TypeInteger, Format: "int64"},
		"github.com/google/uuid.UUID":  {Type: openapi3.TypeString, Format: "uuid"},
		"github.com/gofrs/uuid.UUID":   {Type: openapi3.TypeString, Format: "uuid"},
		"net/url.URL":                  {Type: openapi3.TypeString, Format: "uri"},
		"net.IP":                       {Type: openapi3.TypeString, Format: "ipv4"},
		"math/big.Int":                 {Type: openapi3.TypeString},
		"encoding/json.RawMessage":     {},
		"encoding/json.Number":         {Type: openapi3.TypeNumber},
		"database/sql.NullString":      {Type: openapi3.TypeString, Nullable: true},
		"database/sql.NullInt64":       {Type: openapi3.TypeInteger, Format: "int64", Nullable: true},
		"database/sql.NullInt32":       {Type: openapi3.TypeInteger, Format: "int32", Nullable: true},
		"database/sql.NullFloat64":     {Type: openapi3.TypeNumber, Format: "double", Nullable: true},
		"database/sql.NullBool":        {Type: openapi3.TypeBoolean, Nullable: true},
		"database/sql.NullTime":        {Type: openapi3.TypeString, Format: "date-time", Nullable: true},
		"mime/multipart.FileHeader":    {Type: openapi3.TypeString, Format: "binary"},
	}
}
