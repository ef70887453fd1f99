package model

// Field is one parsed documentation directive. The set of variants is closed:
// every consumer switches over the concrete types below.
type Field interface {
	Kind() FieldKind
	field()
}

// FieldKind identifies the variant of a Field.
type FieldKind int

const (
	KindSummary FieldKind = iota
	KindDescription
	KindTag
	KindDeprecated
	KindOperationID
	KindExternalDocs
	KindParameter
	KindBody
	KindResponse
	KindResponseHeader
	KindSecurity
	KindIgnore
	KindPath
	KindMethod
)

var kindNames = [...]string{
	KindSummary:        "summary",
	KindDescription:    "description",
	KindTag:            "tag",
	KindDeprecated:     "deprecated",
	KindOperationID:    "operationId",
	KindExternalDocs:   "externalDocs",
	KindParameter:      "parameter",
	KindBody:           "body",
	KindResponse:       "response",
	KindResponseHeader: "responseHeader",
	KindSecurity:       "security",
	KindIgnore:         "ignore",
	KindPath:           "path",
	KindMethod:         "method",
}

func (k FieldKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Parameter locations.
const (
	InPath   = "path"
	InQuery  = "query"
	InHeader = "header"
	InCookie = "cookie"
)

type Summary struct{ Text string }

type Description struct{ Text string }

type Tag struct{ Name string }

type Deprecated struct{ Reason string }

type OperationID struct{ Value string }

type ExternalDocs struct {
	URL  string
	Text string
}

// Parameter describes a path, query, header or cookie parameter. An empty In
// means the location could not be determined from the comment alone.
type Parameter struct {
	In          string
	Name        string
	Type        TypeRef
	Description string
	Attributes  Attributes
}

type Body struct {
	ContentType string
	Type        TypeRef
	Description string
	Attributes  Attributes
}

// Response is keyed by Status. A nil Status is treated as 200 at assembly.
type Response struct {
	Status      *int
	ContentType string
	Type        TypeRef
	Description string
	Attributes  Attributes
}

type ResponseHeader struct {
	Name        string
	Type        TypeRef
	Description string
	Attributes  Attributes
}

// AnyScheme as a Security scheme stands for every captured security scheme.
const AnyScheme = "*"

// Security is a security requirement. A nil Scheme marks security as optional.
type Security struct {
	Scheme *string
	Scopes []string
}

// Ignore suppresses the endpoint it ends up on.
type Ignore struct{}

// Path is a route segment. It is produced by the graph, never parsed.
type Path struct{ Segment string }

// Method is the HTTP method of a route. It is produced by the graph, never parsed.
type Method struct{ Name string }

func (Summary) Kind() FieldKind        { return KindSummary }
func (Description) Kind() FieldKind    { return KindDescription }
func (Tag) Kind() FieldKind            { return KindTag }
func (Deprecated) Kind() FieldKind     { return KindDeprecated }
func (OperationID) Kind() FieldKind    { return KindOperationID }
func (ExternalDocs) Kind() FieldKind   { return KindExternalDocs }
func (Parameter) Kind() FieldKind      { return KindParameter }
func (Body) Kind() FieldKind           { return KindBody }
func (Response) Kind() FieldKind       { return KindResponse }
func (ResponseHeader) Kind() FieldKind { return KindResponseHeader }
func (Security) Kind() FieldKind       { return KindSecurity }
func (Ignore) Kind() FieldKind         { return KindIgnore }
func (Path) Kind() FieldKind           { return KindPath }
func (Method) Kind() FieldKind         { return KindMethod }

func (Summary) field()        {}
func (Description) field()    {}
func (Tag) field()            {}
func (Deprecated) field()     {}
func (OperationID) field()    {}
func (ExternalDocs) field()   {}
func (Parameter) field()      {}
func (Body) field()           {}
func (Response) field()       {}
func (ResponseHeader) field() {}
func (Security) field()       {}
func (Ignore) field()         {}
func (Path) field()           {}
func (Method) field()         {}

// StatusPtr returns a pointer to code.
func StatusPtr(code int) *int { return &code }

// SchemePtr returns a pointer to name.
func SchemePtr(name string) *string { return &name }

// HasIgnore reports whether fields contain an Ignore directive.
func HasIgnore(fields []Field) bool {
	for _, f := range fields {
		if _, ok := f.(Ignore); ok {
			return true
		}
	}
	return false
}
