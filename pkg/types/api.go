package types

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindInvalidSpec     ErrKind = iota // spec string does not match the endpoint's grammar
	ErrKindUnsupportedSpec                // no endpoint can handle the spec
	ErrKindExists                         // Add under OverwriteNever collided with an entry
	ErrKindNotFound                       // missing container, file or resource
	ErrKindIO                             // underlying read/write/rename failure
	ErrKindParse                          // container bytes do not decode
	ErrKindEncode                         // codec could not produce a container image
)

// String returns a short, stable name for the kind.
func (k ErrKind) String() string {
	switch k {
	case ErrKindInvalidSpec:
		return "invalid-spec"
	case ErrKindUnsupportedSpec:
		return "unsupported-spec"
	case ErrKindExists:
		return "exists"
	case ErrKindNotFound:
		return "not-found"
	case ErrKindIO:
		return "io"
	case ErrKindParse:
		return "parse"
	case ErrKindEncode:
		return "encode"
	default:
		return "kind-" + strconv.Itoa(int(k))
	}
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind, so that
// errors.Is(err, ErrNotFound) matches every not-found error regardless of
// its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// Errorf builds an *Error of the given kind with a formatted message.
// A %w verb in format is recorded as the underlying cause.
func Errorf(kind ErrKind, format string, args ...any) *Error {
	wrapped := fmt.Errorf(format, args...)
	e := &Error{Kind: kind, Msg: wrapped.Error()}
	if u, ok := wrapped.(interface{ Unwrap() error }); ok {
		e.Msg = strings.TrimSuffix(e.Msg, ": "+u.Unwrap().Error())
		e.Err = u.Unwrap()
	}
	return e
}

// Sentinels commonly returned by implementations. Compare with errors.Is.
var (
	// ErrInvalidSpec indicates the spec does not match the endpoint's grammar.
	ErrInvalidSpec = &Error{Kind: ErrKindInvalidSpec, Msg: "invalid spec"}
	// ErrUnsupportedSpec indicates no endpoint recognized the spec.
	ErrUnsupportedSpec = &Error{Kind: ErrKindUnsupportedSpec, Msg: "unsupported spec"}
	// ErrResourceExists indicates Add was refused because the target exists.
	ErrResourceExists = &Error{Kind: ErrKindExists, Msg: "resource already exists"}
	// ErrNotFound indicates a missing container, file or resource.
	ErrNotFound = &Error{Kind: ErrKindNotFound, Msg: "not found"}
	// ErrIO indicates an underlying I/O failure.
	ErrIO = &Error{Kind: ErrKindIO, Msg: "i/o failure"}
	// ErrParse indicates the container could not be decoded.
	ErrParse = &Error{Kind: ErrKindParse, Msg: "malformed container"}
	// ErrEncode indicates the codec could not rebuild the container image.
	ErrEncode = &Error{Kind: ErrKindEncode, Msg: "cannot encode container"}
)

// FileError is one failed file of a commit.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return e.Path + ": " + e.Err.Error()
}

func (e FileError) Unwrap() error { return e.Err }

// CommitError aggregates the failures of a commit. Commit attempts every
// dirty file before returning, so Failures lists all of them.
type CommitError struct {
	Failures []FileError
}

func (e *CommitError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, f.Error())
	}
	return fmt.Sprintf("commit failed for %d file(s): %s", len(e.Failures), strings.Join(parts, "; "))
}

// Unwrap exposes every failure to errors.Is and errors.As.
func (e *CommitError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f)
	}
	return errs
}

// Paths returns the failed paths in reporting order.
func (e *CommitError) Paths() []string {
	paths := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		paths = append(paths, f.Path)
	}
	return paths
}

// -----------------------------------------------------------------------------
// Resource Identity
// -----------------------------------------------------------------------------

// Ident is a resource type or resource name: either a numeric ID or a string
// name, never both. Names are stored upper-cased, as resource compilers do.
type Ident struct {
	ID   uint16
	Name string
}

// IntID returns a numeric identifier.
func IntID(id uint16) Ident { return Ident{ID: id} }

// StrID returns a string identifier. The name is upper-cased.
func StrID(name string) Ident { return Ident{Name: strings.ToUpper(name)} }

// IsName reports whether the identifier is a string.
func (i Ident) IsName() bool { return i.Name != "" }

// Valid reports whether exactly one of ID and Name is set.
func (i Ident) Valid() bool {
	return (i.ID != 0) != (i.Name != "")
}

// String renders a name as-is and an ID in decimal.
func (i Ident) String() string {
	if i.IsName() {
		return i.Name
	}
	return strconv.Itoa(int(i.ID))
}

// TypeString renders a resource type, preferring the well-known name
// (BITMAP, ICON, ...) for standard numeric types.
func (i Ident) TypeString() string {
	if !i.IsName() {
		if name, ok := typeNames[i.ID]; ok {
			return name
		}
	}
	return i.String()
}

// Less orders identifiers the way a PE resource directory does: string
// entries before numeric ones, strings lexically, IDs ascending.
func (i Ident) Less(o Ident) bool {
	switch {
	case i.IsName() && o.IsName():
		return i.Name < o.Name
	case i.IsName():
		return true
	case o.IsName():
		return false
	default:
		return i.ID < o.ID
	}
}

// LangNeutral is the language used when a spec omits it.
const LangNeutral uint16 = 0

// Key identifies one resource within a container.
type Key struct {
	Type Ident
	Name Ident
	Lang uint16
}

func (k Key) String() string {
	return k.Type.TypeString() + "|" + k.Name.String() + "|" + strconv.Itoa(int(k.Lang))
}

// Less orders keys by type, then name, then language.
func (k Key) Less(o Key) bool {
	if k.Type != o.Type {
		return k.Type.Less(o.Type)
	}
	if k.Name != o.Name {
		return k.Name.Less(o.Name)
	}
	return k.Lang < o.Lang
}

// SortKeys sorts keys in directory order.
func SortKeys(keys []Key) {
	sort.Slice(keys, func(a, b int) bool { return keys[a].Less(keys[b]) })
}

// DefaultMemoryFlags is MOVEABLE|PURE|DISCARDABLE, what resource compilers
// emit for most resources.
const DefaultMemoryFlags uint16 = 0x1030

// Entry is the value half of a resource: its payload plus the per-resource
// header fields a RES file carries. PE images only carry Data.
type Entry struct {
	Data            []byte
	Version         uint32
	DataVersion     uint32
	MemoryFlags     uint16
	Characteristics uint32
}

// Size returns the payload length.
func (e *Entry) Size() int { return len(e.Data) }

// Clone returns a deep copy.
func (e *Entry) Clone() *Entry {
	c := *e
	c.Data = append([]byte(nil), e.Data...)
	return &c
}

// -----------------------------------------------------------------------------
// Well-known resource types
// -----------------------------------------------------------------------------

// Standard resource type IDs (RT_*).
const (
	RTCursor       uint16 = 1
	RTBitmap       uint16 = 2
	RTIcon         uint16 = 3
	RTMenu         uint16 = 4
	RTDialog       uint16 = 5
	RTString       uint16 = 6
	RTFontDir      uint16 = 7
	RTFont         uint16 = 8
	RTAccelerator  uint16 = 9
	RTRCData       uint16 = 10
	RTMessageTable uint16 = 11
	RTGroupCursor  uint16 = 12
	RTGroupIcon    uint16 = 14
	RTVersion      uint16 = 16
	RTDlgInclude   uint16 = 17
	RTPlugPlay     uint16 = 19
	RTVXD          uint16 = 20
	RTAniCursor    uint16 = 21
	RTAniIcon      uint16 = 22
	RTHTML         uint16 = 23
	RTManifest     uint16 = 24
)

var typeNames = map[uint16]string{
	RTCursor:       "CURSOR",
	RTBitmap:       "BITMAP",
	RTIcon:         "ICON",
	RTMenu:         "MENU",
	RTDialog:       "DIALOG",
	RTString:       "STRING",
	RTFontDir:      "FONTDIR",
	RTFont:         "FONT",
	RTAccelerator:  "ACCELERATOR",
	RTRCData:       "RCDATA",
	RTMessageTable: "MESSAGETABLE",
	RTGroupCursor:  "GROUP_CURSOR",
	RTGroupIcon:    "GROUP_ICON",
	RTVersion:      "VERSION",
	RTDlgInclude:   "DLGINCLUDE",
	RTPlugPlay:     "PLUGPLAY",
	RTVXD:          "VXD",
	RTAniCursor:    "ANICURSOR",
	RTAniIcon:      "ANIICON",
	RTHTML:         "HTML",
	RTManifest:     "MANIFEST",
}

var typeIDs = func() map[string]uint16 {
	m := make(map[string]uint16, len(typeNames))
	for id, name := range typeNames {
		m[name] = id
	}
	return m
}()

// LookupType resolves a well-known type name such as "BITMAP" or
// "RT_BITMAP" (case-insensitive).
func LookupType(name string) (uint16, bool) {
	name = strings.TrimPrefix(strings.ToUpper(name), "RT_")
	id, ok := typeIDs[name]
	return id, ok
}
