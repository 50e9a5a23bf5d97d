package model

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type RefKind uint8

const (
	RefUnknown RefKind = iota
	RefNative
	RefExternal
)

func (k RefKind) String() string {
	switch k {
	case RefNative:
		return "native"
	case RefExternal:
		return "external"
	default:
		return "unknown"
	}
}

// MovieRef points at a movie either by its native storage key or by an
// external catalog id. Exactly one kind is ever set.
type MovieRef struct {
	kind RefKind
	id   string
}

// ClassifyMovieID never fails: a 24-character hex string is a native key,
// anything else (numeric catalog ids, imdb ids, the empty string) is external.
func ClassifyMovieID(raw string) MovieRef {
	if oid, err := bson.ObjectIDFromHex(raw); err == nil {
		return MovieRef{kind: RefNative, id: oid.Hex()}
	}
	return MovieRef{kind: RefExternal, id: raw}
}

func NewNativeRef(id string) (MovieRef, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return MovieRef{}, fmt.Errorf("%w: %q", ErrInvalidNativeID, id)
	}
	return MovieRef{kind: RefNative, id: oid.Hex()}, nil
}

func NewExternalRef(id string) MovieRef {
	return MovieRef{kind: RefExternal, id: strings.TrimSpace(id)}
}

// NewNativeID allocates a fresh native key.
func NewNativeID() string {
	return bson.NewObjectID().Hex()
}

func (r MovieRef) Kind() RefKind    { return r.kind }
func (r MovieRef) ID() string       { return r.id }
func (r MovieRef) IsNative() bool   { return r.kind == RefNative }
func (r MovieRef) IsExternal() bool { return r.kind == RefExternal }
func (r MovieRef) IsZero() bool     { return r.kind == RefUnknown }

// ObjectID returns the native key in its binary form.
func (r MovieRef) ObjectID() (bson.ObjectID, error) {
	if r.kind != RefNative {
		return bson.NilObjectID, fmt.Errorf("%w: %s ref %q", ErrInvalidNativeID, r.kind, r.id)
	}
	return bson.ObjectIDFromHex(r.id)
}

func (r MovieRef) String() string {
	return r.kind.String() + ":" + r.id
}
