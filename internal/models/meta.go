package models

// Meta is the free-form JSON blob attached to an event. Behavioral events
// usually carry none. Void-control events encode exactly
//
//	{"kind": "void", "void_of": "<eventId>", "reason": "mistap|wrong_time|other"}
//
// and this shape is preserved bit-exact across import/export for
// compatibility with existing data files.
type Meta map[string]any

const (
	metaKeyKind   = "kind"
	metaKeyVoidOf = "void_of"
	metaKeyReason = "reason"

	metaKindVoid = "void"
)

// VoidReason explains why an event was voided.
type VoidReason string

const (
	VoidReasonMistap    VoidReason = "mistap"
	VoidReasonWrongTime VoidReason = "wrong_time"
	VoidReasonOther     VoidReason = "other"
)

// Valid reports whether r is a recognized void reason.
func (r VoidReason) Valid() bool {
	return r == VoidReasonMistap || r == VoidReasonWrongTime || r == VoidReasonOther
}

// NewVoidMeta builds the control-event meta voiding the event with targetID.
func NewVoidMeta(targetID string, reason VoidReason) Meta {
	if !reason.Valid() {
		reason = VoidReasonOther
	}
	return Meta{
		metaKeyKind:   metaKindVoid,
		metaKeyVoidOf: targetID,
		metaKeyReason: string(reason),
	}
}

// IsVoid reports whether e is a void-control event rather than a behavioral
// one. Events with no meta, or meta that does not carry the void kind, are
// ordinary events.
func (e *Event) IsVoid() bool {
	if e.Meta == nil {
		return false
	}
	kind, ok := e.Meta[metaKeyKind].(string)
	return ok && kind == metaKindVoid
}

// VoidTarget returns the id of the event this control event voids, or ""
// if e is not a void-control event or names no target.
func (e *Event) VoidTarget() string {
	if !e.IsVoid() {
		return ""
	}
	target, _ := e.Meta[metaKeyVoidOf].(string)
	return target
}
