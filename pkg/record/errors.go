package record

import "fmt"

// FieldNotFoundError is returned when a record or table operation names a
// field the schema does not declare.
type FieldNotFoundError struct {
	SchemaID  string
	FieldName string
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("record: schema %q has no field %q", e.SchemaID, e.FieldName)
}

// FieldKindMismatchError is returned when a caller uses a field accessor
// (e.g. ListField) against a field declared as a different kind.
type FieldKindMismatchError struct {
	SchemaID  string
	FieldName string
	Want      string
	Have      string
}

func (e *FieldKindMismatchError) Error() string {
	return fmt.Sprintf("record: field %s.%s is a %s field, not a %s field", e.SchemaID, e.FieldName, e.Have, e.Want)
}

// OwnershipError is returned by Table.Insert when a record was not
// produced by this table, or already belongs to one, per spec §4.8's
// ownership-tag requirement.
type OwnershipError struct {
	RecordID string
	Reason   string
}

func (e *OwnershipError) Error() string {
	return fmt.Sprintf("record: record %q cannot be inserted: %s", e.RecordID, e.Reason)
}
