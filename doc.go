// Package mondoc is a field/schema codec and validation engine for
// MongoDB-style document stores.
//
// It maps application-level ("object world") values to a storage wire
// representation ("mongo world": scalars, millisecond-precision dates,
// 128-bit decimals, opaque identifiers and nested records) and back,
// through a declared schema of typed fields. Concrete field variants live
// in the fields subpackage; validation rules in rules; tracked container
// values in data.
//
// Schemas additionally generate validation-only projections for callers
// that need acceptance/rejection semantics without persistence semantics,
// memoized process-wide. The storage driver, the document registry and the
// translation facility are external collaborators consumed through small
// interfaces.
package mondoc
