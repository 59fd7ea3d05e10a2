// Package resolve maps the host's indirect identifiers (terminals,
// station groups, opaque references) onto canonical stations and
// resolved lines.
//
// The candidate field-name lists probed here (refFields, nameFields,
// lineKindFields) encode empirically discovered host schema behavior.
// Their order decides ambiguous references deterministically, so it
// must not be "cleaned up".
package resolve
