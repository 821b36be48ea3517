// Package work defines the work items a validation request is broken into.
//
// A Descriptor is one check against one external service. It carries the
// identity key the owning cache stores it under, the prepared outbound
// request when the key was not resident, and the in-flight call once that
// request is dispatched. Its State moves through a small machine:
//
//	Pending -> Dispatched -> Resolved | Failed
//	Pending -> Resolved | Failed
//	Pending | Dispatched -> Skipped
//
// Any other move returns ErrIllegalTransition.
package work
