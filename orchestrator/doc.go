// Package orchestrator runs one lead validation request.
//
// A request is a work.Batch of three descriptors: the bot check, the email
// check and the credential fetch. Every descriptor whose result is not
// already cached is dispatched at once on a per-request fetch.Pool. Results
// are then resolved in the fixed order bot check, email check, credential
// plus submission, and the first explicit denial ends the request. The
// descriptors after it are marked Skipped and their calls are left to
// finish on their own.
//
// A verdict that could not be obtained is Unknown. Unknown passes when the
// checker fails open, which is the default, and denies otherwise.
package orchestrator
