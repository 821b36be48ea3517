// Package lead models the lead-capture form and submits validated leads to
// the lead API.
//
// Submit always returns a Result; transport and decoding failures become
// SERVER_ERROR results rather than errors so the caller can write the
// Result to the client unchanged.
package lead
