// Package auth authenticates admin callers by API key and inspects the
// bearer credentials leadguard obtains for lead submission.
//
// Inbound admin requests are checked by an Authenticator, usually the
// APIKeyAuthenticator behind the Require middleware. Outbound credentials are
// opaque strings; when one happens to be a JWT, InspectCredential reads its
// claims without verifying the signature so expired credentials can be
// discarded before use.
package auth
