// Package secret resolves credentials referenced from configuration.
//
// Config values go through two steps. Environment variables written as
// ${NAME} are expanded first and must exist; $$ is a literal dollar. Then
// references of the form
//
//	secretref:<provider>:<ref>
//
// are replaced by the provider's value, either as the whole value or inline
// ("Bearer secretref:env:LEAD_TOKEN"). Two providers are built in:
//
//	env   reads an environment variable
//	file  reads a file below a base directory, e.g. /run/secrets
package secret
