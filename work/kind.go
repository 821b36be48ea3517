package work

// Kind tags the service a Descriptor targets.
type Kind int

const (
	// BotCheck verifies a challenge token.
	BotCheck Kind = iota + 1
	// EmailCheck scores an email address.
	EmailCheck
	// TokenFetch obtains the submission credential.
	TokenFetch
)

func (k Kind) String() string {
	switch k {
	case BotCheck:
		return "bot_check"
	case EmailCheck:
		return "email_check"
	case TokenFetch:
		return "token_fetch"
	default:
		return "unknown"
	}
}

// Verdict is the outcome of a yes/no check. Unknown means no result could
// be obtained.
type Verdict int

const (
	Unknown Verdict = iota
	Allow
	Deny
)

// VerdictOf converts an explicit boolean result.
func VerdictOf(allowed bool) Verdict {
	if allowed {
		return Allow
	}
	return Deny
}

func (v Verdict) String() string {
	switch v {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	default:
		return "unknown"
	}
}
