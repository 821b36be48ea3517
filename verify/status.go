package verify

// EmailStatus is one row of the ZeroBounce status table.
type EmailStatus struct {
	Status    string
	SubStatus string
	Allowed   bool
}

// emailStatuses is matched exactly on status and sub status. Combinations
// not listed are allowed.
var emailStatuses = []EmailStatus{
	{"", "", true},
	{"valid", "alias_address", true},
	{"valid", "leading_period_removed", true},
	{"invalid", "mailbox_quota_exceeded", true},
	{"invalid", "does_not_accept_mail", false},
	{"invalid", "failed_syntax_check", false},
	{"invalid", "mailbox_not_found", false},
	{"invalid", "no_dns_entries", false},
	{"invalid", "possible_typo", false},
	{"invalid", "unroutable_ip_address", false},
	{"catch-all", "", true},
	{"spamtrap", "", false},
	{"abuse", "", true},
	{"do_not_mail", "global_suppression", true},
	{"do_not_mail", "role_based_catch_all", true},
	{"do_not_mail", "role_based", true},
	{"do_not_mail", "disposable", false},
	{"do_not_mail", "toxic", false},
	{"do_not_mail", "possible_trap", false},
	{"unknown", "antispam_system", true},
	{"unknown", "exception_occurred", true},
	{"unknown", "failed_smtp_connection", true},
	{"unknown", "forcible_disconnect", true},
	{"unknown", "greylisted", true},
	{"unknown", "mail_server_did_not_respond", true},
	{"unknown", "mail_server_temporary_error", true},
	{"unknown", "timeout_exceeded", true},
}

// LookupEmailStatus returns the table row for status and subStatus. When
// none matches, the default row (allowed) is returned with false.
func LookupEmailStatus(status, subStatus string) (EmailStatus, bool) {
	for _, s := range emailStatuses {
		if s.Status == status && s.SubStatus == subStatus {
			return s, true
		}
	}
	return emailStatuses[0], false
}

// EmailAllowed reports whether the combination may be submitted.
func EmailAllowed(status, subStatus string) bool {
	s, _ := LookupEmailStatus(status, subStatus)
	return s.Allowed
}
