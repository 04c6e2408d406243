package guard

// Verdict is the outcome class of a gate evaluation.
type Verdict uint8

const (
	// VerdictAllow permits the navigation.
	VerdictAllow Verdict = iota
	// VerdictDeny blocks the navigation without redirecting.
	VerdictDeny
	// VerdictRedirect blocks the navigation and redirects to Decision.RedirectTo.
	VerdictRedirect
)

// Decision is the tagged result of a gate evaluation.
type Decision struct {
	Verdict    Verdict
	RedirectTo string
}

// Allow returns an allowing decision.
func Allow() Decision { return Decision{Verdict: VerdictAllow} }

// Deny returns a denying decision with no redirect.
func Deny() Decision { return Decision{Verdict: VerdictDeny} }

// Redirect returns a denying decision that redirects to path.
func Redirect(path string) Decision {
	return Decision{Verdict: VerdictRedirect, RedirectTo: path}
}

// Allowed reports whether the navigation may proceed.
func (d Decision) Allowed() bool { return d.Verdict == VerdictAllow }

func (d Decision) String() string {
	switch d.Verdict {
	case VerdictAllow:
		return "allow"
	case VerdictDeny:
		return "deny"
	case VerdictRedirect:
		return "redirect:" + d.RedirectTo
	}
	return "unknown"
}
