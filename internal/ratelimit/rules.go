package ratelimit

import "time"

// Rule is a per-endpoint quota: at most MaxRequests per Window per client.
// The registry itself is policy-agnostic; rules are applied by the middleware.
type Rule struct {
	Category    string
	MaxRequests int
	Window      time.Duration
}

// Key builds the registry identifier for a client under this rule.
func (ru Rule) Key(clientIP string) string {
	return ru.Category + ":" + clientIP
}

// Per-endpoint quotas. Auth endpoints are deliberately tight; the read
// endpoints allow normal interactive browsing.
var (
	RuleSearch             = Rule{Category: "search", MaxRequests: 20, Window: time.Minute}
	RuleCompanyDetail      = Rule{Category: "company_detail", MaxRequests: 30, Window: time.Minute}
	RuleCompare            = Rule{Category: "compare", MaxRequests: 15, Window: time.Minute}
	RuleBatch              = Rule{Category: "batch", MaxRequests: 20, Window: time.Minute}
	RuleLogin              = Rule{Category: "login", MaxRequests: 5, Window: time.Minute}
	RuleRegister           = Rule{Category: "register", MaxRequests: 3, Window: time.Minute}
	RuleForgotPassword     = Rule{Category: "forgot_password", MaxRequests: 3, Window: time.Minute}
	RuleVerifyEmail        = Rule{Category: "verify_email", MaxRequests: 5, Window: time.Minute}
	RuleResendVerification = Rule{Category: "resend_verification", MaxRequests: 2, Window: time.Minute}
)
