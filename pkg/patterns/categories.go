package patterns

import "github.com/mindfort-ai/bulwark/pkg/match"

// =============================================================================
// DEFAULT PHRASE TABLES
// The shipped detection corpus. Severities are domain-tuned constants, not
// learned values; confidence curves are per-table policy.
// =============================================================================

// DefaultTables returns the shipped detection tables.
func DefaultTables() Tables {
	return Tables{
		Semantic:   defaultSemanticPatterns(),
		Intents:    defaultIntentProfiles(),
		Linguistic: defaultLinguisticFamilies(),
		Technical:  defaultTechnicalTable(),
		Contextual: defaultContextualTable(),
	}
}

// --- SEMANTIC PATTERNS (rhetorical manipulation) ---
func defaultSemanticPatterns() []SemanticPattern {
	return []SemanticPattern{
		{
			ID:    SemanticUrgencyPressure,
			Title: "Urgency Pressure",
			Phrases: []string{
				"act immediately", "act now", "do not delay", "time is running out",
				"limited time offer", "limited time", "expires soon", "deadline approaching",
				"respond quickly", "urgent response required", "before it's too late",
			},
			Severity: 0.8,
			Curve:    match.DefaultCurve(),
		},
		{
			ID:    SemanticAuthorityImitation,
			Title: "Authority Imitation",
			Phrases: []string{
				"official notice", "government agency", "bank security",
				"account services", "customer support", "verification team",
				"security department", "compliance office", "fraud department",
			},
			Severity: 0.7,
			Curve:    match.DefaultCurve(),
		},
		{
			ID:    SemanticEmotionalManipulation,
			Title: "Emotional Manipulation",
			Phrases: []string{
				"don't miss out", "once in a lifetime", "amazing opportunity",
				"life changing", "transform your life", "financial freedom",
				"easy money", "guaranteed results", "risk free",
			},
			Severity: 0.6,
			Curve:    match.DefaultCurve(),
		},
		{
			ID:    SemanticInformationRequests,
			Title: "Information Requests",
			Phrases: []string{
				"please provide", "we need your", "share your details",
				"confirm your identity", "verify your information",
				"send us your", "update your records", "enter your password",
				"social security number",
			},
			Severity: 0.9,
			Curve:    match.DefaultCurve(),
		},
		{
			ID:    SemanticObligationCreation,
			Title: "Obligation Creation",
			Phrases: []string{
				"you must", "required to", "mandatory", "compulsory",
				"you are obligated", "legal requirement", "compliance needed",
				"failure to comply", "consequences for non-payment",
			},
			Severity: 0.8,
			Curve:    match.DefaultCurve(),
		},
		{
			ID:    SemanticRewardFraming,
			Title: "Reward Framing",
			Phrases: []string{
				"you won", "you have won", "you've been selected",
				"claim your prize", "claim your reward", "cash prize",
				"free gift", "jackpot", "lucky winner",
			},
			// Prize phrasing is individually high-precision, so the curve
			// starts higher than the shared default.
			Severity: 0.9,
			Curve:    match.Curve{Base: 0.4, Step: 0.2, Cap: 0.95},
		},
		{
			ID:    SemanticReassurance,
			Title: "Reassurance",
			Phrases: []string{
				"don't click", "do not click", "don't reply", "do not reply",
				"this is a scam", "it's a scam", "looks like a scam",
				"probably fake", "it's fake", "phishing attempt",
				"watch out for", "be careful with",
			},
			// Risk-reducing: the author is warning about a scam, not running one.
			Severity: -0.4,
			Curve:    match.CountCurve(0.3, 0.8),
		},
	}
}

// --- INTENT PROFILES (mutually exclusive purposes) ---
// Slice order doubles as the tie-break priority: when two intents score the
// same, the higher-risk profile wins.
func defaultIntentProfiles() []IntentProfile {
	return []IntentProfile{
		{
			ID:           IntentPrizeLottery,
			Title:        "Prize Lottery",
			Indicators:   []string{"won", "prize", "lottery", "winner", "congratulations", "claim"},
			RiskModifier: 0.9, // Classic scam pattern
		},
		{
			ID:           IntentTechnicalSupport,
			Title:        "Technical Support",
			Indicators:   []string{"support", "help", "issue", "problem", "fix", "error", "virus"},
			RiskModifier: 0.7, // Tech support scams are common
		},
		{
			ID:           IntentAccountMaintenance,
			Title:        "Account Maintenance",
			Indicators:   []string{"update", "verify", "confirm", "account", "profile", "settings"},
			RiskModifier: 0.4, // Favorite phishing pretext
		},
		{
			ID:           IntentSecurityAlert,
			Title:        "Security Alert",
			Indicators:   []string{"security", "alert", "suspicious", "unusual activity", "login attempt"},
			RiskModifier: 0.2, // Could be legitimate or scam
		},
		{
			ID:           IntentTransactional,
			Title:        "Transactional",
			Indicators:   []string{"payment", "delivery", "order", "shipping", "refund", "transaction"},
			RiskModifier: -0.3, // Routine business communication
		},
		{
			ID:           IntentEducational,
			Title:        "Educational",
			Indicators:   []string{"learn", "tutorial", "guide", "how to", "training", "course"},
			RiskModifier: -0.5, // Generally safe content
		},
	}
}

// --- LINGUISTIC FAMILIES (surface markers) ---
func defaultLinguisticFamilies() []LinguisticFamily {
	return []LinguisticFamily{
		{
			ID:         LinguisticUrgency,
			Title:      "Urgency Language",
			Indicators: []string{"urgent", "immediately", "now", "asap", "hurry", "quick", "right away"},
			Curve:      match.CountCurve(0.3, 0.9),
			Severity:   0.6,
			MinCount:   1,
		},
		{
			ID:         LinguisticEmotional,
			Title:      "Emotional Appeals",
			Indicators: []string{"amazing", "incredible", "life-changing", "guaranteed", "free money", "unbelievable"},
			Curve:      match.CountCurve(0.4, 0.8),
			Severity:   0.6,
			MinCount:   1,
		},
		{
			ID:         LinguisticShouting,
			Title:      "Excessive Punctuation",
			Indicators: []string{"!"}, // ALL-CAPS words are counted on top by the detector
			Curve:      match.CountCurve(0.3, 0.8),
			Severity:   0.4,
			MinCount:   1,
		},
		{
			ID:         LinguisticAuthority,
			Title:      "Authority Tone",
			Indicators: []string{"official", "government", "bank", "security", "verify"},
			Curve:      match.CountCurve(0.25, 0.85),
			Severity:   0.7,
			// Single authority words are everyday vocabulary; two or more
			// start sounding like an institution.
			MinCount: 2,
		},
	}
}

// --- TECHNICAL TABLES (links and artifacts) ---
func defaultTechnicalTable() TechnicalTable {
	return TechnicalTable{
		Shorteners: []string{
			"bit.ly", "t.co", "tinyurl.com", "goo.gl", "ow.ly", "is.gd", "buff.ly",
		},
		SuspiciousTLDs: []string{
			".tk", ".ml", ".ga", ".cf", ".gq", ".xyz", ".top", ".buzz",
		},
	}
}

// --- CONTEXTUAL TABLES (conversation window) ---
func defaultContextualTable() ContextualTable {
	return ContextualTable{
		UrgencyIndicators: []string{
			"urgent", "immediately", "now", "asap", "hurry", "quick",
			"act now", "right away", "expires", "deadline", "last chance",
		},
		RequestVerbs: []string{
			"send", "provide", "share", "give me", "need your",
			"click here", "verify", "confirm", "update",
		},
		EscalationMin: 3,
		RepeatMin:     2,
	}
}
