package classifier

import "regexp"

func compile(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(`(?i)` + p)
	}
	return out
}

func anyMatch(res []*regexp.Regexp, s string) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

var (
	greetingPatterns = compile(
		`\b(hi|hello|hey|hiya|greetings|good\s+(morning|afternoon|evening|day))\b`,
		`\b(what's\s+up|how\s+(are\s+you|ya\s+doing)|how\s+do\s+you\s+do)\b`,
		`\b(nice\s+to\s+meet\s+you|pleased\s+to\s+meet\s+you)\b`,
		`^\s*(hi|hello|hey)\s*[!.,]*\s*$`,
		`\b(howdy|salutations|aloha)\b`,
	)

	thankYouPatterns = compile(
		`\b(thank\s+you|thanks|thx|ty|appreciate|grateful)\b`,
		`\b(cheers|much\s+appreciated|awesome|perfect|great)\b`,
		`\b(that's\s+helpful|very\s+helpful|exactly\s+what\s+i\s+needed)\b`,
		`\b(excellent|fantastic|wonderful|amazing)\s+(help|service|response)\b`,
	)

	helpPatterns = compile(
		`\b(help|assist|support|guide|explain|how\s+do\s+i)\b`,
		`\b(can\s+you\s+help|need\s+assistance|show\s+me\s+how)\b`,
		`\b(what\s+can\s+you\s+do|what\s+are\s+your\s+capabilities)\b`,
		`\b(how\s+does\s+this\s+work|getting\s+started)\b`,
	)

	appointmentPatterns = compile(
		`\b(book|schedule|set\s+up|arrange|make)\s+(an?\s+)?(appointment|meeting|call)\b`,
		`\b(can\s+we\s+meet|let's\s+meet|available|free)\b`,
		`\b(calendar|schedule|appointment|meeting)\b`,
	)

	conversationalPatterns = compile(
		`\b(how\s+are\s+you|what's\s+new|how's\s+it\s+going)\b`,
		`\b(nice\s+weather|good\s+day|beautiful\s+day)\b`,
		`\b(just\s+chatting|just\s+saying\s+hi|checking\s+in)\b`,
		`\b(have\s+a\s+good\s+day|take\s+care|bye|goodbye)\b`,
	)

	maintenancePatterns = compile(
		`\b(fix|repair|broken|leaking|issue|problem)\b`,
		`\b(maintenance|plumbing|electricity|heating|ac|not working)\b`,
		`\b(send|schedule)\s+(a\s+)?(technician|handyman|plumber|electrician)\b`,
	)

	directQueryPatterns = compile(
		`\b(?:top|best|cheapest|most expensive|lowest|highest|largest|smallest)\s+\d*\s*(?:property|properties|apartment|apartments|listing|listings)\b`,
		`\b(?:show|list|find)\s+(?:me\s+)?(?:all\s+)?(?:the\s+)?(?:property|properties|apartment|apartments|listing|listings)\b`,
		`\b(?:properties|apartments|listings)\s+(?:under|over|above|below)\s+\$?\d+\b`,
		`\b(?:tell\s+me\s+about|what\s+is|info\s+about|details\s+about)\s+.+(?:street|st|avenue|ave|road|rd|drive|dr|place|pl)\b`,
		`\b\d+\s+\w+\s+(?:street|st|avenue|ave|road|rd|drive|dr|place|pl)\b`,
		`\b(?:search|filter)\s+(?:for\s+)?(?:property|properties|apartment|apartments)\b`,
	)

	recommendationPatterns = compile(
		`\b(?:suggest|recommend)\s+(?:me\s+)?(?:a\s+|some\s+)?(?:property|properties|apartment|place)\b`,
		`\b(?:help\s+me\s+find)\s+(?:me\s+)?(?:a\s+|some\s+)?(?:property|properties|apartment|place)\b`,
		`\b(?:what\s+do\s+you\s+have|what\s+would\s+you\s+recommend)\b`,
		`\b(?:any\s+)?(?:good\s+)?(?:properties|apartments|places)\s+(?:for\s+me|you\s+suggest)\b`,
		`\b(?:looking\s+for|searching\s+for)\s+(?:a\s+)?(?:property|apartment|place)\s+(?:to\s+rent|for\s+rent)?\b`,
		`\b(?:i\s+need|i\s+want)\s+(?:a\s+|some\s+)?(?:property|apartment|place)\b`,
	)

	topNPattern    = regexp.MustCompile(`\b(?:top|cheapest|most expensive|lowest|highest|best)\s+\d+`)
	pricePattern   = regexp.MustCompile(`\$\d+`)
	featurePattern = regexp.MustCompile(`\b\d+\s+(?:bedroom|bed|bath|sqft|sf)\b`)
	addressPattern = regexp.MustCompile(`\b\d+\s+\w+\s+(?:street|st|avenue|ave|road|rd)\b`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
	punctuationRun = regexp.MustCompile(`[!.?]{2,}`)
)

var (
	propertyKeywords = []string{"property", "properties", "apartment", "apartments", "listing", "listings", "rent", "rental"}
	actionKeywords   = []string{"show", "list", "find", "search", "tell me", "what is", "top", "best", "cheapest"}
	suggestKeywords  = []string{"suggest", "recommend", "help"}
)
