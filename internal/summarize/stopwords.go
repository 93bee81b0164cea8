package summarize

// englishStopwords is the fixed set of English function words excluded from
// frequency scoring. The set mirrors the common NLTK English list; it is
// intentionally static so that scoring stays deterministic across runs.
var englishStopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {},
	"and": {}, "or": {}, "but": {}, "nor": {}, "so": {}, "yet": {},
	"to": {}, "in": {}, "of": {}, "on": {}, "for": {}, "with": {}, "as": {},
	"at": {}, "by": {}, "from": {}, "into": {}, "onto": {}, "upon": {},
	"about": {}, "above": {}, "below": {}, "under": {}, "over": {},
	"out": {}, "up": {}, "down": {}, "off": {}, "between": {}, "through": {},
	"during": {}, "before": {}, "after": {}, "against": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {}, "being": {},
	"am": {}, "do": {}, "does": {}, "did": {}, "doing": {},
	"have": {}, "has": {}, "had": {}, "having": {},
	"will": {}, "would": {}, "can": {}, "could": {}, "shall": {}, "should": {},
	"may": {}, "might": {}, "must": {},
	"this": {}, "that": {}, "these": {}, "those": {},
	"it": {}, "its": {}, "itself": {},
	"i": {}, "me": {}, "my": {}, "myself": {},
	"we": {}, "us": {}, "our": {}, "ours": {}, "ourselves": {},
	"you": {}, "your": {}, "yours": {}, "yourself": {}, "yourselves": {},
	"he": {}, "him": {}, "his": {}, "himself": {},
	"she": {}, "her": {}, "hers": {}, "herself": {},
	"they": {}, "them": {}, "their": {}, "theirs": {}, "themselves": {},
	"what": {}, "which": {}, "who": {}, "whom": {}, "whose": {},
	"when": {}, "where": {}, "why": {}, "how": {},
	"if": {}, "then": {}, "else": {}, "than": {}, "because": {}, "while": {},
	"not": {}, "no": {}, "only": {}, "very": {}, "too": {}, "just": {},
	"all": {}, "any": {}, "both": {}, "each": {}, "few": {}, "more": {},
	"most": {}, "other": {}, "some": {}, "such": {}, "own": {}, "same": {},
	"again": {}, "further": {}, "once": {}, "here": {}, "there": {},
	"now": {}, "also": {}, "s": {}, "t": {}, "don": {},
}

// IsStopword reports whether the lower-cased token is in the English
// stopword set.
func IsStopword(word string) bool {
	_, ok := englishStopwords[word]
	return ok
}
