package kb

import "strings"

// CategoryGeneral is assigned to a query when no taxonomy keyword matches.
const CategoryGeneral = "general"

// category is one bucket of the closed question taxonomy. A query triggers
// the category when any keyword appears as a substring of the lowercased
// query. candidates lists the fact-key fragments to try against a matched
// entry; categories whose candidate list depends on the entry itself (about)
// supply candidatesFn instead.
type category struct {
	name         string
	keywords     []string
	candidates   []string
	candidatesFn func(Entry) []string
}

func (c category) candidateKeys(entry Entry) []string {
	if c.candidatesFn != nil {
		return c.candidatesFn(entry)
	}
	return c.candidates
}

// taxonomy is consulted in declaration order; detection order and therefore
// extraction priority follow it. Keywords mix English and Malayalam script so
// both typed and transliterated questions route to the same bucket.
var taxonomy = []category{
	{
		name:       "phone",
		keywords:   []string{"phone", "number", "call", "mobile", "telephone", "ഫോൺ", "നമ്പർ"},
		candidates: []string{"phone", "contact_phone", "telephone", "mobile"},
	},
	{
		name:       "email",
		keywords:   []string{"email", "mail", "ഇമെയിൽ"},
		candidates: []string{"email", "mail"},
	},
	{
		name:       "address",
		keywords:   []string{"address", "location", "where", "place", "reach", "വിലാസം", "എവിടെ"},
		candidates: []string{"address", "location"},
	},
	{
		name:       "website",
		keywords:   []string{"website", "site", "web", "online", "വെബ്സൈറ്റ്"},
		candidates: []string{"website", "web", "url"},
	},
	{
		name:       "timing",
		keywords:   []string{"timing", "hours", "time", "when", "open", "close", "schedule", "സമയം"},
		candidates: []string{"timing", "hours", "time", "schedule"},
	},
	{
		name:       "fee",
		keywords:   []string{"fee", "fees", "cost", "price", "tuition", "expense", "ഫീസ്"},
		candidates: []string{"fee", "fees", "cost", "tuition"},
	},
	{
		name:       "courses",
		keywords:   []string{"course", "courses", "branch", "branches", "department", "btech", "mtech", "program", "കോഴ്സ്"},
		candidates: []string{"courses", "branches", "departments", "programs"},
	},
	{
		name:       "seats",
		keywords:   []string{"seat", "seats", "intake", "capacity", "സീറ്റ്"},
		candidates: []string{"seats", "intake", "capacity"},
	},
	{
		name:       "duration",
		keywords:   []string{"duration", "years", "long", "semester", "കാലാവധി"},
		candidates: []string{"duration", "years", "semesters"},
	},
	{
		name:       "admission",
		keywords:   []string{"admission", "apply", "application", "entrance", "keam", "join", "പ്രവേശനം"},
		candidates: []string{"admission", "apply", "application", "process"},
	},
	{
		name:       "eligibility",
		keywords:   []string{"eligibility", "eligible", "qualification", "criteria", "marks", "യോഗ്യത"},
		candidates: []string{"eligibility", "qualification", "criteria"},
	},
	{
		name:       "hostel",
		keywords:   []string{"hostel", "accommodation", "stay", "room", "ഹോസ്റ്റൽ", "താമസം"},
		candidates: []string{"hostel", "accommodation"},
	},
	{
		name:       "library",
		keywords:   []string{"library", "books", "ലൈബ്രറി", "പുസ്തക"},
		candidates: []string{"library", "books"},
	},
	{
		name:       "canteen",
		keywords:   []string{"canteen", "food", "mess", "cafeteria", "ഭക്ഷണം", "കാന്റീൻ"},
		candidates: []string{"canteen", "food", "mess"},
	},
	{
		name:       "placement",
		keywords:   []string{"placement", "placements", "job", "recruit", "company", "companies", "പ്ലേസ്മെന്റ്", "ജോലി"},
		candidates: []string{"placement", "recruiters", "companies"},
	},
	{
		name:       "salary",
		keywords:   []string{"salary", "package", "ctc", "lpa", "ശമ്പളം"},
		candidates: []string{"salary", "package", "ctc"},
	},
	{
		name:       "principal",
		keywords:   []string{"principal", "head", "പ്രിൻസിപ്പൽ"},
		candidates: []string{"principal", "head"},
	},
	{
		name:     "about",
		keywords: []string{"about", "tell me", "what is", "info", "information", "details", "വിവരം"},
		// about queries draw their candidates from the entry's own leading
		// facts, so they extract something whenever the entry has facts.
		candidatesFn: func(entry Entry) []string {
			keys := make([]string, 0, 3)
			for _, fact := range entry.AnswerFacts.First(3) {
				keys = append(keys, Normalize(fact.Key))
			}
			return keys
		},
	},
}

// Categories reports which taxonomy buckets the query triggers, in taxonomy
// declaration order. A query that triggers nothing is CategoryGeneral.
func Categories(query string) []string {
	detected := detectCategories(query)
	names := make([]string, len(detected))
	for i, c := range detected {
		names[i] = c.name
	}
	return names
}

func detectCategories(query string) []category {
	q := Normalize(query)
	var detected []category
	for _, c := range taxonomy {
		for _, keyword := range c.keywords {
			if strings.Contains(q, keyword) {
				detected = append(detected, c)
				break
			}
		}
	}
	if len(detected) == 0 {
		detected = append(detected, category{name: CategoryGeneral})
	}
	return detected
}
