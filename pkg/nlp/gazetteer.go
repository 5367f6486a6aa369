package nlp

import (
	"strings"
	"unicode"

	mapset "github.com/deckarep/golang-set/v2"
)

// Gazetteer labels known names the statistical tagger leaves untagged or
// files under the wrong category.
type Gazetteer struct {
	entries  map[string]string
	maxWords int
}

// NewGazetteer builds a gazetteer from name -> category entries. Names are
// matched case-insensitively on whole tokens.
func NewGazetteer(entries map[string]string) *Gazetteer {
	g := &Gazetteer{entries: make(map[string]string, len(entries))}
	for name, category := range entries {
		words := strings.Fields(strings.ToLower(name))
		if len(words) == 0 {
			continue
		}
		g.entries[strings.Join(words, " ")] = category
		if len(words) > g.maxWords {
			g.maxWords = len(words)
		}
	}
	return g
}

// DefaultGazetteer returns the built-in organisation and technology names.
func DefaultGazetteer() *Gazetteer {
	return NewGazetteer(map[string]string{
		// Organisations
		"microsoft": EntityOrg, "google": EntityOrg, "amazon": EntityOrg, "apple": EntityOrg,
		"ibm": EntityOrg, "oracle": EntityOrg, "nvidia": EntityOrg, "intel": EntityOrg,
		"openai": EntityOrg, "anthropic": EntityOrg, "netflix": EntityOrg, "meta": EntityOrg,
		"github": EntityOrg, "gitlab": EntityOrg, "salesforce": EntityOrg, "adobe": EntityOrg,
		"samsung": EntityOrg, "tesla": EntityOrg, "spotify": EntityOrg, "uber": EntityOrg,
		"nasa": EntityOrg, "united nations": EntityOrg, "european union": EntityOrg,

		// Cloud, infrastructure and tooling
		"azure": EntityProduct, "aws": EntityProduct, "gcp": EntityProduct,
		"google cloud": EntityProduct, "amazon web services": EntityProduct,
		"kubernetes": EntityProduct, "docker": EntityProduct, "jenkins": EntityProduct,
		"terraform": EntityProduct, "circleci": EntityProduct, "argocd": EntityProduct,
		"prometheus": EntityProduct, "grafana": EntityProduct, "splunk": EntityProduct,

		// Frameworks, languages and data stores
		"react": EntityProduct, "angular": EntityProduct, "django": EntityProduct,
		"flask": EntityProduct, "spring boot": EntityProduct, "graphql": EntityProduct,
		"grpc": EntityProduct, "mysql": EntityProduct, "postgresql": EntityProduct,
		"mongodb": EntityProduct, "redis": EntityProduct, "elasticsearch": EntityProduct,
		"kafka": EntityProduct, "tensorflow": EntityProduct, "pytorch": EntityProduct,
		"golang": EntityProduct, "typescript": EntityProduct, "javascript": EntityProduct,
		"python": EntityProduct, "rust": EntityProduct, "windows": EntityProduct,
		"android": EntityProduct, "ios": EntityProduct, "visual studio code": EntityProduct,
	})
}

// Lookup returns the category for a name.
func (g *Gazetteer) Lookup(name string) (string, bool) {
	category, ok := g.entries[strings.Join(strings.Fields(strings.ToLower(name)), " ")]
	return category, ok
}

// Apply labels token runs that match an entry, longest match first. A run
// qualifies when it is unlabeled or when it is exactly one statistical
// mention, whose category the entry then replaces. Only runs containing an
// upper-case letter are considered so that common words ("react", "rust")
// in running text stay untouched.
func (g *Gazetteer) Apply(tokens []Token) {
	for i := 0; i < len(tokens); {
		matched := 0
		for n := min(g.maxWords, len(tokens)-i); n > 0; n-- {
			span := tokens[i : i+n]
			if !(unlabeledSpan(span) || singleMention(tokens, i, n)) || !hasUpper(span) {
				continue
			}
			words := make([]string, n)
			for j, tok := range span {
				words[j] = strings.ToLower(tok.Text)
			}
			category, ok := g.entries[strings.Join(words, " ")]
			if !ok {
				continue
			}
			for j := range span {
				span[j].Entity = category
				span[j].EntityBegin = j == 0
			}
			matched = n
			break
		}
		if matched == 0 {
			matched = 1
		}
		i += matched
	}
}

func unlabeledSpan(span []Token) bool {
	for _, tok := range span {
		if tok.Entity != "" || tok.Sentence != span[0].Sentence {
			return false
		}
	}
	return true
}

// singleMention reports whether tokens[i:i+n] is one whole labeled mention:
// it opens the mention and nothing after it continues it.
func singleMention(tokens []Token, i, n int) bool {
	first := tokens[i]
	if first.Entity == "" || !first.EntityBegin {
		return false
	}
	for _, tok := range tokens[i+1 : i+n] {
		if tok.Entity != first.Entity || tok.EntityBegin || tok.Sentence != first.Sentence {
			return false
		}
	}
	if end := i + n; end < len(tokens) {
		next := tokens[end]
		if next.Entity != "" && !next.EntityBegin {
			return false
		}
	}
	return true
}

func hasUpper(span []Token) bool {
	for _, tok := range span {
		if strings.IndexFunc(tok.Text, unicode.IsUpper) >= 0 {
			return true
		}
	}
	return false
}

var organisationSuffixes = mapset.NewSet[string](
	"inc", "corp", "corporation", "ltd", "llc", "plc", "gmbh", "co",
	"foundation", "university", "institute", "group", "labs", "association",
)

// labelOrganisationSuffixes tags unlabeled proper-noun runs ending in a
// corporate or institutional suffix ("Acme Corp", "Stanford University").
func labelOrganisationSuffixes(tokens []Token) {
	for i := 0; i < len(tokens); {
		if tokens[i].Entity != "" || tokens[i].POS != POSPropn {
			i++
			continue
		}
		j := i
		for j < len(tokens) && tokens[j].Entity == "" && tokens[j].POS == POSPropn && tokens[j].Sentence == tokens[i].Sentence {
			j++
		}
		last := strings.ToLower(strings.TrimSuffix(tokens[j-1].Text, "."))
		if j-i > 1 && organisationSuffixes.Contains(last) {
			for k := i; k < j; k++ {
				tokens[k].Entity = EntityOrg
				tokens[k].EntityBegin = k == i
			}
		}
		i = j
	}
}

var personTitles = mapset.NewSet[string](
	"ceo", "cto", "cfo", "coo", "president", "chairman", "chairwoman", "chair",
	"director", "founder", "minister", "senator", "governor", "mayor", "judge",
	"dr", "mr", "mrs", "ms", "prof", "professor", "sir", "dame", "lord", "lady",
	"king", "queen", "prince", "princess", "general", "captain", "pope",
)

// extendPersonNames grows each PERSON mention over the unlabeled capitalised
// proper nouns next to it in the same sentence, so a tagger that only marks
// the surname still yields the full name. Titles ("CEO", "Dr.") stay outside.
func extendPersonNames(tokens []Token) {
	for i := 0; i < len(tokens); {
		if tokens[i].Entity != EntityPerson {
			i++
			continue
		}
		start, end := i, i+1
		for end < len(tokens) && tokens[end].Entity == EntityPerson && !tokens[end].EntityBegin {
			end++
		}
		sentence := tokens[i].Sentence
		for start > 0 && namePart(tokens[start-1], sentence) {
			start--
		}
		for end < len(tokens) && namePart(tokens[end], sentence) {
			end++
		}
		for k := start; k < end; k++ {
			tokens[k].Entity = EntityPerson
			tokens[k].EntityBegin = k == start
		}
		i = end
	}
}

func namePart(tok Token, sentence int) bool {
	if tok.Entity != "" || tok.POS != POSPropn || tok.Sentence != sentence {
		return false
	}
	r := []rune(tok.Text)
	if len(r) == 0 || !unicode.IsUpper(r[0]) {
		return false
	}
	return !personTitles.Contains(strings.ToLower(strings.TrimSuffix(tok.Text, ".")))
}
