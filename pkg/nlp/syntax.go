package nlp

import "strings"

var pennToUniversal = map[string]string{
	"NN":   POSNoun,
	"NNS":  POSNoun,
	"NNP":  POSPropn,
	"NNPS": POSPropn,
	"JJ":   POSAdj,
	"JJR":  POSAdj,
	"JJS":  POSAdj,
	"VB":   POSVerb,
	"VBD":  POSVerb,
	"VBG":  POSVerb,
	"VBN":  POSVerb,
	"VBP":  POSVerb,
	"VBZ":  POSVerb,
	"MD":   POSAux,
	"RB":   POSAdv,
	"RBR":  POSAdv,
	"RBS":  POSAdv,
	"WRB":  POSAdv,
	"IN":   POSAdp,
	"DT":   POSDet,
	"PDT":  POSDet,
	"WDT":  POSDet,
	"PRP":  POSPron,
	"PRP$": POSPron,
	"WP":   POSPron,
	"WP$":  POSPron,
	"EX":   POSPron,
	"CD":   POSNum,
	"CC":   POSCconj,
	"RP":   POSPart,
	"TO":   POSPart,
	"POS":  POSPart,
	"UH":   POSIntj,
	"SYM":  POSSym,
	"$":    POSSym,
	"#":    POSSym,
	"FW":   POSOther,
	"LS":   POSOther,
}

// UniversalPOS maps a Penn Treebank tag to a universal part-of-speech tag.
func UniversalPOS(tag string) string {
	if pos, ok := pennToUniversal[tag]; ok {
		return pos
	}
	if tag == "" {
		return POSOther
	}
	// Penn punctuation tags are the punctuation itself: , . : `` '' ( ) -LRB- ...
	if strings.IndexFunc(tag, isTagLetter) < 0 || strings.HasPrefix(tag, "-") {
		return POSPunct
	}
	return POSOther
}

func isTagLetter(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

// IsNominal reports whether pos is a noun or proper noun.
func IsNominal(pos string) bool {
	return pos == POSNoun || pos == POSPropn
}

// AssignRoles fills Token.Dep for the tokens of one sentence with a
// simplified, position-based dependency role. The first verb is the ROOT,
// nominals before it are subjects, nominals after it objects, nominals
// directly followed by another nominal are compounds and nominals following
// a preposition are prepositional objects.
func AssignRoles(tokens []Token) {
	root := -1
	for i, tok := range tokens {
		if tok.POS == POSVerb || tok.POS == POSAux {
			root = i
			break
		}
	}

	for i := range tokens {
		tokens[i].Dep = roleAt(tokens, i, root)
	}
}

func roleAt(tokens []Token, i, root int) string {
	tok := tokens[i]
	switch tok.POS {
	case POSPunct:
		return "punct"
	case POSDet:
		return "det"
	case POSAdj:
		return "amod"
	case POSAdp:
		return "prep"
	case POSCconj:
		return "cc"
	case POSAdv:
		return "advmod"
	case POSNum:
		return "nummod"
	case POSPart:
		return "part"
	case POSVerb, POSAux:
		if i == root {
			return "ROOT"
		}
		return "xcomp"
	case POSNoun, POSPropn, POSPron:
		if tok.POS != POSPron && i+1 < len(tokens) && IsNominal(tokens[i+1].POS) {
			return "compound"
		}
		if prev := previousContent(tokens, i); prev >= 0 && tokens[prev].POS == POSAdp {
			return "pobj"
		}
		switch {
		case root < 0:
			return "ROOT"
		case i < root:
			return "nsubj"
		default:
			return "dobj"
		}
	}
	return "dep"
}

// previousContent returns the index of the closest preceding token that is
// not part of the current noun phrase (determiners, adjectives, compounds).
func previousContent(tokens []Token, i int) int {
	for j := i - 1; j >= 0; j-- {
		switch tokens[j].POS {
		case POSDet, POSAdj, POSNum, POSNoun, POSPropn:
			continue
		}
		return j
	}
	return -1
}
