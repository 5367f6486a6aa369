// Package nlp defines the linguistic analysis contract used by the keyword
// extractor and a prose-backed implementation of it.
package nlp

// Universal part-of-speech tags.
const (
	POSNoun  = "NOUN"
	POSPropn = "PROPN"
	POSAdj   = "ADJ"
	POSVerb  = "VERB"
	POSAux   = "AUX"
	POSAdv   = "ADV"
	POSAdp   = "ADP"
	POSDet   = "DET"
	POSPron  = "PRON"
	POSNum   = "NUM"
	POSCconj = "CCONJ"
	POSSconj = "SCONJ"
	POSPart  = "PART"
	POSPunct = "PUNCT"
	POSSym   = "SYM"
	POSIntj  = "INTJ"
	POSOther = "X"
)

// Entity categories produced by engines.
const (
	EntityOrg        = "ORG"
	EntityPerson     = "PERSON"
	EntityProduct    = "PRODUCT"
	EntityGPE        = "GPE"
	EntityLoc        = "LOC"
	EntityWorkOfArt  = "WORK_OF_ART"
	EntityNorp       = "NORP"
	EntityDate       = "DATE"
	EntityMoney      = "MONEY"
	EntityPercentage = "PERCENT"
)

// Token is a single analysed token.
type Token struct {
	Text string `json:"text"`
	// POS is the universal part-of-speech tag.
	POS string `json:"pos"`
	// Tag is the engine's fine-grained tag (Penn Treebank for prose).
	Tag string `json:"tag"`
	// Dep is a simplified dependency role (nsubj, dobj, compound, ROOT, ...).
	Dep string `json:"dep"`
	// Entity is the entity category, empty outside of entities.
	Entity string `json:"entity,omitempty"`
	// EntityBegin marks the first token of an entity mention.
	EntityBegin bool `json:"entity_begin,omitempty"`
	Sentence    int  `json:"sentence"`
	// Start and End are byte offsets into Document.Text.
	Start int `json:"start"`
	End   int `json:"end"`
}

// Sentence is a segmented sentence with byte offsets into Document.Text.
type Sentence struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Document is the result of analysing a text.
type Document struct {
	Text      string     `json:"text"`
	Tokens    []Token    `json:"tokens"`
	Sentences []Sentence `json:"sentences"`
}

// SentenceText returns the text of sentence i, or an empty string when out of range.
func (d *Document) SentenceText(i int) string {
	if d == nil || i < 0 || i >= len(d.Sentences) {
		return ""
	}
	return d.Sentences[i].Text
}

// Engine analyses text: tokenization, tagging, segmentation and NER.
type Engine interface {
	Analyze(text string) (*Document, error)
}

// Tagger assigns part-of-speech tags to a short text such as a candidate phrase.
type Tagger interface {
	Tag(text string) ([]Token, error)
}
