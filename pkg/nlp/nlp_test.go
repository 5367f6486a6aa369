package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniversalPOS(t *testing.T) {
	tests := []struct {
		tag  string
		want string
	}{
		{"NN", POSNoun},
		{"NNPS", POSPropn},
		{"JJR", POSAdj},
		{"VBZ", POSVerb},
		{"IN", POSAdp},
		{",", POSPunct},
		{".", POSPunct},
		{"-LRB-", POSPunct},
		{"", POSOther},
		{"ZZZ", POSOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UniversalPOS(tt.tag), "tag %q", tt.tag)
	}
}

func TestAssignRoles(t *testing.T) {
	tokens := []Token{
		{Text: "Microsoft", POS: POSPropn},
		{Text: "builds", POS: POSVerb},
		{Text: "Azure", POS: POSPropn},
		{Text: "in", POS: POSAdp},
		{Text: "Seattle", POS: POSPropn},
		{Text: ".", POS: POSPunct},
	}
	AssignRoles(tokens)

	got := make([]string, len(tokens))
	for i, tok := range tokens {
		got[i] = tok.Dep
	}
	assert.Equal(t, []string{"nsubj", "ROOT", "dobj", "prep", "pobj", "punct"}, got)
}

func TestAssignRolesCompound(t *testing.T) {
	tokens := []Token{
		{Text: "Satya", POS: POSPropn},
		{Text: "Nadella", POS: POSPropn},
		{Text: "spoke", POS: POSVerb},
	}
	AssignRoles(tokens)
	assert.Equal(t, "compound", tokens[0].Dep)
	assert.Equal(t, "nsubj", tokens[1].Dep)
}

func TestGazetteerApply(t *testing.T) {
	g := NewGazetteer(map[string]string{
		"azure":        EntityProduct,
		"google cloud": EntityProduct,
	})
	tokens := []Token{
		{Text: "Google", POS: POSPropn},
		{Text: "Cloud", POS: POSPropn},
		{Text: "and", POS: POSCconj},
		{Text: "Azure", POS: POSPropn},
		{Text: "azure", POS: POSAdj},
	}
	g.Apply(tokens)

	assert.Equal(t, EntityProduct, tokens[0].Entity)
	assert.True(t, tokens[0].EntityBegin)
	assert.Equal(t, EntityProduct, tokens[1].Entity)
	assert.False(t, tokens[1].EntityBegin)
	assert.Empty(t, tokens[2].Entity)
	assert.Equal(t, EntityProduct, tokens[3].Entity)
	assert.Empty(t, tokens[4].Entity, "lower-case words are not gazetteer matches")

	category, ok := g.Lookup("Google   Cloud")
	assert.True(t, ok)
	assert.Equal(t, EntityProduct, category)
}

func TestGazetteerOverridesSingleMention(t *testing.T) {
	g := NewGazetteer(map[string]string{
		"microsoft":    EntityOrg,
		"google cloud": EntityProduct,
	})
	tokens := []Token{
		{Text: "Microsoft", POS: POSPropn, Entity: EntityPerson, EntityBegin: true},
		{Text: "and", POS: POSCconj},
		{Text: "Google", POS: POSPropn, Entity: EntityOrg, EntityBegin: true},
		{Text: "Cloud", POS: POSPropn, Entity: EntityOrg},
		{Text: "Microsoft", POS: POSPropn, Entity: EntityOrg, EntityBegin: true},
		{Text: "Research", POS: POSPropn, Entity: EntityOrg},
	}
	g.Apply(tokens)

	assert.Equal(t, EntityOrg, tokens[0].Entity)
	assert.True(t, tokens[0].EntityBegin)
	assert.Equal(t, EntityProduct, tokens[2].Entity, "whole mention takes the entry category")
	assert.True(t, tokens[2].EntityBegin)
	assert.Equal(t, EntityProduct, tokens[3].Entity)
	assert.False(t, tokens[3].EntityBegin)
	assert.Equal(t, EntityOrg, tokens[4].Entity, "part of a longer mention is left alone")
	assert.Equal(t, EntityOrg, tokens[5].Entity)
	assert.False(t, tokens[5].EntityBegin)
}

func TestExtendPersonNames(t *testing.T) {
	tokens := []Token{
		{Text: "Microsoft", POS: POSPropn, Entity: EntityOrg, EntityBegin: true},
		{Text: "CEO", POS: POSPropn},
		{Text: "Satya", POS: POSPropn},
		{Text: "Nadella", POS: POSPropn, Entity: EntityPerson, EntityBegin: true},
		{Text: "discussed", POS: POSVerb},
		{Text: "Azure", POS: POSPropn, Entity: EntityProduct, EntityBegin: true},
		{Text: ".", POS: POSPunct},
	}
	extendPersonNames(tokens)

	assert.Equal(t, EntityOrg, tokens[0].Entity)
	assert.Empty(t, tokens[1].Entity, "titles stay outside the name")
	assert.Equal(t, EntityPerson, tokens[2].Entity)
	assert.True(t, tokens[2].EntityBegin)
	assert.Equal(t, EntityPerson, tokens[3].Entity)
	assert.False(t, tokens[3].EntityBegin)
	assert.Empty(t, tokens[4].Entity)
	assert.Equal(t, EntityProduct, tokens[5].Entity)
}

func TestExtendPersonNamesRightward(t *testing.T) {
	tokens := []Token{
		{Text: "Dr.", POS: POSPropn},
		{Text: "Grace", POS: POSPropn, Entity: EntityPerson, EntityBegin: true},
		{Text: "Brewster", POS: POSPropn},
		{Text: "Hopper", POS: POSPropn},
		{Text: "Navy", POS: POSPropn, Sentence: 1},
	}
	extendPersonNames(tokens)

	assert.Empty(t, tokens[0].Entity)
	assert.True(t, tokens[1].EntityBegin)
	for _, tok := range tokens[2:4] {
		assert.Equal(t, EntityPerson, tok.Entity, tok.Text)
		assert.False(t, tok.EntityBegin, tok.Text)
	}
	assert.Empty(t, tokens[4].Entity, "names do not cross sentences")
}

func TestLabelOrganisationSuffixes(t *testing.T) {
	tokens := []Token{
		{Text: "Acme", POS: POSPropn},
		{Text: "Corp.", POS: POSPropn},
		{Text: "hired", POS: POSVerb},
		{Text: "Alice", POS: POSPropn},
	}
	labelOrganisationSuffixes(tokens)

	assert.Equal(t, EntityOrg, tokens[0].Entity)
	assert.True(t, tokens[0].EntityBegin)
	assert.Equal(t, EntityOrg, tokens[1].Entity)
	assert.Empty(t, tokens[3].Entity)
}

func TestParseIOB(t *testing.T) {
	entity, begin := parseIOB("B-PERSON")
	assert.Equal(t, "PERSON", entity)
	assert.True(t, begin)

	entity, begin = parseIOB("I-GPE")
	assert.Equal(t, "GPE", entity)
	assert.False(t, begin)

	entity, _ = parseIOB("O")
	assert.Empty(t, entity)
}

func TestLexiconTaggerUsesDocumentTags(t *testing.T) {
	doc := &Document{Tokens: []Token{
		{Text: "Telemetry", POS: POSNoun},
		{Text: "data", POS: POSNoun},
		{Text: "flows", POS: POSVerb},
		{Text: "data", POS: POSNoun},
		{Text: "data", POS: POSVerb},
		{Text: ".", POS: POSPunct},
	}}
	tagger := NewLexiconTagger(doc, nil)
	assert.Equal(t, 3, tagger.Len())

	tokens, err := tagger.Tag("telemetry data")
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, POSNoun, tokens[0].POS)
	assert.Equal(t, POSNoun, tokens[1].POS, "majority tag wins")

	tokens, err = tagger.Tag("unknown word")
	require.NoError(t, err)
	assert.Equal(t, POSOther, tokens[0].POS)
}

type stubTagger struct{ calls int }

func (s *stubTagger) Tag(text string) ([]Token, error) {
	s.calls++
	return []Token{{Text: text, POS: POSPropn}}, nil
}

func TestLexiconTaggerFallback(t *testing.T) {
	fallback := &stubTagger{}
	tagger := NewLexiconTagger(nil, fallback)

	tokens, err := tagger.Tag("Kubernetes")
	require.NoError(t, err)
	assert.Equal(t, 1, fallback.calls)
	assert.Equal(t, POSPropn, tokens[0].POS)
}

func TestProseEngineAnalyze(t *testing.T) {
	text := "Microsoft builds Azure in Seattle. The team ships new features every week."
	engine := NewProseEngine()

	doc, err := engine.Analyze(text)
	require.NoError(t, err)
	require.NotEmpty(t, doc.Tokens)
	require.Len(t, doc.Sentences, 2)

	for _, tok := range doc.Tokens {
		if tok.End > tok.Start {
			assert.Equal(t, tok.Text, text[tok.Start:tok.End])
		}
		assert.NotEmpty(t, tok.POS)
		assert.NotEmpty(t, tok.Dep)
	}
	assert.Equal(t, 0, doc.Tokens[0].Sentence)
	assert.Equal(t, 1, doc.Tokens[len(doc.Tokens)-1].Sentence)

	// Azure is in the default gazetteer even when the statistical model misses it.
	var azure *Token
	for i := range doc.Tokens {
		if doc.Tokens[i].Text == "Azure" {
			azure = &doc.Tokens[i]
		}
	}
	require.NotNil(t, azure)
	assert.NotEmpty(t, azure.Entity)
}

func TestProseEngineAnalyzeFullPersonName(t *testing.T) {
	engine := NewProseEngine()

	doc, err := engine.Analyze("Microsoft CEO Satya Nadella discussed Azure. Microsoft builds Azure in Seattle.")
	require.NoError(t, err)

	labels := map[string]Token{}
	for _, tok := range doc.Tokens {
		if _, seen := labels[tok.Text]; !seen {
			labels[tok.Text] = tok
		}
	}
	assert.Empty(t, labels["CEO"].Entity)
	assert.Equal(t, EntityPerson, labels["Satya"].Entity)
	assert.True(t, labels["Satya"].EntityBegin)
	assert.Equal(t, EntityPerson, labels["Nadella"].Entity)
	assert.False(t, labels["Nadella"].EntityBegin)
	assert.Equal(t, EntityOrg, labels["Microsoft"].Entity)
}

func TestProseEngineTag(t *testing.T) {
	tokens, err := NewProseEngine().Tag("distributed systems")
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	for _, tok := range tokens {
		assert.Empty(t, tok.Entity)
	}
}
