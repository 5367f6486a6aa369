package validate

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// Stopwords is the English stopword list shared by the phrase and term extractors.
var Stopwords = mapset.NewSet[string](
	"a", "about", "above", "after", "again", "against", "all", "also", "am", "an", "and",
	"any", "are", "as", "at", "be", "because", "been", "before", "being", "below",
	"between", "both", "but", "by", "can", "could", "did", "do", "does", "doing", "done",
	"down", "during", "each", "either", "else", "even", "ever", "every", "few", "for",
	"from", "further", "get", "gets", "got", "had", "has", "have", "having", "he", "her",
	"here", "hers", "herself", "him", "himself", "his", "how", "however", "i", "if", "in",
	"into", "is", "it", "its", "itself", "just", "let", "like", "may", "me", "might",
	"more", "most", "much", "must", "my", "myself", "neither", "no", "nor", "not", "now",
	"of", "off", "often", "on", "once", "one", "only", "or", "other", "our", "ours",
	"ourselves", "out", "over", "own", "per", "quite", "rather", "really", "same", "shall",
	"she", "should", "since", "so", "some", "still", "such", "than", "that", "the",
	"their", "theirs", "them", "themselves", "then", "there", "these", "they", "this",
	"those", "though", "through", "thus", "to", "too", "under", "until", "up", "upon",
	"us", "very", "via", "was", "we", "well", "were", "what", "whatever", "when",
	"whenever", "where", "whereas", "whether", "which", "while", "who", "whom", "whose",
	"why", "will", "with", "within", "without", "would", "yet", "you", "your", "yours",
	"yourself", "yourselves",
)

// QuestionWords may not start a phrase.
var QuestionWords = mapset.NewSet[string](
	"what", "why", "how", "when", "where", "who", "whom", "whose", "which", "whether",
)

// Connectors are prepositions and conjunctions that may not appear between
// the other words of a phrase.
var Connectors = mapset.NewSet[string](
	"of", "in", "on", "at", "for", "with", "by", "from", "to", "into", "onto", "about",
	"over", "under", "between", "through", "during", "against", "without", "within",
	"across", "among", "via", "per", "and", "or", "but", "nor", "as", "than", "versus", "vs",
)

// AllowList holds acronyms and abbreviations that are always valid. Matching
// is case-sensitive so that "IT" is accepted while "it" is not.
var AllowList = mapset.NewSet[string](
	// Countries and regions
	"US", "USA", "UK", "EU", "UN", "UAE", "APAC", "EMEA", "LATAM",
	"CA", "DE", "FR", "JP", "CN", "IN", "AU", "BR", "SG", "NZ", "KR",
	// Organisations
	"NASA", "NATO", "WHO", "IMF", "OECD", "IEEE", "ISO", "W3C", "IETF", "FDA", "GDPR",
	// Technology
	"AI", "ML", "NLP", "LLM", "API", "SDK", "CLI", "GUI", "UI", "UX", "AWS", "GCP",
	"CPU", "GPU", "TPU", "RAM", "SSD", "SQL", "NoSQL", "HTTP", "HTTPS", "REST", "gRPC",
	"JSON", "XML", "YAML", "HTML", "CSS", "DNS", "TCP", "UDP", "IP", "VPN", "IoT", "SaaS",
	"PaaS", "IaaS", "CI/CD", "ETL", "OLAP", "5G", "4G", "3D", "B2B", "B2C",
	// Roles and functions
	"CEO", "CTO", "CFO", "COO", "CIO", "HR", "IT", "QA", "R&D", "PR",
)

func isStopword(word string) bool {
	return Stopwords.Contains(strings.ToLower(word))
}
