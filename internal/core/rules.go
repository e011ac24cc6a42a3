package core

import (
	"regexp"
	"strings"

	"github.com/jafonso/vision-doc-classifier/internal/utils"
)

// cpfNumber matches the structural form of a Brazilian CPF number.
var cpfNumber = regexp.MustCompile(`\d{3}\.\d{3}\.\d{3}-\d{2}`)

// personLabels are the visual concepts that mark a portrait photo. Matched
// by containment against detected label descriptions.
var personLabels = []string{"person", "face", "head", "portrait", "human", "people"}

// ruleFunc decides whether one document type applies to the attachment.
// text arrives already normalized.
type ruleFunc func(text string, analysis *AnalysisResult) bool

// rule pairs a document tag with the predicate that recognizes it.
type rule struct {
	tag   string
	match ruleFunc
}

// KeywordClassifier maps analyzer output to document tags through an ordered
// rule table. Every rule is evaluated and all matches accumulate; no rule
// suppresses another, so one attachment may collect several tags. Output
// order is table order, which keeps results identical across runs.
type KeywordClassifier struct {
	normalizer          *utils.TextNormalizer
	utilityCompanies    []string
	littleTextThreshold int
	rules               []rule
}

// NewKeywordClassifier creates a new KeywordClassifier. utilityCompanies
// extends the address-proof rule with deployment-specific issuer names.
// littleTextThreshold bounds how much OCR text a 3x4 portrait may carry.
func NewKeywordClassifier(normalizer *utils.TextNormalizer, utilityCompanies []string, littleTextThreshold int) *KeywordClassifier {
	c := &KeywordClassifier{
		normalizer:          normalizer,
		littleTextThreshold: littleTextThreshold,
	}
	for _, company := range utilityCompanies {
		c.utilityCompanies = append(c.utilityCompanies, normalizer.Normalize(company))
	}
	c.rules = c.buildRules()
	return c
}

// buildRules assembles the rule table. Keywords are written in their
// natural accented form and folded through the same normalizer as the OCR
// text, so both sides of every comparison share one canonical form.
func (c *KeywordClassifier) buildRules() []rule {
	hasCPFKeyword := c.anyKeyword("cadastro de pessoa física", "cpf", "receita federal")
	hasDiploma := c.anyKeyword("diploma")
	hasMedicina := c.anyKeyword("medicina")
	hasCertificate := c.anyKeyword("certificado", "certificação")
	hasACLS := c.anyKeyword("acls")
	hasATLS := c.anyKeyword("atls")
	hasPALS := c.anyKeyword("pals")
	hasEspecialidade := c.anyKeyword("especialidade", "especialização")
	hasPosGraduacao := c.anyKeyword("pós-graduação", "pos graduacao")
	hasEnderecoKeyword := c.anyKeyword("comprovante", "endereço", "residência")

	specificCertificate := func(text string, a *AnalysisResult) bool {
		return hasACLS(text, a) || hasATLS(text, a) || hasPALS(text, a) ||
			hasEspecialidade(text, a) || hasPosGraduacao(text, a)
	}

	return []rule{
		{TagFoto3x4, func(text string, a *AnalysisResult) bool {
			if !a.FacePresent || len(strings.TrimSpace(text)) >= c.littleTextThreshold {
				return false
			}
			for _, label := range personLabels {
				if a.HasLabel(label) {
					return true
				}
			}
			return false
		}},
		{TagRG, c.anyKeyword("registro geral", "carteira de identidade", "identidade", "rg nº", "rg:", "doc. identidade")},
		{TagCPF, func(text string, a *AnalysisResult) bool {
			return hasCPFKeyword(text, a) || cpfNumber.MatchString(text)
		}},
		{TagCNH, c.anyKeyword("carteira nacional de habilitação", "cnh", "detran", "habilitação")},
		{TagCartaoSUS, c.anyKeyword("sistema único de saúde", "sus", "cartão nacional de saúde", "cns")},
		{TagCRM, c.anyKeyword("conselho regional de medicina", "crm", "medicina")},
		{TagTituloEleitor, c.anyKeyword("título de eleitor", "titulo eleitor", "justiça eleitoral", "tse")},
		{TagDiplomaMedicina, func(text string, a *AnalysisResult) bool {
			return hasDiploma(text, a) && hasMedicina(text, a)
		}},
		{TagCertidaoCasamento, c.anyKeyword("certidão de casamento", "cartório", "casamento")},
		{TagPIS, c.anyKeyword("pis", "pasep", "programa de integração social")},
		{TagCarteiraTrabalho, c.anyKeyword("carteira de trabalho", "ctps", "ministério do trabalho")},
		{TagCertificadoACLS, func(text string, a *AnalysisResult) bool {
			return hasCertificate(text, a) && hasACLS(text, a)
		}},
		{TagCertificadoATLS, func(text string, a *AnalysisResult) bool {
			return hasCertificate(text, a) && hasATLS(text, a)
		}},
		{TagCertificadoPALS, func(text string, a *AnalysisResult) bool {
			return hasCertificate(text, a) && hasPALS(text, a)
		}},
		{TagCertificadoEspecialidade, func(text string, a *AnalysisResult) bool {
			return hasCertificate(text, a) && hasEspecialidade(text, a)
		}},
		{TagCertificadoPosGraduacao, func(text string, a *AnalysisResult) bool {
			return hasCertificate(text, a) && hasPosGraduacao(text, a)
		}},
		// Catch-all for certificates none of the specific rules claim. The
		// negative guard is part of the predicate so the rule stays
		// independent of evaluation order.
		{TagCertificadoCursoOutros, func(text string, a *AnalysisResult) bool {
			return hasCertificate(text, a) && !specificCertificate(text, a)
		}},
		{TagDeclaracaoResidenciaMedica, c.anyKeyword("residência médica", "programa de residência")},
		{TagCurriculo, c.anyKeyword("currículo", "curriculum", "cv", "experiência profissional")},
		{TagComprovanteEndereco, func(text string, a *AnalysisResult) bool {
			if hasEnderecoKeyword(text, a) {
				return true
			}
			for _, company := range c.utilityCompanies {
				if company != "" && strings.Contains(text, company) {
					return true
				}
			}
			return false
		}},
	}
}

// Classify evaluates the full rule table against the analyzer output. The
// returned tags follow table order. An empty result means no rule fired;
// fallback policy belongs to the caller.
func (c *KeywordClassifier) Classify(analysis *AnalysisResult) []string {
	text := c.normalizer.Normalize(analysis.Text)
	var tags []string
	for _, r := range c.rules {
		if r.match(text, analysis) {
			tags = append(tags, r.tag)
		}
	}
	return tags
}

// anyKeyword compiles the keywords into word-bounded matchers and returns a
// predicate satisfied when any of them occurs in the text.
func (c *KeywordClassifier) anyKeyword(keywords ...string) ruleFunc {
	matchers := make([]*regexp.Regexp, 0, len(keywords))
	for _, kw := range keywords {
		matchers = append(matchers, compileKeyword(c.normalizer.Normalize(kw)))
	}
	return func(text string, _ *AnalysisResult) bool {
		for _, m := range matchers {
			if m.MatchString(text) {
				return true
			}
		}
		return false
	}
}

// compileKeyword turns a normalized keyword into a word-bounded pattern.
// Boundaries are asserted only against word characters, so keywords ending
// in punctuation ("rg:") keep their anchor.
func compileKeyword(keyword string) *regexp.Regexp {
	expr := regexp.QuoteMeta(keyword)
	if keyword != "" && isWordChar(keyword[0]) {
		expr = `\b` + expr
	}
	if keyword != "" && isWordChar(keyword[len(keyword)-1]) {
		expr += `\b`
	}
	return regexp.MustCompile(expr)
}

func isWordChar(b byte) bool {
	return b == '_' || ('a' <= b && b <= 'z') || ('0' <= b && b <= '9')
}
