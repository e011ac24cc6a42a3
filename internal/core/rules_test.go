package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jafonso/vision-doc-classifier/internal/utils"
)

func newTestClassifier() *KeywordClassifier {
	companies := []string{"Enel", "EDP ES Distrib de Energia"}
	return NewKeywordClassifier(utils.NewTextNormalizer(), companies, 50)
}

func TestKeywordClassifier_Classify(t *testing.T) {
	classifier := newTestClassifier()

	tests := []struct {
		name     string
		analysis *AnalysisResult
		want     []string
	}{
		{
			name:     "rg by keyword",
			analysis: &AnalysisResult{Text: "REPÚBLICA FEDERATIVA DO BRASIL REGISTRO GERAL 123456789"},
			want:     []string{TagRG},
		},
		{
			name:     "cpf by keyword with diacritics",
			analysis: &AnalysisResult{Text: "CADASTRO DE PESSOA FÍSICA"},
			want:     []string{TagCPF},
		},
		{
			name:     "cpf by number shape alone",
			analysis: &AnalysisResult{Text: "documento 123.456.789-00 sem rótulo"},
			want:     []string{TagCPF},
		},
		{
			name:     "cnh folded through normalizer",
			analysis: &AnalysisResult{Text: "CARTEIRA NACIONAL DE HABILITAÇÃO"},
			want:     []string{TagCNH},
		},
		{
			name:     "sus card",
			analysis: &AnalysisResult{Text: "SISTEMA ÚNICO DE SAÚDE CNS 7000000000000"},
			want:     []string{TagCartaoSUS},
		},
		{
			name: "sus keyword requires word boundary",
			analysis: &AnalysisResult{
				Text: "CONTRATO SUSPENSO ATÉ SEGUNDA ORDEM",
			},
			want: nil,
		},
		{
			name:     "crm license",
			analysis: &AnalysisResult{Text: "CONSELHO REGIONAL DE MEDICINA CRM-ES 12345"},
			want:     []string{TagCRM},
		},
		{
			name: "diploma accumulates with crm via medicina keyword",
			analysis: &AnalysisResult{
				Text: "DIPLOMA DE GRADUAÇÃO EM MEDICINA",
			},
			want: []string{TagCRM, TagDiplomaMedicina},
		},
		{
			name:     "titulo de eleitor",
			analysis: &AnalysisResult{Text: "JUSTIÇA ELEITORAL TÍTULO DE ELEITOR"},
			want:     []string{TagTituloEleitor},
		},
		{
			name:     "generic certificate falls to catch-all",
			analysis: &AnalysisResult{Text: "CERTIFICADO DE PARTICIPAÇÃO EM CONGRESSO"},
			want:     []string{TagCertificadoCursoOutros},
		},
		{
			name:     "acls certificate excluded from catch-all",
			analysis: &AnalysisResult{Text: "CERTIFICADO DE CONCLUSÃO ACLS"},
			want:     []string{TagCertificadoACLS},
		},
		{
			name:     "pals certificate",
			analysis: &AnalysisResult{Text: "CERTIFICADO PALS PEDIATRIC ADVANCED LIFE SUPPORT"},
			want:     []string{TagCertificadoPALS},
		},
		{
			name:     "especialidade certificate",
			analysis: &AnalysisResult{Text: "CERTIFICADO DE ESPECIALIDADE EM CARDIOLOGIA"},
			want:     []string{TagCertificadoEspecialidade},
		},
		{
			name:     "acls mention without certificate keyword",
			analysis: &AnalysisResult{Text: "CURSO ACLS REALIZADO EM 2023"},
			want:     nil,
		},
		{
			// "residência" is also an address-proof keyword, so the
			// declaration accumulates both tags.
			name:     "residencia medica declaration",
			analysis: &AnalysisResult{Text: "DECLARAÇÃO PROGRAMA DE RESIDÊNCIA MÉDICA"},
			want:     []string{TagDeclaracaoResidenciaMedica, TagComprovanteEndereco},
		},
		{
			name:     "curriculo",
			analysis: &AnalysisResult{Text: "CURRÍCULO EXPERIÊNCIA PROFISSIONAL"},
			want:     []string{TagCurriculo},
		},
		{
			name:     "address proof by keyword",
			analysis: &AnalysisResult{Text: "COMPROVANTE DE RESIDÊNCIA"},
			want:     []string{TagComprovanteEndereco},
		},
		{
			name:     "address proof by utility company name",
			analysis: &AnalysisResult{Text: "FATURA ENEL REFERENTE A JULHO"},
			want:     []string{TagComprovanteEndereco},
		},
		{
			name:     "empty text yields no tags",
			analysis: &AnalysisResult{},
			want:     nil,
		},
		{
			name: "unrecognized text yields no tags",
			analysis: &AnalysisResult{
				Text: "bom dia, segue em anexo o documento solicitado",
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifier.Classify(tt.analysis)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeywordClassifier_PortraitRule(t *testing.T) {
	classifier := newTestClassifier()

	tests := []struct {
		name     string
		analysis *AnalysisResult
		want     []string
	}{
		{
			name: "face with person label and little text",
			analysis: &AnalysisResult{
				Text:        "Nome da Pessoa",
				FacePresent: true,
				Labels:      []Label{{Description: "Person", Score: 0.98}},
			},
			want: []string{TagFoto3x4},
		},
		{
			name: "portrait label also qualifies",
			analysis: &AnalysisResult{
				FacePresent: true,
				Labels:      []Label{{Description: "Portrait photograph", Score: 0.91}},
			},
			want: []string{TagFoto3x4},
		},
		{
			name: "face on a text-heavy document is not a portrait",
			analysis: &AnalysisResult{
				Text:        "REPÚBLICA FEDERATIVA DO BRASIL REGISTRO GERAL 123456789 NOME FILIAÇÃO NATURALIDADE DATA DE NASCIMENTO",
				FacePresent: true,
				Labels:      []Label{{Description: "Person", Score: 0.8}},
			},
			want: []string{TagRG},
		},
		{
			name: "face without person label",
			analysis: &AnalysisResult{
				FacePresent: true,
				Labels:      []Label{{Description: "Wall", Score: 0.7}},
			},
			want: nil,
		},
		{
			name: "person label without face",
			analysis: &AnalysisResult{
				Labels: []Label{{Description: "Person", Score: 0.99}},
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifier.Classify(tt.analysis)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeywordClassifier_NormalizesCompanyList(t *testing.T) {
	normalizer := utils.NewTextNormalizer()
	classifier := NewKeywordClassifier(normalizer, []string{"Unimed Vitória"}, 50)

	got := classifier.Classify(&AnalysisResult{Text: "BOLETO UNIMED VITÓRIA"})
	assert.Equal(t, []string{TagComprovanteEndereco}, got)
}

func TestKeywordClassifier_DeterministicOrder(t *testing.T) {
	classifier := newTestClassifier()
	analysis := &AnalysisResult{
		Text: "IDENTIDADE RG: 12345 CPF 123.456.789-00 COMPROVANTE DE ENDEREÇO",
	}

	first := classifier.Classify(analysis)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, classifier.Classify(analysis))
	}
	assert.Equal(t, []string{TagRG, TagCPF, TagComprovanteEndereco}, first)
}
