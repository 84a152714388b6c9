package analysis

// Topic is one fixed unit of the review taxonomy. The catalog drives both
// prompt construction and the final report layout, and is never mutated
// after process start.
type Topic struct {
	Number            int
	Title             string
	Questions         []string
	Keywords          []string
	ReferenceDocument string
}

var topics = []Topic{
	{
		Number: 1,
		Title:  "Coerência entre competência, situação de aprendizagem e indicadores",
		Questions: []string{
			"A competência está claramente relacionada à situação de aprendizagem e aos indicadores?",
			"Os fazeres previstos nos indicadores são efetivamente contemplados nas atividades propostas?",
		},
		Keywords:          []string{"competência", "indicador", "situação de aprendizagem", "objetivo"},
		ReferenceDocument: "guia_pratica_educacional",
	},
	{
		Number: 2,
		Title:  "Estrutura e clareza das atividades",
		Questions: []string{
			"As atividades estão descritas de forma clara e detalhada?",
			"Há uma sequência lógica que contempla contextualização, desenvolvimento e conclusão da situação de aprendizagem?",
			"As etapas das atividades são compreensíveis e executáveis?",
		},
		Keywords:          []string{"atividade", "estrutura", "sequência", "etapa", "contextualização"},
		ReferenceDocument: "guia_pratica_educacional",
	},
	{
		Number: 3,
		Title:  "Articulação entre conhecimentos, habilidades e atitudes",
		Questions: []string{
			"As atividades permitem mobilizar de forma integrada os elementos da competência (saberes, fazeres e atitudes/valores)?",
			"As propostas articulam teoria e prática de forma equilibrada?",
			"O ciclo ação-reflexão-ação está contemplado?",
		},
		Keywords:          []string{"conhecimento", "habilidade", "atitude", "saber", "fazer"},
		ReferenceDocument: "guia_pratica_educacional",
	},
	{
		Number: 4,
		Title:  "Metodologias ativas e protagonismo do aluno",
		Questions: []string{
			"As atividades propostas utilizam metodologias ativas?",
			"Promovem o protagonismo do estudante no processo de aprendizagem?",
			"Há variedade entre atividades individuais e coletivas?",
		},
		Keywords:          []string{"metodologia", "ativa", "protagonismo", "individual", "coletiv"},
		ReferenceDocument: "Metodologias Ativas de Aprendizagem",
	},
	{
		Number: 5,
		Title:  "Uso de tecnologias",
		Questions: []string{
			"As tecnologias digitais são utilizadas com intencionalidade pedagógica?",
		},
		Keywords:          []string{"tecnologia", "digital", "recurso", "ferramenta"},
		ReferenceDocument: "anuario-de-tecnologias-educacionais",
	},
	{
		Number: 6,
		Title:  "Marcas formativas",
		Questions: []string{
			"As atividades contribuem para o desenvolvimento das Marcas Formativas?",
		},
		Keywords:          []string{"marca", "formativa", "desenvolvimento"},
		ReferenceDocument: "DocTec10_MarcasFormativas",
	},
	{
		Number: 7,
		Title:  "Avaliação da aprendizagem",
		Questions: []string{
			"Há diversidade de instrumentos e procedimentos avaliativos?",
			"As avaliações permitem identificar dificuldades dos alunos?",
			"O planejamento contempla avaliações diagnóstica, formativa e somativa?",
			"Estão previstos momentos de feedback aos alunos?",
		},
		Keywords:          []string{"avaliação", "diagnóstic", "formativ", "somativ", "feedback"},
		ReferenceDocument: "DocTec5_AvaliacaoAprendizagem_2022",
	},
	{
		Number: 8,
		Title:  "Acessibilidade e inclusão",
		Questions: []string{
			"O plano contempla adaptações para alunos PcD's (Pessoa com Deficiência)?",
			"Há recursos de acessibilidade digital, física ou pedagógica previstos?",
			"As atividades permitem diferentes formas de participação e expressão dos alunos?",
		},
		Keywords:          []string{"acessibilidade", "inclusão", "adaptação", "PcD", "deficiência"},
		ReferenceDocument: "glossario_Pessoa com deficiencia",
	},
}

// accessibilityTopic is the only topic subject to a skip predicate.
const accessibilityTopic = 8

// Topics returns the full catalog in ascending topic order.
func Topics() []Topic {
	return topics
}

// allQuestions lists every catalog question plus known phrasing variants
// models tend to echo. The sanitizer matches against this table.
var allQuestions = buildAllQuestions()

func buildAllQuestions() []string {
	var qs []string
	for _, t := range topics {
		qs = append(qs, t.Questions...)
	}
	qs = append(qs,
		"As atividades contribuem para o desenvolvimento das ?",
		"O plano contempla adaptações para alunos PcD (Pessoa com Deficiência)?",
		"O plano contempla adaptações para alunos PcDs (Pessoa com Deficiência)?",
	)
	return qs
}
