package analysis

import (
	"fmt"
	"strings"
)

// HeaderInfo carries the course identification parsed out of the source
// document. The sentinel value is used whenever a field cannot be
// identified.
type HeaderInfo struct {
	CourseName string
	UnitName   string
	Hours      string
}

// HeaderNotIdentified is the sentinel for unparseable header fields.
const HeaderNotIdentified = "Não identificado"

// NewHeaderInfo returns a HeaderInfo with all fields set to the sentinel.
func NewHeaderInfo() HeaderInfo {
	return HeaderInfo{
		CourseName: HeaderNotIdentified,
		UnitName:   HeaderNotIdentified,
		Hours:      HeaderNotIdentified,
	}
}

// UserContext is an ordered label→value form snapshot. Order is preserved
// so prompts render fields in the order the caller supplied them.
type UserContext struct {
	labels []string
	values map[string]string
}

// NewUserContext builds a UserContext from ordered label/value pairs.
// Pairs with empty values are kept (the skip predicate distinguishes
// empty from negative answers) but omitted from rendered blocks.
func NewUserContext(pairs [][2]string) UserContext {
	ctx := UserContext{values: make(map[string]string, len(pairs))}
	for _, pair := range pairs {
		label := pair[0]
		if _, seen := ctx.values[label]; !seen {
			ctx.labels = append(ctx.labels, label)
		}
		ctx.values[label] = pair[1]
	}
	return ctx
}

// Get returns the value for a label and whether the label is present.
func (u UserContext) Get(label string) (string, bool) {
	v, ok := u.values[label]
	return v, ok
}

// Render emits the "- label: value" block used inside prompts, skipping
// empty values.
func (u UserContext) Render() string {
	var b strings.Builder
	for _, label := range u.labels {
		if v := u.values[label]; v != "" {
			fmt.Fprintf(&b, "- %s: %s\n", label, v)
		}
	}
	return b.String()
}

// BuildTopicPrompt composes the per-topic request. Section order is fixed:
// persona, course header, class context, topic questions, reference
// excerpt (when present), source excerpts, negative instructions, one
// worked example, closing directive.
func BuildTopicPrompt(topic Topic, ptdExcerpt, pcnExcerpt, referenceExcerpt string, userCtx UserContext, header HeaderInfo) string {
	var b strings.Builder

	fmt.Fprintf(&b, `Você é um especialista em educação profissional com expertise no Modelo Pedagógico Senac (MPS).

INFORMAÇÕES DO CURSO:
Nome do Curso: %s
Unidade Curricular: %s
Carga Horária: %s

CONTEXTO DA TURMA:
%s
Analise o tópico '%d. %s' respondendo às seguintes perguntas:

`, header.CourseName, header.UnitName, header.Hours, userCtx.Render(), topic.Number, topic.Title)

	for i, question := range topic.Questions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, question)
	}

	if referenceExcerpt != "" {
		fmt.Fprintf(&b, "\nDOCUMENTO BASE DE REFERÊNCIA (%s):\n%s\n\n", topic.ReferenceDocument, referenceExcerpt)
	}

	fmt.Fprintf(&b, "TRECHO RELEVANTE DO PTD:\n%s\n\n", ptdExcerpt)

	if pcnExcerpt != "" {
		fmt.Fprintf(&b, "TRECHO RELEVANTE DO PCN:\n%s\n\n", pcnExcerpt)
	}

	b.WriteString(`INSTRUÇÕES CRÍTICAS E OBRIGATÓRIAS:
- JAMAIS repita as perguntas na sua resposta
- JAMAIS inclua bullets ou hífens antes das análises
- Responda SOMENTE com parágrafos de análise pura
- NÃO use marcadores como [Análise da pergunta X]
- NÃO copie as perguntas que eu listei acima
- Forneça um parágrafo completo para cada pergunta, na ordem apresentada
- Separe cada análise com UMA linha em branco
- Não use formatação markdown
- Seja objetivo e prático
- Base suas análises no PTD, PCN e documentos de referência fornecidos

EXEMPLO DO FORMATO CORRETO:
A competência está claramente relacionada... [seu texto de análise aqui]

As atividades descritas no PTD... [seu texto de análise aqui]

O planejamento contempla... [seu texto de análise aqui]

Responda agora APENAS com as análises, sem repetir perguntas:`)

	return b.String()
}

// BuildDirectPrompt substitutes the caller-supplied template placeholders
// for the single-request path. Unknown placeholders pass through untouched.
func BuildDirectPrompt(template, userContext, baseDocuments, ptdText, pcnText string) string {
	prompt := template
	prompt = strings.ReplaceAll(prompt, "{contexto_usuario}", CleanText(userContext))
	prompt = strings.ReplaceAll(prompt, "{documentos_base}", CleanText(baseDocuments))
	prompt = strings.ReplaceAll(prompt, "{ptd_content}", "PTD:\n"+CleanText(ptdText))
	prompt = strings.ReplaceAll(prompt, "{pcn_content}", CleanText(pcnText))
	return CleanText(prompt)
}
