package analysis

import (
	"strconv"
	"strings"
	"testing"
)

func TestAssembleReportFull(t *testing.T) {
	header := HeaderInfo{CourseName: "Técnico em Logística", UnitName: "Gestão de Estoques", Hours: "60 horas"}
	results := make(map[int]TopicResult, len(topics))
	for _, topic := range topics {
		results[topic.Number] = TopicResult{
			TopicNumber: topic.Number,
			Content:     "Análise do tópico " + topic.Title,
			Status:      StatusSuccess,
		}
	}

	report := AssembleReport(header, results)

	wantHead := "Nome do Curso: Técnico em Logística\nUnidade Curricular: Gestão de Estoques\nCarga Horária: 60 horas\n\n"
	if !strings.HasPrefix(report, wantHead) {
		t.Fatalf("report header = %q", report[:min(len(report), len(wantHead))])
	}

	last := -1
	for _, topic := range topics {
		section := strings.Index(report, strconv.Itoa(topic.Number)+". "+topic.Title+"\n")
		if section < 0 {
			t.Fatalf("topic %d section missing", topic.Number)
		}
		if section < last {
			t.Errorf("topic %d out of order", topic.Number)
		}
		last = section
		for _, q := range topic.Questions {
			if !strings.Contains(report, "• "+q+"\n") {
				t.Errorf("topic %d question missing: %q", topic.Number, q)
			}
		}
	}
	if !strings.Contains(report, "\n\nAnálise do tópico Uso de tecnologias\n\n") {
		t.Error("topic content not framed by blank lines")
	}
}

func TestAssembleReportOmitsMissingTopics(t *testing.T) {
	results := map[int]TopicResult{
		3: {TopicNumber: 3, Content: "apenas o terceiro", Status: StatusSuccess},
	}
	report := AssembleReport(NewHeaderInfo(), results)

	if !strings.Contains(report, "3. Articulação entre conhecimentos, habilidades e atitudes") {
		t.Error("recorded topic missing")
	}
	for _, topic := range topics {
		if topic.Number == 3 {
			continue
		}
		if strings.Contains(report, topic.Title) {
			t.Errorf("unrecorded topic %d rendered", topic.Number)
		}
	}
}
