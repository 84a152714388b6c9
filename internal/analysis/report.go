package analysis

import (
	"fmt"
	"strings"
)

// AssembleReport concatenates the header and every recorded topic result
// into the final report. Topics render strictly in ascending number order,
// each reproducing its full question list; a topic with no recorded result
// is omitted entirely. This is the only place questions are intentionally
// shown to the reader.
func AssembleReport(header HeaderInfo, results map[int]TopicResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Nome do Curso: %s\n", header.CourseName)
	fmt.Fprintf(&b, "Unidade Curricular: %s\n", header.UnitName)
	fmt.Fprintf(&b, "Carga Horária: %s\n\n", header.Hours)

	for _, topic := range topics {
		result, ok := results[topic.Number]
		if !ok {
			continue
		}

		fmt.Fprintf(&b, "%d. %s\n", topic.Number, topic.Title)
		for _, question := range topic.Questions {
			fmt.Fprintf(&b, "• %s\n", question)
		}
		fmt.Fprintf(&b, "\n%s\n\n", result.Content)
	}

	return b.String()
}
