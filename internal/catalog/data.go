package catalog

import "fmt"

// programNames are the 18 screened dimensions, in presentation order. Five
// consecutive questions belong to each program: questions 1-5 to program 1,
// 6-10 to program 2, and so on through question 90.
var programNames = []string{
	"Stress Resilience",
	"Sleep Quality",
	"Emotional Balance",
	"Work Engagement",
	"Self-Esteem",
	"Social Support",
	"Physical Activity",
	"Nutrition Habits",
	"Focus & Clarity",
	"Anxiety Level",
	"Mood Stability",
	"Energy Level",
	"Life Satisfaction",
	"Coping Skills",
	"Mindfulness",
	"Relationships",
	"Purpose & Meaning",
	"Recovery Capacity",
}

const questionsPerProgram = 5

// Default returns the shipped questionnaire catalog.
func Default() *Catalog {
	questions := make([]Question, 0, len(programNames)*questionsPerProgram)
	programs := make([]Program, 0, len(programNames))

	for i, name := range programNames {
		pid := i + 1
		members := make([]int, 0, questionsPerProgram)
		for j := 0; j < questionsPerProgram; j++ {
			qid := i*questionsPerProgram + j + 1
			members = append(members, qid)
			questions = append(questions, Question{
				ID:        qid,
				ProgramID: pid,
				TextKey:   fmt.Sprintf("question.%03d", qid),
			})
		}
		programs = append(programs, Program{
			ID:                pid,
			Name:              name,
			MemberQuestionIDs: members,
		})
	}

	c, err := New(questions, programs)
	if err != nil {
		// The shipped table is validated by tests; a failure here is a
		// programming error, not a runtime condition.
		panic(err)
	}
	return c
}
