// Package catalog holds the fixed reference data of the questionnaire: which
// question belongs to which program, and each program's member questions. The
// catalog is immutable after construction and is passed to the scoring and
// progress code as an explicit dependency.
package catalog

import "fmt"

// scaleSpan is the effective ordinal range per question once both supported
// answer scales are rebased to 0..5.
const scaleSpan = 5

// Question is immutable reference data. Text lives in the localization layer;
// TextKey is the lookup key.
type Question struct {
	ID        int    `json:"id"`
	ProgramID int    `json:"programId"`
	TextKey   string `json:"textKey"`
}

// Program is one scored dimension of the questionnaire.
type Program struct {
	ID                int    `json:"id"`
	Name              string `json:"name"`
	MemberQuestionIDs []int  `json:"memberQuestionIds"`
}

// Catalog is the read-only question/program mapping.
type Catalog struct {
	questions  []Question
	programs   []Program
	byQuestion map[int]int
	byProgram  map[int]Program
}

// New builds a catalog and verifies the two mappings agree: every question
// belongs to exactly one existing program, and every program's member list
// matches the questions that point at it.
func New(questions []Question, programs []Program) (*Catalog, error) {
	c := &Catalog{
		questions:  questions,
		programs:   programs,
		byQuestion: make(map[int]int, len(questions)),
		byProgram:  make(map[int]Program, len(programs)),
	}

	for _, p := range programs {
		if _, dup := c.byProgram[p.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate program id %d", p.ID)
		}
		c.byProgram[p.ID] = p
	}

	members := make(map[int]int, len(programs))
	for _, q := range questions {
		if _, dup := c.byQuestion[q.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate question id %d", q.ID)
		}
		if _, ok := c.byProgram[q.ProgramID]; !ok {
			return nil, fmt.Errorf("catalog: question %d references unknown program %d", q.ID, q.ProgramID)
		}
		c.byQuestion[q.ID] = q.ProgramID
		members[q.ProgramID]++
	}

	for _, p := range programs {
		if len(p.MemberQuestionIDs) != members[p.ID] {
			return nil, fmt.Errorf("catalog: program %d lists %d members but %d questions reference it",
				p.ID, len(p.MemberQuestionIDs), members[p.ID])
		}
		for _, qid := range p.MemberQuestionIDs {
			if c.byQuestion[qid] != p.ID {
				return nil, fmt.Errorf("catalog: program %d lists question %d which belongs to program %d",
					p.ID, qid, c.byQuestion[qid])
			}
		}
	}

	return c, nil
}

// Size returns the total number of questions.
func (c *Catalog) Size() int {
	return len(c.questions)
}

// QuestionIDs returns all question ids in catalog order.
func (c *Catalog) QuestionIDs() []int {
	ids := make([]int, len(c.questions))
	for i, q := range c.questions {
		ids[i] = q.ID
	}
	return ids
}

// HasQuestion reports whether a question id exists in the catalog.
func (c *Catalog) HasQuestion(id int) bool {
	_, ok := c.byQuestion[id]
	return ok
}

// ProgramOf returns the program a question belongs to.
func (c *Catalog) ProgramOf(questionID int) (int, bool) {
	pid, ok := c.byQuestion[questionID]
	return pid, ok
}

// Programs returns all programs in catalog order.
func (c *Catalog) Programs() []Program {
	return c.programs
}

// Program returns a program by id.
func (c *Catalog) Program(id int) (Program, bool) {
	p, ok := c.byProgram[id]
	return p, ok
}

// Denominator returns the normalization denominator for a program: the raw
// sum a fully-answered program reaches at the top of the rebased 0..5 range.
func (c *Catalog) Denominator(programID int) int {
	p, ok := c.byProgram[programID]
	if !ok {
		return 0
	}
	return len(p.MemberQuestionIDs) * scaleSpan
}
