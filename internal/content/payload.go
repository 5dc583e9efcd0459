// Package content validates and persists generated course, question and
// material payloads as JSON files under the output directory.
package content

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/vinayprograms/syllabus/internal/errs"
)

// Course is one lesson. The nested lesson structure is free-form.
type Course struct {
	ChapterTitle     string         `json:"chapter_title" jsonschema:"lesson title"`
	Subject          string         `json:"subject" jsonschema:"subject code, e.g. xingce"`
	KnowledgePoint   string         `json:"knowledge_point" jsonschema:"knowledge point covered by the lesson"`
	LessonContent    map[string]any `json:"lesson_content" jsonschema:"lesson body object"`
	LessonSections   []any          `json:"lesson_sections" jsonschema:"ordered lesson sections"`
	PracticeProblems []any          `json:"practice_problems" jsonschema:"practice problems for the lesson"`
}

func (c Course) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.ChapterTitle, validation.Required),
		validation.Field(&c.Subject, validation.Required),
		validation.Field(&c.KnowledgePoint, validation.Required),
		validation.Field(&c.LessonContent, validation.Required),
		validation.Field(&c.LessonSections, validation.NotNil),
		validation.Field(&c.PracticeProblems, validation.NotNil),
	)
	return errs.InvalidWrap(err, errs.CodeInvalidPayload, "invalid course content")
}

type BatchInfo struct {
	Category    string `json:"category" jsonschema:"content category, e.g. 言语理解"`
	Topic       string `json:"topic" jsonschema:"topic of this batch"`
	BatchNumber int    `json:"batch_number" jsonschema:"1-based batch number"`
	Count       int    `json:"count" jsonschema:"number of items in the batch"`
}

func (b BatchInfo) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Category, validation.Required),
		validation.Field(&b.Topic, validation.Required),
		validation.Field(&b.BatchNumber, validation.Required, validation.Min(1)),
		validation.Field(&b.Count, validation.Required, validation.Min(1)),
	)
}

// Item is one generated question or material. Fields vary by category.
type Item = map[string]any

type QuestionBatch struct {
	BatchInfo BatchInfo `json:"batch_info"`
	Questions []Item    `json:"questions"`
}

func (q QuestionBatch) Validate() error {
	err := validation.ValidateStruct(&q,
		validation.Field(&q.BatchInfo),
		validation.Field(&q.Questions, validation.Required),
	)
	return errs.InvalidWrap(err, errs.CodeInvalidPayload, "invalid question batch")
}

type MaterialBatch struct {
	BatchInfo BatchInfo `json:"batch_info"`
	Materials []Item    `json:"materials"`
}

func (m MaterialBatch) Validate() error {
	err := validation.ValidateStruct(&m,
		validation.Field(&m.BatchInfo),
		validation.Field(&m.Materials, validation.Required),
	)
	return errs.InvalidWrap(err, errs.CodeInvalidPayload, "invalid material batch")
}
