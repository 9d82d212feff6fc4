package models

import (
	"encoding/json"
	"fmt"
)

// ResumeKeyPrefix is the key namespace used for persisted submission records.
// Listing and detail views scan this namespace directly, so the layout
// `resume:<uuid>` must not change.
const ResumeKeyPrefix = "resume:"

// ResumeKeyPattern matches every persisted submission record.
const ResumeKeyPattern = ResumeKeyPrefix + "*"

// Resume is one analysis submission. It is created in memory when the user
// starts an analysis, persisted in provisional form (feedback sentinel) once
// both uploads succeed, and overwritten in place with the final feedback.
type Resume struct {
	ID             string        `json:"id"`
	ResumePath     string        `json:"resumePath"`
	ImagePath      string        `json:"imagePath"`
	CompanyName    string        `json:"companyName"`
	JobTitle       string        `json:"jobTitle"`
	JobDescription string        `json:"jobDescription"`
	Feedback       FeedbackField `json:"feedback"`
}

// ResumeKey builds the store key for a submission id.
func ResumeKey(id string) string {
	return ResumeKeyPrefix + id
}

// FeedbackField carries the record's feedback slot. Until analysis completes
// the slot marshals to the empty string, which is how a provisional record is
// distinguished from a finalized one.
type FeedbackField struct {
	Report *Feedback
}

func (f FeedbackField) MarshalJSON() ([]byte, error) {
	if f.Report == nil {
		return json.Marshal("")
	}
	return json.Marshal(f.Report)
}

func (f *FeedbackField) UnmarshalJSON(data []byte) error {
	var sentinel string
	if err := json.Unmarshal(data, &sentinel); err == nil {
		if sentinel != "" {
			return fmt.Errorf("feedback string must be the empty sentinel, got %q", sentinel)
		}
		f.Report = nil
		return nil
	}

	report, err := ParseFeedback(string(data))
	if err != nil {
		return err
	}
	f.Report = report
	return nil
}

// Finalized reports whether the record carries a completed evaluation.
func (f FeedbackField) Finalized() bool {
	return f.Report != nil
}
