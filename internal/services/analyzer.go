package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"skillscan/resume-analyzer/internal/models"
	"skillscan/resume-analyzer/internal/repositories"
)

// Stage identifies a pipeline step, used as the terminal failure label.
type Stage string

const (
	StageUploadingSource       Stage = "upload-source"
	StageConverting            Stage = "convert"
	StageUploadingImage        Stage = "upload-image"
	StagePersistingProvisional Stage = "persist-provisional"
	StageInvokingAI            Stage = "analyze"
	StageParsingResponse       Stage = "parse"
	StagePersistingFinal       Stage = "persist-final"
)

// StageError is the absorbing failure state of a pipeline run: the stage that
// stopped it, the cause, and optional operator detail (such as the raw model
// output on a parse failure). The user-facing status message stays generic.
type StageError struct {
	Stage  Stage
	Err    error
	Detail string
}

func (e *StageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("stage %s failed", e.Stage)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Submission is one analysis request, exclusively owned by its pipeline run.
type Submission struct {
	ID             string
	FileName       string
	FileData       []byte
	CompanyName    string
	JobTitle       string
	JobDescription string
}

// StatusFunc receives one human-readable status message per pipeline stage,
// in stage order. Consumed by the presentation layer.
type StatusFunc func(id, status string)

// AnalyzerService drives one submission through the full pipeline:
// source upload, conversion, image upload, provisional persistence, AI
// scoring, response parsing and final persistence. Stages run strictly in
// sequence with no automatic retries; the first failure is terminal and
// leaves any already-persisted record in its last written state.
type AnalyzerService interface {
	Analyze(ctx context.Context, sub *Submission) (*models.Resume, error)
}

type analyzerService struct {
	blobStore BlobStore
	converter ConverterService
	store     repositories.ResumeStore
	ai        FeedbackProvider
	prompts   *PromptBuilder
	notify    StatusFunc
}

func NewAnalyzerService(
	blobStore BlobStore,
	converter ConverterService,
	store repositories.ResumeStore,
	ai FeedbackProvider,
	notify StatusFunc,
) AnalyzerService {
	if notify == nil {
		notify = func(string, string) {}
	}
	return &analyzerService{
		blobStore: blobStore,
		converter: converter,
		store:     store,
		ai:        ai,
		prompts:   NewPromptBuilder(),
		notify:    notify,
	}
}

// Analyze implements AnalyzerService.
func (a *analyzerService) Analyze(ctx context.Context, sub *Submission) (*models.Resume, error) {
	a.notify(sub.ID, "Uploading the file...")
	resumePath, err := a.blobStore.Upload(ctx, sub.FileName, sub.FileData, "application/pdf")
	if err != nil || resumePath == "" {
		return nil, a.fail(sub.ID, StageUploadingSource, "Error: Failed to upload file", err, "")
	}

	a.notify(sub.ID, "Converting to image...")
	conversion := a.converter.Convert(sub.FileName, sub.FileData)
	if conversion.Failed() {
		return nil, a.fail(sub.ID, StageConverting, "Error: Failed to convert PDF to image",
			fmt.Errorf("no image file returned"), conversion.Error)
	}

	a.notify(sub.ID, "Uploading the image...")
	imagePath, err := a.blobStore.Upload(ctx, conversion.File.Name, conversion.File.Data, conversion.File.ContentType)
	if err != nil || imagePath == "" {
		return nil, a.fail(sub.ID, StageUploadingImage, "Error: Failed to upload image", err, "")
	}

	a.notify(sub.ID, "Preparing data...")
	record := &models.Resume{
		ID:             sub.ID,
		ResumePath:     resumePath,
		ImagePath:      imagePath,
		CompanyName:    sub.CompanyName,
		JobTitle:       sub.JobTitle,
		JobDescription: sub.JobDescription,
	}
	// Provisional write: the record becomes discoverable by the listing view
	// before scoring completes, with the feedback sentinel still empty.
	if err := a.persist(ctx, record); err != nil {
		return nil, a.fail(sub.ID, StagePersistingProvisional, "Error: Failed to save submission", err, "")
	}

	a.notify(sub.ID, "Analyzing...")
	instructions := a.prompts.BuildFeedbackInstructions(sub.JobTitle, sub.JobDescription, FeedbackResponseFormat)
	response, err := a.ai.Feedback(ctx, resumePath, instructions)
	if err != nil || response == nil {
		return nil, a.fail(sub.ID, StageInvokingAI, "Error: Invalid feedback response", err, "")
	}

	text, ok := response.Message.Content.Text()
	if !ok {
		return nil, a.fail(sub.ID, StageInvokingAI, "Error: Invalid feedback response",
			fmt.Errorf("response has no message content"), "")
	}

	a.notify(sub.ID, "Reading feedback...")
	report, err := models.ParseFeedback(text)
	if err != nil {
		return nil, a.fail(sub.ID, StageParsingResponse, "Error: Failed to parse feedback response", err, text)
	}

	a.notify(sub.ID, "Saving feedback...")
	record.Feedback = models.FeedbackField{Report: report}
	if err := a.persist(ctx, record); err != nil {
		return nil, a.fail(sub.ID, StagePersistingFinal, "Error: Failed to save feedback", err, "")
	}

	a.notify(sub.ID, "Analysis complete")
	log.Printf("✅ Analysis completed for submission %s\n", sub.ID)
	return record, nil
}

// persist writes the record under resume:<id>, overwriting in place.
func (a *analyzerService) persist(ctx context.Context, record *models.Resume) error {
	value, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to serialize record: %w", err)
	}
	return a.store.Set(ctx, models.ResumeKey(record.ID), string(value))
}

func (a *analyzerService) fail(id string, stage Stage, status string, err error, detail string) *StageError {
	a.notify(id, status)
	stageErr := &StageError{Stage: stage, Err: err, Detail: detail}
	if detail != "" {
		log.Printf("❌ Submission %s %v\nDetail: %s\n", id, stageErr, detail)
	} else {
		log.Printf("❌ Submission %s %v\n", id, stageErr)
	}
	return stageErr
}
