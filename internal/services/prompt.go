package services

import "fmt"

// FeedbackResponseFormat is the fixed response schema embedded verbatim in
// every scoring instruction, so the model's output is structurally
// constrained to the shape ParseFeedback accepts.
const FeedbackResponseFormat = `interface Feedback {
  overallScore: number; // max 100
  ATS: {
    score: number; // rate based on ATS suitability
    tips: {
      type: "good" | "improve";
      tip: string; // give 3-4 tips
    }[];
  };
  toneAndStyle: {
    score: number; // max 100
    tips: {
      type: "good" | "improve";
      tip: string; // make it a short "title" for the actual explanation
      explanation: string; // explain in detail here
    }[]; // give 3-4 tips
  };
  content: {
    score: number; // max 100
    tips: {
      type: "good" | "improve";
      tip: string;
      explanation: string;
    }[]; // give 3-4 tips
  };
  structure: {
    score: number; // max 100
    tips: {
      type: "good" | "improve";
      tip: string;
      explanation: string;
    }[]; // give 3-4 tips
  };
  skills: {
    score: number; // max 100
    tips: {
      type: "good" | "improve";
      tip: string;
      explanation: string;
    }[]; // give 3-4 tips
  };
}`

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildFeedbackInstructions produces the instruction text sent to the scoring
// service: the job context for grounding plus the fixed response format.
// Pure text construction, deterministic for the same inputs.
func (pb *PromptBuilder) BuildFeedbackInstructions(jobTitle, jobDescription, format string) string {
	return fmt.Sprintf(`You are an expert in ATS (Applicant Tracking System) and resume analysis.
Please analyze and rate this resume and suggest how to improve it.
The rating can be low if the resume is bad.
Be thorough and detailed. Don't be afraid to point out any mistakes or areas for improvement.
If there is a lot to improve, don't hesitate to give low scores. This is to help the user improve their resume.
If available, use the job description for the job user is applying to, to give more detailed feedback.
The job title is: %s
The job description is: %s
Provide the feedback using the following format: %s
Return the analysis as a JSON object, without any other text and without the backticks.
Do not include any other text or comments.`, jobTitle, jobDescription, format)
}
