package rank

import (
	"fmt"
	"strings"
)

// Input is a collection ranking request as read from disk.
type Input struct {
	Documents []InputDocument `json:"documents"`
	Persona   struct {
		Role string `json:"role"`
	} `json:"persona"`
	JobToBeDone struct {
		Task string `json:"task"`
	} `json:"job_to_be_done"`
}

// InputDocument names one file of the collection.
type InputDocument struct {
	Filename string `json:"filename"`
	Title    string `json:"title,omitempty"`
}

// Validate checks that the request names documents, a persona and a task.
func (in *Input) Validate() error {
	if len(in.Documents) == 0 {
		return fmt.Errorf("input lists no documents")
	}
	for i, d := range in.Documents {
		if strings.TrimSpace(d.Filename) == "" {
			return fmt.Errorf("document %d has no filename", i)
		}
	}
	if strings.TrimSpace(in.Persona.Role) == "" {
		return fmt.Errorf("persona.role is required")
	}
	if strings.TrimSpace(in.JobToBeDone.Task) == "" {
		return fmt.Errorf("job_to_be_done.task is required")
	}
	return nil
}

// Filenames returns the document filenames in input order.
func (in *Input) Filenames() []string {
	out := make([]string, len(in.Documents))
	for i, d := range in.Documents {
		out[i] = d.Filename
	}
	return out
}

// Output is the ranking result.
type Output struct {
	Metadata           Metadata             `json:"metadata"`
	ExtractedSections  []ExtractedSection   `json:"extracted_sections"`
	SubsectionAnalysis []SubsectionAnalysis `json:"subsection_analysis"`
}

type Metadata struct {
	InputDocuments      []string `json:"input_documents"`
	Persona             string   `json:"persona"`
	JobToBeDone         string   `json:"job_to_be_done"`
	ProcessingTimestamp string   `json:"processing_timestamp"`
}

type ExtractedSection struct {
	Document       string `json:"document"`
	SectionTitle   string `json:"section_title"`
	ImportanceRank int    `json:"importance_rank"`
	PageNumber     int    `json:"page_number"`
}

type SubsectionAnalysis struct {
	Document    string `json:"document"`
	RefinedText string `json:"refined_text"`
	PageNumber  int    `json:"page_number"`
}

// TimestampFormat renders processing timestamps in UTC with microseconds.
const TimestampFormat = "2006-01-02T15:04:05.000000Z"
