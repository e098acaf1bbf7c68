package domain

// ReferenceImage holds raw image bytes used to keep a character visually
// consistent across generated clips.
type ReferenceImage struct {
	Data     []byte
	MimeType string
}

type Character struct {
	ID          string
	Name        string
	Description string
	Photo       *ReferenceImage
}

func NewCharacter(id string) Character {
	return Character{ID: id}
}

// CharacterField tags which field of a Character an update targets.
type CharacterField string

const (
	FieldName        CharacterField = "name"
	FieldDescription CharacterField = "description"
	FieldPhoto       CharacterField = "photo"
)

// VideoSegment is a timed sub-interval of the narration with an associated
// visual description. Produced once by segmentation, immutable afterwards.
type VideoSegment struct {
	TopicSummary string  `json:"topicSummary"`
	VideoPrompt  string  `json:"videoPrompt"`
	CharacterID  string  `json:"characterId,omitempty"`
	StartTime    float64 `json:"startTime"`
	EndTime      float64 `json:"endTime"`
}

// Duration returns the nominal segment length in seconds.
func (s VideoSegment) Duration() float64 {
	return s.EndTime - s.StartTime
}

// GeneratedClip couples a segment with the blob handle of its video asset.
type GeneratedClip struct {
	Segment VideoSegment `json:"segment"`
	BlobURL string       `json:"blobUrl"`
}

// Progress is the pipeline-wide progress value, overwritten wholesale on
// every phase transition. The orchestrator is its only writer.
type Progress struct {
	Stage   string `json:"stage"`
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Message string `json:"message"`
}

type PipelineState string

const (
	StateIdle       PipelineState = "idle"
	StateProcessing PipelineState = "processing"
	StateComplete   PipelineState = "complete"
	StateError      PipelineState = "error"
)
