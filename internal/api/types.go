package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// ProcessRequest asks for one command to be run against one movie.
type ProcessRequest struct {
	// Movie is a video id or any supported watch URL.
	Movie string `json:"movie"`
	// Command is a command name or a full "/name p1 p2" line. Empty means download.
	Command   string   `json:"command"`
	Params    []string `json:"params,omitempty"`
	SenderID  int64    `json:"senderId,omitempty"`
	MessageID int64    `json:"messageId,omitempty"`
	// Wait queues behind a run already holding the video instead of failing.
	Wait bool `json:"wait,omitempty"`
}

// AudioPart is one deliverable audio message.
type AudioPart struct {
	ChatID           int64  `json:"chatId"`
	ReplyToMessageID *int64 `json:"replyToMessageId,omitempty"`
	AudioPath        string `json:"audioPath"`
	AudioFilename    string `json:"audioFilename"`
	Duration         int    `json:"duration"`
	ThumbnailPath    string `json:"thumbnailPath,omitempty"`
	Caption          string `json:"caption"`
}

// SubtitlesFile is the deliverable of the subtitles command.
type SubtitlesFile struct {
	Caption  string `json:"caption"`
	Filename string `json:"filename"`
	Path     string `json:"path,omitempty"`
	Text     string `json:"text"`
}

// Diagnostic is a warning or error raised during a run.
type Diagnostic struct {
	Kind    string `json:"kind"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// ProcessResponse reports the outcome of a processed request.
type ProcessResponse struct {
	RunID       string         `json:"runId"`
	MovieID     string         `json:"movieId"`
	Title       string         `json:"title,omitempty"`
	Command     string         `json:"command"`
	Outcome     string         `json:"outcome"`
	Error       string         `json:"error,omitempty"`
	Duration    int            `json:"duration"`
	Parts       []AudioPart    `json:"parts"`
	Subtitles   *SubtitlesFile `json:"subtitles,omitempty"`
	Diagnostics []Diagnostic   `json:"diagnostics"`
	ElapsedMS   int64          `json:"elapsedMs"`
}

// HistoryEntry describes a recorded run.
type HistoryEntry struct {
	RunID       string       `json:"runId"`
	MovieID     string       `json:"movieId"`
	Title       string       `json:"title,omitempty"`
	Command     string       `json:"command"`
	Params      []string     `json:"params"`
	Parts       int          `json:"parts"`
	Duration    int          `json:"duration"`
	Outcome     string       `json:"outcome"`
	Error       string       `json:"error,omitempty"`
	Warnings    int          `json:"warnings"`
	Diagnostics []Diagnostic `json:"diagnostics"`
	ElapsedMS   int64        `json:"elapsedMs"`
	CreatedAt   string       `json:"createdAt"`
}

// HistoryListResponse wraps a collection of history entries.
type HistoryListResponse struct {
	Runs []HistoryEntry `json:"runs"`
}

// DependencyStatus captures availability of an external dependency.
type DependencyStatus struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Path        string `json:"path,omitempty"`
	Detail      string `json:"detail,omitempty"`
}

// CheckResult is a preflight check in transport form.
type CheckResult struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// HealthResponse is returned by the daemon health endpoint.
type HealthResponse struct {
	Status       string             `json:"status"`
	Checks       []CheckResult      `json:"checks"`
	Dependencies []DependencyStatus `json:"dependencies"`
}
