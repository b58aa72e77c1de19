package dto

// IngestJob is the message payload published for each coded term to be
// fetched, chunked, embedded and stored.
type IngestJob struct {
	Term       string `json:"term" validate:"required"`
	Code       string `json:"code" validate:"required"`
	System     string `json:"system" validate:"required"`
	Collection string `json:"collection" validate:"required"`
}

// IngestReport summarizes one processed job for the CLI progress output.
type IngestReport struct {
	Term    string `json:"term"`
	Topics  int    `json:"topics"`
	Chunks  int    `json:"chunks"`
	Skipped bool   `json:"skipped"`
	Error   string `json:"error,omitempty"`
}
