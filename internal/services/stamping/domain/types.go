package domain

import "notary/internal/core/proof"

// Stage labels a progress notice
type Stage string

const (
	// StageSubmitted is emitted once the ledger accepted the hash
	StageSubmitted Stage = "submitted"
	// StageAttempt is emitted before each repeated status lookup
	StageAttempt Stage = "attempt"
)

// Progress is a fire-and-forget notice emitted while a workflow runs
type Progress struct {
	Stage       Stage  `json:"stage"`
	UID         string `json:"uid,omitempty"`
	Attempt     int    `json:"attempt,omitempty"`
	MaxAttempts int    `json:"max_attempts,omitempty"`
	Text        string `json:"text"`
}

// StatusRecord is one row of a status lookup
type StatusRecord struct {
	Onchain bool
	Bundle  proof.Bundle
}

// StatusReport is the decoded reply of a status lookup
type StatusReport struct {
	Status  string
	Records []StatusRecord
}

// StatusSuccess is the status value of a successful lookup
const StatusSuccess = "success"

// Succeeded reports whether the lookup succeeded
func (r StatusReport) Succeeded() bool { return r.Status == StatusSuccess }

// ArtifactLink points at a downloadable proof file
type ArtifactLink struct {
	Status      string `json:"status"`
	DownloadURL string `json:"download_url"`
	Filename    string `json:"filename"`
}

// Confirmation is the outcome of a poll loop; Proof is zero unless Onchain
type Confirmation struct {
	Onchain  bool
	Proof    proof.Bundle
	Attempts int
}

// StampResult is the terminal outcome of StampAndConfirm
type StampResult struct {
	Success      bool          `json:"success"`
	Message      string        `json:"message"`
	UID          string        `json:"uid,omitempty"`
	Proof        *proof.Bundle `json:"proof,omitempty"`
	Onchain      bool          `json:"onchain"`
	ArtifactLink *ArtifactLink `json:"artifact_link,omitempty"`
}
