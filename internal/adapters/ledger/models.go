package ledger

import "encoding/json"

const statusSuccess = "success"

// envelope is the common {status, data} reply shape
type envelope[T any] struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

// Succeeded reports whether the ledger flagged the call as successful
func (e envelope[T]) Succeeded() bool { return e.Status == statusSuccess }

type submitHashBody struct {
	Hash string `json:"hash"`
}

type submitHashData struct {
	UID string `json:"uid"`
}

type uidsBody struct {
	UIDs []string `json:"uids"`
}

// StatusRecord is one row of a status lookup
type StatusRecord struct {
	UID     string `json:"uid,omitempty"`
	Onchain bool   `json:"onchain"`
	Proof   string `json:"proof"`
	Root    string `json:"root"`
	Address string `json:"address"`
	Data    string `json:"data"`
}

// Status is the decoded status lookup reply
type Status struct {
	Status  string
	Records []StatusRecord
}

// Succeeded reports whether the lookup itself succeeded
func (s Status) Succeeded() bool { return s.Status == statusSuccess }

// ArtifactLink points at a downloadable proof file
type ArtifactLink struct {
	Status      string `json:"status"`
	DownloadURL string `json:"download_url"`
	Filename    string `json:"filename"`
}

type artifactData struct {
	DownloadURL string `json:"download_url"`
	URL         string `json:"url"`
	Filename    string `json:"filename"`
}

// ProofItem is one element of the verification upload
type ProofItem struct {
	Proof   string `json:"proof"`
	Root    string `json:"root"`
	Address string `json:"address"`
	Data    string `json:"data"`
}

// Report is the verification reply kept as raw JSON so no field is lost
type Report = json.RawMessage
