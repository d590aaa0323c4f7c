package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/textproto"
	"strings"

	perr "notary/internal/platform/errors"
)

const (
	pathSubmitHash   = "/v1/timestamp/post"
	pathStatus       = "/v1/timestamp/status"
	pathArtifactLink = "/v1/timestamp/get-proof-file"
	pathVerify       = "/v1/verify/post-lite"

	proofUploadName = "proof_data.json"
)

func jsonBody(v any) func() ([]byte, error) {
	return func() ([]byte, error) { return json.Marshal(v) }
}

// SubmitHash submits hash for stamping and returns the stamping handle
func (c *Client) SubmitHash(ctx context.Context, hash, requestID string) (string, error) {
	var env envelope[submitHashData]
	err := c.do(ctx, request{
		path:        pathSubmitHash,
		requestID:   requestID,
		contentType: "application/json",
		body:        jsonBody(submitHashBody{Hash: hash}),
	}, &env)
	if err != nil {
		return "", err
	}
	if !env.Succeeded() {
		return "", perr.Upstreamf("ledger rejected hash: status %q %s", env.Status, env.Message)
	}
	uid := strings.TrimSpace(env.Data.UID)
	if uid == "" {
		return "", perr.Upstreamf("ledger accepted hash without uid")
	}
	return uid, nil
}

// PollStatus looks up the confirmation state of uids. A non-success status is
// returned as data, not as an error
func (c *Client) PollStatus(ctx context.Context, uids []string) (Status, error) {
	var env envelope[json.RawMessage]
	err := c.do(ctx, request{
		path:        pathStatus,
		contentType: "application/json",
		body:        jsonBody(uidsBody{UIDs: uids}),
	}, &env)
	if err != nil {
		return Status{}, err
	}
	out := Status{Status: env.Status}
	if !env.Succeeded() || len(env.Data) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(env.Data, &out.Records); err != nil {
		return Status{}, perr.Wrap(err, perr.ErrorCodeJSON, "ledger decode status records")
	}
	return out, nil
}

// RequestArtifactLink asks the ledger for a downloadable proof file covering uids
func (c *Client) RequestArtifactLink(ctx context.Context, uids []string, requestID string) (ArtifactLink, error) {
	var env envelope[artifactData]
	err := c.do(ctx, request{
		path:        pathArtifactLink,
		requestID:   requestID,
		contentType: "application/json",
		body:        jsonBody(uidsBody{UIDs: uids}),
	}, &env)
	if err != nil {
		return ArtifactLink{}, err
	}
	link := ArtifactLink{Status: env.Status, DownloadURL: env.Data.DownloadURL, Filename: env.Data.Filename}
	if link.DownloadURL == "" {
		link.DownloadURL = env.Data.URL
	}
	if !env.Succeeded() || link.DownloadURL == "" {
		return link, perr.Upstreamf("ledger returned no artifact link: status %q", env.Status)
	}
	return link, nil
}

// SubmitVerification uploads items as a JSON file and returns the raw report
func (c *Client) SubmitVerification(ctx context.Context, items []ProofItem, requestID string) (Report, error) {
	body, contentType, err := proofUpload(items)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "ledger build verification upload")
	}

	var report json.RawMessage
	err = c.do(ctx, request{
		path:        pathVerify,
		requestID:   requestID,
		contentType: contentType,
		headers:     map[string]string{"x-report-required": "true"},
		body:        func() ([]byte, error) { return body, nil },
	}, &report)
	if err != nil {
		return nil, err
	}
	if trimmed := bytes.TrimSpace(report); len(trimmed) == 0 || string(trimmed) == "null" {
		return nil, perr.Upstreamf("ledger returned an empty verification report")
	}
	return report, nil
}

// proofUpload renders items as a single multipart file field
func proofUpload(items []ProofItem) ([]byte, string, error) {
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, "", err
	}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+proofUploadName+`"`)
	h.Set("Content-Type", "application/json")
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(raw); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), mw.FormDataContentType(), nil
}
