package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ResultFullMatch is the classification of a fully verified proof
const ResultFullMatch = "full match"

// Report is the upstream verification reply, kept verbatim
type Report struct {
	Raw json.RawMessage
}

// IsZero reports whether the report carries no payload
func (r Report) IsZero() bool {
	t := bytes.TrimSpace(r.Raw)
	return len(t) == 0 || string(t) == "null"
}

// MarshalJSON emits the raw payload
func (r Report) MarshalJSON() ([]byte, error) {
	if r.IsZero() {
		return []byte("null"), nil
	}
	return r.Raw, nil
}

// UnmarshalJSON keeps a copy of the payload
func (r *Report) UnmarshalJSON(b []byte) error {
	r.Raw = append(r.Raw[:0], b...)
	return nil
}

// Outcome is the part of a report the presentation layer branches on
type Outcome struct {
	Result      string
	BlockDate   string
	BlockNumber string
	TxPowID     string
	NFTTxnID    string
	ReportURL   string
}

// FullMatch reports whether the proof matched on chain
func (o Outcome) FullMatch() bool { return o.Result == ResultFullMatch }

type reportDoc struct {
	Data struct {
		Response struct {
			Data struct {
				Result         *string `json:"result"`
				BlockchainData []struct {
					BlockDate   json.RawMessage `json:"block_date"`
					BlockNumber json.RawMessage `json:"block_number"`
					TxPowID     json.RawMessage `json:"txpow_id"`
				} `json:"blockchain_data"`
			} `json:"data"`
			NFTTxnID  json.RawMessage `json:"nfttxnid"`
			ReportURL json.RawMessage `json:"report_url"`
		} `json:"response"`
	} `json:"data"`
}

// Outcome extracts the classification and blockchain details, false when
// the report has no result field
func (r Report) Outcome() (Outcome, bool) {
	var doc reportDoc
	if err := json.Unmarshal(r.Raw, &doc); err != nil {
		return Outcome{}, false
	}
	resp := doc.Data.Response
	if resp.Data.Result == nil {
		return Outcome{}, false
	}
	out := Outcome{
		Result:    *resp.Data.Result,
		NFTTxnID:  scalar(resp.NFTTxnID),
		ReportURL: scalar(resp.ReportURL),
	}
	if len(resp.Data.BlockchainData) > 0 {
		bd := resp.Data.BlockchainData[0]
		out.BlockDate = scalar(bd.BlockDate)
		out.BlockNumber = scalar(bd.BlockNumber)
		out.TxPowID = scalar(bd.TxPowID)
	}
	return out, true
}

// scalar renders a JSON string or number as text
func scalar(raw json.RawMessage) string {
	t := bytes.TrimSpace(raw)
	if len(t) == 0 || string(t) == "null" {
		return ""
	}
	var s string
	if json.Unmarshal(t, &s) == nil {
		return s
	}
	return strings.TrimSpace(string(t))
}
