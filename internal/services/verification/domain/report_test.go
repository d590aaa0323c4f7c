package domain

import (
	"encoding/json"
	"testing"
)

const fullMatch = `{"data":{"response":{"nfttxnid":"0xNFT","data":{"result":"full match","blockchain_data":[{"block_date":"2025-01-02 03:04:05","block_number":123456,"txpow_id":"0xTX"}]}}}}`

func TestOutcomeFullMatch(t *testing.T) {
	o, ok := Report{Raw: json.RawMessage(fullMatch)}.Outcome()
	if !ok || !o.FullMatch() {
		t.Fatalf("want full match, got %+v ok=%v", o, ok)
	}
	if o.BlockDate != "2025-01-02 03:04:05" || o.BlockNumber != "123456" || o.TxPowID != "0xTX" || o.NFTTxnID != "0xNFT" {
		t.Fatalf("details = %+v", o)
	}
}

func TestOutcomeOtherResult(t *testing.T) {
	o, ok := Report{Raw: json.RawMessage(`{"data":{"response":{"data":{"result":"no match"}}}}`)}.Outcome()
	if !ok || o.FullMatch() || o.Result != "no match" || o.BlockNumber != "" {
		t.Fatalf("got %+v ok=%v", o, ok)
	}
}

func TestOutcomeMissingResult(t *testing.T) {
	for _, raw := range []string{`{}`, `[]`, `not json`, `{"data":{"response":{"data":{}}}}`} {
		if _, ok := (Report{Raw: json.RawMessage(raw)}).Outcome(); ok {
			t.Fatalf("%s: expected no outcome", raw)
		}
	}
}

func TestReportJSONIsVerbatim(t *testing.T) {
	r := Report{Raw: json.RawMessage(fullMatch)}
	b, err := json.Marshal(struct {
		Report Report `json:"report"`
	}{r})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"report":`+fullMatch+`}` {
		t.Fatalf("got %s", b)
	}

	var back Report
	if err := json.Unmarshal([]byte(fullMatch), &back); err != nil || string(back.Raw) != fullMatch {
		t.Fatalf("unmarshal: %v %s", err, back.Raw)
	}
	if !(Report{}).IsZero() {
		t.Fatalf("zero report should be zero")
	}
}
