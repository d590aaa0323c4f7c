package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	stampdom "notary/internal/services/stamping/domain"
	stampsvc "notary/internal/services/stamping/service"
	verdom "notary/internal/services/verification/domain"
)

// FileHashed renders the digest of an uploaded file
func FileHashed(filename, hash string) string {
	return fmt.Sprintf("✅ File hashed successfully!\n\n**Filename:** %s\n**Hash:** %s\n\nWould you like me to stamp this hash on the blockchain?", filename, hash)
}

// Confirmation renders a confirmed stamping result with its proof and, when
// present, the proof file link or the annotation explaining its absence
func Confirmation(res stampdom.StampResult) string {
	var b strings.Builder
	b.WriteString(stampsvc.MsgConfirmed)
	b.WriteString("\n\nYour hash has been successfully confirmed on the blockchain. ")
	b.WriteString("This proof data can be used for later verification on the blockchain.\n\n")
	if res.UID != "" {
		fmt.Fprintf(&b, "**UID:** %s\n\n", res.UID)
	}
	if res.Proof != nil {
		b.WriteString("**Proof Data:**\n```json\n")
		b.WriteString(indent(res.Proof))
		b.WriteString("\n```\n")
	}

	if l := res.ArtifactLink; l != nil && l.DownloadURL != "" {
		name := l.Filename
		if name == "" {
			name = "proof file"
		}
		fmt.Fprintf(&b, "\n📄 **Proof file:** [%s](%s)\n", name, l.DownloadURL)
	} else if note := strings.TrimSpace(strings.TrimPrefix(res.Message, stampsvc.MsgConfirmed)); note != "" {
		b.WriteString("\n" + note + "\n")
	}
	return b.String()
}

// VerificationReport renders a report; a full match gets the detail table
// and anything else the bare result. Reports without a result are dumped
func VerificationReport(rep verdom.Report, analysis string) string {
	o, ok := rep.Outcome()
	if !ok {
		return fmt.Sprintf("Verification result:\n```json\n%s\n```\n\n%s", indentRaw(rep.Raw), analysis)
	}

	if !o.FullMatch() {
		return fmt.Sprintf("✅ Verification completed\n\nResult: **%s**\n\n%s\n---\n", o.Result, analysis)
	}

	var b strings.Builder
	b.WriteString("🎉 Proof Verified!\n\nYour proof has been successfully verified.\n\n")
	b.WriteString("## Verification Report\n\n|  |  |\n|---|---|\n")
	fmt.Fprintf(&b, "| **Result** | %s |\n", o.Result)
	fmt.Fprintf(&b, "| **Date** | %s |\n", o.BlockDate)
	fmt.Fprintf(&b, "| **Block** | %s (txpow %s) |\n", o.BlockNumber, o.TxPowID)
	fmt.Fprintf(&b, "| **NFT Proof** | Verification ID %s |\n", o.NFTTxnID)
	if o.ReportURL != "" {
		fmt.Fprintf(&b, "| **Report** | %s |\n", o.ReportURL)
	}
	b.WriteString("\n\n## Intelligent analysis\n\n")
	b.WriteString("(AI can make mistakes. Check important info.)\n\n---\n")
	b.WriteString(analysis)
	b.WriteString("\n---\n")
	return b.String()
}

func indent(v any) string {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(out)
}

func indentRaw(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
