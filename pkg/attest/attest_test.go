package attest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/zen-systems/burngate/pkg/evidence"
)

func writeBundle(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	writer, err := evidence.NewWriter(base, "run-test")
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	record := evidence.RunRecord{
		ID:        "run-test",
		Timestamp: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		Mode:      "study",
		BudgetCap: 5,
	}
	if err := writer.WriteRun(record); err != nil {
		t.Fatalf("WriteRun: %v", err)
	}
	verdict := &evidence.StudyVerdict{RunID: "run-test", State: evidence.StateCompleted, Pairs: 3}
	if err := writer.WriteVerdict(verdict); err != nil {
		t.Fatalf("WriteVerdict: %v", err)
	}
	return writer.RunDir()
}

func TestBuildHashesBundle(t *testing.T) {
	runDir := writeBundle(t)

	att, err := Build(runDir)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if att.RunID != "run-test" || att.Mode != "study" {
		t.Fatalf("attestation = %+v", att)
	}
	if _, ok := att.Hashes["run.json"]; !ok {
		t.Fatalf("run.json not hashed: %v", att.Hashes)
	}
	if _, ok := att.Hashes["verdict.json"]; !ok {
		t.Fatalf("verdict.json not hashed: %v", att.Hashes)
	}
}

func TestVerifyBundleDetectsTampering(t *testing.T) {
	runDir := writeBundle(t)

	att, err := Build(runDir)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := VerifyBundle(runDir, att); err != nil {
		t.Fatalf("pristine bundle failed verification: %v", err)
	}

	verdictPath := filepath.Join(runDir, "verdict.json")
	if err := os.WriteFile(verdictPath, []byte(`{"pairs": 9999}`), 0644); err != nil {
		t.Fatalf("tamper: %v", err)
	}
	err = VerifyBundle(runDir, att)
	if err == nil {
		t.Fatalf("tampered bundle passed verification")
	}
	if !strings.Contains(err.Error(), "verdict.json: hash mismatch") {
		t.Fatalf("unexpected verification error: %v", err)
	}
}

func TestVerifyBundleDetectsExtraFiles(t *testing.T) {
	runDir := writeBundle(t)

	att, err := Build(runDir)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	extra := filepath.Join(runDir, "extra.json")
	if err := os.WriteFile(extra, []byte(`{}`), 0644); err != nil {
		t.Fatalf("write extra: %v", err)
	}
	err = VerifyBundle(runDir, att)
	if err == nil || !strings.Contains(err.Error(), "extra.json: not attested") {
		t.Fatalf("extra file not reported: %v", err)
	}
}

func TestWriteLoadRoundTrip(t *testing.T) {
	runDir := writeBundle(t)

	att, err := Build(runDir)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, err := att.Write(runDir); err != nil {
		t.Fatalf("Write: %v", err)
	}

	loaded, err := Load(runDir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.RunID != att.RunID || len(loaded.Hashes) != len(att.Hashes) {
		t.Fatalf("loaded = %+v", loaded)
	}

	// The attestation file itself never invalidates the bundle it attests.
	if err := VerifyBundle(runDir, loaded); err != nil {
		t.Fatalf("bundle with attestation file failed verification: %v", err)
	}
}

func TestSignAndVerifySignature(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	runDir := writeBundle(t)
	att, err := Build(runDir)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	signer, err := newTestSigner(t)
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	if err := att.Sign(signer); err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if err := att.VerifySignature(); err != nil {
		t.Fatalf("VerifySignature: %v", err)
	}

	// Any change to the attested content breaks the signature.
	att.RunID = "forged"
	if err := att.VerifySignature(); err == nil {
		t.Fatalf("forged attestation passed signature check")
	}
}

func TestVerifySignatureUnsigned(t *testing.T) {
	runDir := writeBundle(t)
	att, err := Build(runDir)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := att.VerifySignature(); err == nil {
		t.Fatalf("unsigned attestation passed signature check")
	}
}
