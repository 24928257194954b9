// Package attest builds signed attestations over evidence bundles. An
// attestation pins the sha256 of every file in a run directory, so a verdict
// quoted in a writeup can be checked against the bundle that produced it.
package attest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/zen-systems/burngate/pkg/crypto"
	"github.com/zen-systems/burngate/pkg/evidence"
)

// SchemaVersion identifies the attestation format.
const SchemaVersion = "burngate/attestation/v1"

// AttestationFile is the name the attestation is written under inside the
// run directory. It is excluded from its own hash set.
const AttestationFile = "attestation.json"

// Attestation pins a run's evidence files.
type Attestation struct {
	Schema    string            `json:"schema"`
	RunID     string            `json:"run_id"`
	Mode      string            `json:"mode"`
	CreatedAt time.Time         `json:"created_at"`
	Hashes    map[string]string `json:"hashes"`
	Signature *crypto.Signature `json:"signature,omitempty"`
}

// Build hashes every JSON file in the run directory and assembles an
// unsigned attestation.
func Build(runDir string) (*Attestation, error) {
	if runDir == "" {
		return nil, fmt.Errorf("run directory is required")
	}

	runData, err := os.ReadFile(filepath.Join(runDir, "run.json"))
	if err != nil {
		return nil, fmt.Errorf("read run record: %w", err)
	}
	var record evidence.RunRecord
	if err := json.Unmarshal(runData, &record); err != nil {
		return nil, fmt.Errorf("parse run record: %w", err)
	}

	hashes, err := hashBundle(runDir)
	if err != nil {
		return nil, err
	}

	return &Attestation{
		Schema:    SchemaVersion,
		RunID:     record.ID,
		Mode:      record.Mode,
		CreatedAt: time.Now().UTC(),
		Hashes:    hashes,
	}, nil
}

// Sign attaches a signature over the attestation's canonical form.
func (a *Attestation) Sign(signer *crypto.Signer) error {
	payload, err := a.canonicalPayload()
	if err != nil {
		return err
	}
	a.Signature = signer.Sign(payload)
	return nil
}

// VerifySignature checks the attached signature.
func (a *Attestation) VerifySignature() error {
	if a.Signature == nil {
		return fmt.Errorf("attestation is unsigned")
	}
	payload, err := a.canonicalPayload()
	if err != nil {
		return err
	}
	return crypto.Verify(payload, a.Signature)
}

// canonicalPayload marshals the attestation without its signature. Map keys
// marshal sorted, so the payload is stable.
func (a *Attestation) canonicalPayload() ([]byte, error) {
	unsigned := *a
	unsigned.Signature = nil
	return json.Marshal(&unsigned)
}

// Write stores the attestation inside the run directory.
func (a *Attestation) Write(runDir string) (string, error) {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(runDir, AttestationFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// Load reads an attestation from a run directory.
func Load(runDir string) (*Attestation, error) {
	data, err := os.ReadFile(filepath.Join(runDir, AttestationFile))
	if err != nil {
		return nil, err
	}
	var att Attestation
	if err := json.Unmarshal(data, &att); err != nil {
		return nil, err
	}
	if att.Schema != SchemaVersion {
		return nil, fmt.Errorf("unsupported attestation schema %q", att.Schema)
	}
	return &att, nil
}

// hashBundle hashes every regular .json file under runDir, keyed by path
// relative to the run directory. The attestation file itself is skipped.
func hashBundle(runDir string) (map[string]string, error) {
	hashes := make(map[string]string)
	err := filepath.Walk(runDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		rel, err := filepath.Rel(runDir, path)
		if err != nil {
			return err
		}
		if rel == AttestationFile {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		sum := sha256.Sum256(data)
		hashes[filepath.ToSlash(rel)] = hex.EncodeToString(sum[:])
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(hashes) == 0 {
		return nil, fmt.Errorf("no evidence files found in %s", runDir)
	}
	return hashes, nil
}

// VerifyBundle re-hashes the run directory and reports every divergence
// from the attestation. A nil return means the bundle matches exactly.
func VerifyBundle(runDir string, att *Attestation) error {
	current, err := hashBundle(runDir)
	if err != nil {
		return err
	}

	var problems []string
	for rel, want := range att.Hashes {
		got, ok := current[rel]
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("%s: missing", rel))
		case got != want:
			problems = append(problems, fmt.Sprintf("%s: hash mismatch", rel))
		}
	}
	for rel := range current {
		if _, ok := att.Hashes[rel]; !ok {
			problems = append(problems, fmt.Sprintf("%s: not attested", rel))
		}
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return fmt.Errorf("bundle diverges from attestation:\n  %s", joinLines(problems))
	}
	return nil
}

func joinLines(lines []string) string {
	out := ""
	for i, line := range lines {
		if i > 0 {
			out += "\n  "
		}
		out += line
	}
	return out
}
