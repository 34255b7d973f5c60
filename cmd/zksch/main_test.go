package main

import (
	"path/filepath"
	"testing"
)

func TestKeygenProveVerify(t *testing.T) {
	for _, hashName := range []string{"blake3", "sha3-256"} {
		hashName := hashName
		t.Run(hashName, func(t *testing.T) {
			dir := t.TempDir()
			keyPath := filepath.Join(dir, "key.json")
			proofPath := filepath.Join(dir, "proof.json")

			if err := runKeygen([]string{"-out", keyPath}); err != nil {
				t.Fatalf("keygen failed: %v", err)
			}
			if err := runProve([]string{"-key", keyPath, "-out", proofPath, "-hash", hashName}); err != nil {
				t.Fatalf("prove failed: %v", err)
			}
			if err := runVerify([]string{"-in", proofPath}); err != nil {
				t.Fatalf("verify failed: %v", err)
			}
		})
	}
}

func TestVerifyRejectsOtherSession(t *testing.T) {
	dir := t.TempDir()
	keyPath := filepath.Join(dir, "key.json")
	proofPath := filepath.Join(dir, "proof.json")

	if err := runKeygen([]string{"-out", keyPath}); err != nil {
		t.Fatalf("keygen failed: %v", err)
	}
	if err := runProve([]string{"-key", keyPath, "-out", proofPath, "-session", "session-a"}); err != nil {
		t.Fatalf("prove failed: %v", err)
	}

	var pf proofFile
	if err := readJSON(proofPath, &pf); err != nil {
		t.Fatal(err)
	}
	pf.Session = "session-b"
	if err := writeJSON(proofPath, pf); err != nil {
		t.Fatal(err)
	}

	if err := runVerify([]string{"-in", proofPath}); err == nil {
		t.Fatal("proof bound to another session should be rejected")
	}
}

func TestDemo(t *testing.T) {
	for _, name := range []string{"secp256k1", "ristretto255"} {
		if err := runDemo([]string{"-curve", name}); err != nil {
			t.Errorf("demo on %s failed: %v", name, err)
		}
	}
}

func TestNewTranscriptUnknownHash(t *testing.T) {
	if _, err := newTranscript("md5", "s"); err == nil {
		t.Fatal("expected error for unsupported hash")
	}
}
